package statistics

import (
	"context"
	"sync"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
)

// fakeStore answers from maps and records the options of every aggregate call.
type fakeStore struct {
	mu sync.Mutex

	doctors  map[int64]domain.Location
	cities   map[int64]domain.Location
	regions  map[int64]string
	geoErr   error
	statsErr error

	pathogens map[domain.Audience][]domain.PathogenCount
	buckets   []domain.BucketPathogenCount

	calls []store.StatisticsOpts
}

func (f *fakeStore) record(opts store.StatisticsOpts) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opts)
}

func (f *fakeStore) GetDoctorLocation(_ context.Context, doctorID int64) (*domain.DoctorLocation, error) {
	if f.geoErr != nil {
		return nil, f.geoErr
	}
	loc, ok := f.doctors[doctorID]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return &domain.DoctorLocation{DoctorID: doctorID, Location: loc}, nil
}

func (f *fakeStore) GetCityLocation(_ context.Context, cityID int64) (*domain.Location, error) {
	if f.geoErr != nil {
		return nil, f.geoErr
	}
	loc, ok := f.cities[cityID]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return &loc, nil
}

func (f *fakeStore) GetRegion(_ context.Context, regionID int64) (*domain.Region, error) {
	if f.geoErr != nil {
		return nil, f.geoErr
	}
	name, ok := f.regions[regionID]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return &domain.Region{ID: regionID, Name: name}, nil
}

func (f *fakeStore) GetPositiveNegativeCounts(_ context.Context, opts store.StatisticsOpts) (*domain.PositiveNegativeCounts, error) {
	f.record(opts)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &domain.PositiveNegativeCounts{Positive: 3, Negative: 4}, nil
}

func (f *fakeStore) GetAgeGroupCounts(_ context.Context, opts store.StatisticsOpts) (domain.AgeGroupCounts, error) {
	f.record(opts)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	counts := domain.NewAgeGroupCounts()
	counts[domain.AgeGroupAdult] = 2
	return counts, nil
}

func (f *fakeStore) GetPositiveByPathogensCounts(_ context.Context, opts store.StatisticsOpts) ([]domain.PathogenCount, error) {
	f.record(opts)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.pathogens[opts.Audience], nil
}

func (f *fakeStore) GetPositiveByPathogensAndAgeGroupsCounts(_ context.Context, opts store.StatisticsOpts) ([]domain.PathogenAgeGroupCount, error) {
	f.record(opts)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return nil, nil
}

func (f *fakeStore) ListPositiveBucketCounts(_ context.Context, _ domain.Period, opts store.StatisticsOpts) ([]domain.BucketPathogenCount, error) {
	f.record(opts)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.buckets, nil
}

func id(v int64) *int64 {
	return &v
}
