package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
)

// GetPositiveTimeSeries counts positive results per period and pathogen
// between the mandatory start and end dates. Every period in the range is
// present in the result, including periods without observations.
func (s *Service) GetPositiveTimeSeries(ctx context.Context, period domain.Period, opts store.StatisticsOpts) (*domain.TimeSeries, error) {
	start, end := opts.Filter.StartDate, opts.Filter.EndDate
	if err := period.CheckRange(start, end); err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}

	buckets := period.Buckets(*start, *end)

	var rows []domain.BucketPathogenCount
	if !opts.Audience.IsEmpty() {
		var err error
		rows, err = s.store.ListPositiveBucketCounts(ctx, period, opts)
		if err != nil {
			return nil, err
		}
	}

	return fillTimeSeries(period, buckets, rows), nil
}

type pathogen struct {
	id   int64
	name string
}

type bucketKey struct {
	bucket     int64
	pathogenID int64
}

// fillTimeSeries left-joins observed rows onto every bucket × observed
// pathogen pair. Rows outside buckets are ignored.
func fillTimeSeries(period domain.Period, buckets []time.Time, rows []domain.BucketPathogenCount) *domain.TimeSeries {
	names := make(map[int64]string)
	observed := make(map[bucketKey]int64, len(rows))
	for _, row := range rows {
		names[row.PathogenID] = row.PathogenName
		observed[bucketKey{bucket: row.Bucket.Unix(), pathogenID: row.PathogenID}] += row.Count
	}

	pathogens := make([]pathogen, 0, len(names))
	for id, name := range names {
		pathogens = append(pathogens, pathogen{id: id, name: name})
	}
	sort.Slice(pathogens, func(i, j int) bool {
		if pathogens[i].name != pathogens[j].name {
			return pathogens[i].name < pathogens[j].name
		}
		return pathogens[i].id < pathogens[j].id
	})

	series := &domain.TimeSeries{
		Period:     period,
		ByPathogen: make([]domain.BucketPathogenCount, 0, len(buckets)*len(pathogens)),
		Total:      make([]domain.BucketCount, 0, len(buckets)),
	}
	for _, b := range buckets {
		var total int64
		for _, p := range pathogens {
			count := observed[bucketKey{bucket: b.Unix(), pathogenID: p.id}]
			series.ByPathogen = append(series.ByPathogen, domain.BucketPathogenCount{
				Bucket:       b,
				PathogenID:   p.id,
				PathogenName: p.name,
				Count:        count,
			})
			total += count
		}
		series.Total = append(series.Total, domain.BucketCount{Bucket: b, Count: total})
	}

	return series
}
