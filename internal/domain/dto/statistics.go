package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
)

const DateLayout = "2006-01-02"

// DateRange is the observation window of a request. Dates are either a plain
// date or an RFC 3339 timestamp; a plain end date covers the whole day.
type DateRange struct {
	StartDate string `query:"startDate" validate:"omitempty,isodate"`
	EndDate   string `query:"endDate" validate:"omitempty,isodate"`
}

// StatisticsRequest holds the query parameters of every aggregate endpoint.
type StatisticsRequest struct {
	DateRange
	Search   string `query:"search"`
	City     string `query:"city"`
	RegionID int64  `query:"regionId" validate:"omitempty,gt=0"`
	CityID   int64  `query:"cityId" validate:"omitempty,gt=0"`
	Scope    string `query:"scope" validate:"omitempty,oneof=me district region country"`
}

type TimeSeriesRequest struct {
	StatisticsRequest
	Period string `query:"period" validate:"required,oneof=day week month"`
}

// DistributionRequest takes region and city as overrides of the doctor's
// geography, not as filters.
type DistributionRequest struct {
	DateRange
	RegionID int64 `query:"regionId" validate:"omitempty,gt=0"`
	CityID   int64 `query:"cityId" validate:"omitempty,gt=0"`
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. The result is in UTC.
func ParseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: invalid date %q", constants.ErrInvalidInput, s)
	}

	return t.UTC(), false, nil
}

// Bounds parses the range. A plain end date is moved to the last microsecond
// of that day, the finest resolution the database stores.
func (r DateRange) Bounds() (start, end *time.Time, err error) {
	if s := strings.TrimSpace(r.StartDate); s != "" {
		t, _, err := ParseDate(s)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}

	if s := strings.TrimSpace(r.EndDate); s != "" {
		t, dateOnly, err := ParseDate(s)
		if err != nil {
			return nil, nil, err
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
		end = &t
	}

	if start != nil && end != nil && start.After(*end) {
		return nil, nil, fmt.Errorf("%w: startDate is after endDate", constants.ErrInvalidInput)
	}

	return start, end, nil
}

func (r DateRange) FilterOpts() (store.FilterOpts, error) {
	start, end, err := r.Bounds()
	if err != nil {
		return store.FilterOpts{}, err
	}

	return store.FilterOpts{StartDate: start, EndDate: end}, nil
}

func (r StatisticsRequest) FilterOpts() (store.FilterOpts, error) {
	opts, err := r.DateRange.FilterOpts()
	if err != nil {
		return store.FilterOpts{}, err
	}

	if s := strings.TrimSpace(r.Search); s != "" {
		opts.Search = &s
	}
	if s := strings.TrimSpace(r.City); s != "" {
		opts.City = &s
	}
	if r.RegionID > 0 {
		opts.RegionID = &r.RegionID
	}
	if r.CityID > 0 {
		opts.CityID = &r.CityID
	}

	return opts, nil
}

func (r StatisticsRequest) ScopeName() (domain.ScopeName, error) {
	if r.Scope == "" {
		return "", nil
	}

	name, ok := domain.ParseScopeName(r.Scope)
	if !ok {
		return "", fmt.Errorf("%w: unknown scope %q", constants.ErrInvalidInput, r.Scope)
	}

	return name, nil
}

func (r TimeSeriesRequest) ParsePeriod() (domain.Period, error) {
	period, err := domain.ParsePeriod(r.Period)
	if err != nil {
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}

	return period, nil
}

// Series parses and validates everything a time series needs from the request
// itself, so that malformed ranges are rejected before any lookup.
func (r TimeSeriesRequest) Series() (domain.Period, store.FilterOpts, error) {
	period, err := r.ParsePeriod()
	if err != nil {
		return "", store.FilterOpts{}, err
	}

	filter, err := r.FilterOpts()
	if err != nil {
		return "", store.FilterOpts{}, err
	}

	if err := period.CheckRange(filter.StartDate, filter.EndDate); err != nil {
		return "", store.FilterOpts{}, fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}

	return period, filter, nil
}

func (r DistributionRequest) Overrides() domain.ScopeOverrides {
	var overrides domain.ScopeOverrides
	if r.RegionID > 0 {
		overrides.RegionID = &r.RegionID
	}
	if r.CityID > 0 {
		overrides.CityID = &r.CityID
	}

	return overrides
}
