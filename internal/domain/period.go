package domain

import (
	"errors"
	"fmt"
	"time"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// MaxBuckets bounds the length of a time series.
const MaxBuckets = 3660

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Truncate returns the UTC start of the period containing t. Weeks start on Monday.
func (p Period) Truncate(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// Next returns the start of the period following the one starting at bucket.
func (p Period) Next(bucket time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return bucket.AddDate(0, 0, 7)
	case PeriodMonth:
		return bucket.AddDate(0, 1, 0)
	default:
		return bucket.AddDate(0, 0, 1)
	}
}

// BucketCount is the number of buckets Buckets(start, end) would return.
func (p Period) BucketCount(start, end time.Time) int {
	from, to := p.Truncate(start), p.Truncate(end)
	if to.Before(from) {
		return 0
	}

	switch p {
	case PeriodMonth:
		return (to.Year()-from.Year())*12 + int(to.Month()-from.Month()) + 1
	case PeriodWeek:
		return int(to.Sub(from).Hours()/24)/7 + 1
	default:
		return int(to.Sub(from).Hours()/24) + 1
	}
}

// Buckets materialises every period start from the period of start to the
// period of end, both inclusive. It is empty when end precedes start.
func (p Period) Buckets(start, end time.Time) []time.Time {
	from, to := p.Truncate(start), p.Truncate(end)

	buckets := make([]time.Time, 0, p.BucketCount(start, end))
	for b := from; !b.After(to); b = p.Next(b) {
		buckets = append(buckets, b)
	}

	return buckets
}

// CheckRange reports whether start and end describe a series of this period
// that can be materialised: both present, ordered, at most MaxBuckets long.
func (p Period) CheckRange(start, end *time.Time) error {
	if start == nil || end == nil {
		return errors.New("time series requires start and end dates")
	}
	if end.Before(*start) {
		return errors.New("start date is after end date")
	}
	if n := p.BucketCount(*start, *end); n > MaxBuckets {
		return fmt.Errorf("%d %s buckets requested, at most %d allowed", n, p, MaxBuckets)
	}

	return nil
}
