package store

import (
	"context"
	"fmt"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
)

// bucketCountsQuery counts positive results per UTC period start and pathogen.
// $1 is the period unit; the filter predicate is numbered after it.
func bucketCountsQuery(period domain.Period, opts StatisticsOpts) (string, []interface{}, error) {
	where, args, err := Render(opts.Predicate(), 1)
	if err != nil {
		return "", nil, err
	}

	sql := `SELECT date_trunc($1::text, tr.created_at AT TIME ZONE 'UTC') AS bucket,
	pa.id AS pathogen_id,
	pa.name AS pathogen_name,
	COUNT(*) AS count
FROM ` + fromTestResults + `
	JOIN ` + joinPathogens + `
	JOIN ` + joinPathogen + `
WHERE ` + where + `
GROUP BY bucket, pa.id, pa.name
ORDER BY bucket, pa.name, pa.id`

	return sql, append([]interface{}{string(period)}, args...), nil
}

// ListPositiveBucketCounts returns only the (bucket, pathogen) pairs that have
// observations; gap filling is left to the caller.
func (s *store) ListPositiveBucketCounts(
	ctx context.Context,
	period domain.Period,
	opts StatisticsOpts,
) ([]domain.BucketPathogenCount, error) {
	sql, args, err := bucketCountsQuery(period, opts)
	if err != nil {
		return nil, fmt.Errorf("build bucket counts query: %w", err)
	}

	var selected []domain.BucketPathogenCount
	err = s.pool.Select(ctx, &selected, sql, args...)
	if err != nil {
		logger.Errorf(ctx, "ListPositiveBucketCounts: %s", err.Error())
		return nil, fmt.Errorf("list positive bucket counts, period-%s: %w", period, err)
	}

	for i := range selected {
		selected[i].Bucket = selected[i].Bucket.UTC()
	}

	return selected, nil
}
