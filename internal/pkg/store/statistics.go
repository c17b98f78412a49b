package store

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
)

type StatisticsStore interface {
	GetPositiveNegativeCounts(ctx context.Context, opts StatisticsOpts) (*domain.PositiveNegativeCounts, error)
	GetAgeGroupCounts(ctx context.Context, opts StatisticsOpts) (domain.AgeGroupCounts, error)
	GetPositiveByPathogensCounts(ctx context.Context, opts StatisticsOpts) ([]domain.PathogenCount, error)
	GetPositiveByPathogensAndAgeGroupsCounts(ctx context.Context, opts StatisticsOpts) ([]domain.PathogenAgeGroupCount, error)
	ListPositiveBucketCounts(ctx context.Context, period domain.Period, opts StatisticsOpts) ([]domain.BucketPathogenCount, error)
}

const (
	// hasPathogen holds for positive results.
	hasPathogen = "EXISTS (SELECT 1 FROM " + tableTestResultPathogens + " ptrp WHERE ptrp.test_result_id = tr.id)"

	// ageYears is the patient's age in whole years at observation time, NULL
	// when the date of birth is unknown or lies after the observation.
	ageYears = "CASE WHEN p.date_of_birth IS NULL OR p.date_of_birth > tr.created_at THEN NULL" +
		" ELSE date_part('year', age(tr.created_at, p.date_of_birth))::int END"

	joinPathogens = tableTestResultPathogens + " trp ON trp.test_result_id = tr.id"
	joinPathogen  = tablePathogens + " pa ON pa.id = trp.pathogen_id"
)

func positiveNegativeQuery(opts StatisticsOpts) sq.SelectBuilder {
	return builder().Select(
		"COUNT(*) FILTER (WHERE "+hasPathogen+") AS positive",
		"COUNT(*) FILTER (WHERE NOT "+hasPathogen+") AS negative",
	).
		From(fromTestResults).
		Where(opts.Predicate())
}

func (s *store) GetPositiveNegativeCounts(ctx context.Context, opts StatisticsOpts) (*domain.PositiveNegativeCounts, error) {
	var selected domain.PositiveNegativeCounts
	err := s.pool.Getx(ctx, &selected, positiveNegativeQuery(opts))
	if err != nil {
		logger.Errorf(ctx, "GetPositiveNegativeCounts: %s", err.Error())
		return nil, fmt.Errorf("get positive/negative counts: %w", err)
	}

	return &selected, nil
}

type ageRow struct {
	AgeYears *int32 `db:"age_years"`
	Count    int64  `db:"count"`
}

func ageGroupQuery(opts StatisticsOpts) sq.SelectBuilder {
	return builder().Select(ageYears+" AS age_years", "COUNT(*) AS count").
		From(fromTestResults).
		Where(opts.Predicate()).
		Where(hasPathogen).
		GroupBy("age_years")
}

// foldAgeGroups sums rows grouped by age in years into the fixed age groups.
// Rows without a valid age belong to no group.
func foldAgeGroups(rows []ageRow) domain.AgeGroupCounts {
	counts := domain.NewAgeGroupCounts()
	for _, row := range rows {
		if row.AgeYears == nil {
			continue
		}
		if group, ok := domain.AgeGroupOf(int(*row.AgeYears)); ok {
			counts[group] += row.Count
		}
	}
	return counts
}

func (s *store) GetAgeGroupCounts(ctx context.Context, opts StatisticsOpts) (domain.AgeGroupCounts, error) {
	var rows []ageRow
	err := s.pool.Selectx(ctx, &rows, ageGroupQuery(opts))
	if err != nil {
		logger.Errorf(ctx, "GetAgeGroupCounts: %s", err.Error())
		return nil, fmt.Errorf("get age group counts: %w", err)
	}

	return foldAgeGroups(rows), nil
}

func pathogensQuery(opts StatisticsOpts) sq.SelectBuilder {
	return builder().Select(
		"pa.id AS pathogen_id",
		"pa.name AS pathogen_name",
		"COUNT(*) AS count",
	).
		From(fromTestResults).
		Join(joinPathogens).
		Join(joinPathogen).
		Where(opts.Predicate()).
		GroupBy("pa.id", "pa.name").
		OrderBy("count DESC", "pa.name ASC", "pa.id ASC")
}

// GetPositiveByPathogensCounts counts positive results per linked pathogen. A
// result with several pathogens is counted once for each of them.
func (s *store) GetPositiveByPathogensCounts(ctx context.Context, opts StatisticsOpts) ([]domain.PathogenCount, error) {
	var selected []domain.PathogenCount
	err := s.pool.Selectx(ctx, &selected, pathogensQuery(opts))
	if err != nil {
		logger.Errorf(ctx, "GetPositiveByPathogensCounts: %s", err.Error())
		return nil, fmt.Errorf("get positive by pathogens counts: %w", err)
	}

	return selected, nil
}

type pathogenAgeRow struct {
	PathogenID   int64  `db:"pathogen_id"`
	PathogenName string `db:"pathogen_name"`
	AgeYears     *int32 `db:"age_years"`
	Count        int64  `db:"count"`
}

func pathogensByAgeQuery(opts StatisticsOpts) sq.SelectBuilder {
	return builder().Select(
		"pa.id AS pathogen_id",
		"pa.name AS pathogen_name",
		ageYears+" AS age_years",
		"COUNT(*) AS count",
	).
		From(fromTestResults).
		Join(joinPathogens).
		Join(joinPathogen).
		Where(opts.Predicate()).
		GroupBy("pa.id", "pa.name", "age_years")
}

func foldPathogenAgeGroups(rows []pathogenAgeRow) []domain.PathogenAgeGroupCount {
	type key struct {
		pathogenID int64
		group      domain.AgeGroup
	}

	index := make(map[key]int)
	result := make([]domain.PathogenAgeGroupCount, 0, len(rows))
	for _, row := range rows {
		if row.AgeYears == nil {
			continue
		}
		group, ok := domain.AgeGroupOf(int(*row.AgeYears))
		if !ok {
			continue
		}

		k := key{pathogenID: row.PathogenID, group: group}
		if i, ok := index[k]; ok {
			result[i].Count += row.Count
			continue
		}
		index[k] = len(result)
		result = append(result, domain.PathogenAgeGroupCount{
			PathogenID:   row.PathogenID,
			PathogenName: row.PathogenName,
			AgeGroup:     group,
			Count:        row.Count,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].PathogenName != result[j].PathogenName {
			return result[i].PathogenName < result[j].PathogenName
		}
		if result[i].PathogenID != result[j].PathogenID {
			return result[i].PathogenID < result[j].PathogenID
		}
		return domain.AgeGroupIndex(result[i].AgeGroup) < domain.AgeGroupIndex(result[j].AgeGroup)
	})

	return result
}

func (s *store) GetPositiveByPathogensAndAgeGroupsCounts(ctx context.Context, opts StatisticsOpts) ([]domain.PathogenAgeGroupCount, error) {
	var rows []pathogenAgeRow
	err := s.pool.Selectx(ctx, &rows, pathogensByAgeQuery(opts))
	if err != nil {
		logger.Errorf(ctx, "GetPositiveByPathogensAndAgeGroupsCounts: %s", err.Error())
		return nil, fmt.Errorf("get positive by pathogens and age groups counts: %w", err)
	}

	return foldPathogenAgeGroups(rows), nil
}
