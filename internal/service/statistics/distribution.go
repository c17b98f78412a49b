package statistics

import (
	"context"
	"fmt"
	"sort"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// hundredths of a percent
const percentUnits = 100 * 100

// GetPathogenDistributionByScope returns, for each of the doctor's scopes, the
// positive results per pathogen and each pathogen's share of the scope. Only
// the date range of filter applies; scopes replace every other dimension.
func (s *Service) GetPathogenDistributionByScope(
	ctx context.Context,
	doctorID int64,
	overrides domain.ScopeOverrides,
	filter store.FilterOpts,
) ([]domain.ScopeDistribution, error) {
	scopes, err := s.ResolveScopes(ctx, doctorID, overrides)
	if err != nil {
		return nil, err
	}

	dates := filter.DatesOnly()
	result := make([]domain.ScopeDistribution, len(domain.ScopeNames))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range domain.ScopeNames {
		i, name := i, name
		eg.Go(func() error {
			counts, err := s.GetPositiveByPathogensCounts(egCtx, store.StatisticsOpts{
				Audience: scopes.Get(name),
				Filter:   dates,
			})
			if err != nil {
				return fmt.Errorf("scope %s: %w", name, err)
			}

			result[i] = distribute(name, counts)
			return nil
		})
	}

	if err = eg.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// distribute attaches percentages with two decimals to counts. Shares are
// apportioned by the largest remainder method, so the percentages of a
// non-empty scope add up to exactly 100.
func distribute(scope domain.ScopeName, counts []domain.PathogenCount) domain.ScopeDistribution {
	dist := domain.ScopeDistribution{
		Scope:     scope,
		Pathogens: make([]domain.PathogenShare, len(counts)),
	}
	for i, c := range counts {
		dist.Total += c.Count
		dist.Pathogens[i] = domain.PathogenShare{PathogenCount: c, Percentage: domain.Percent{Decimal: decimal.Zero}}
	}
	if dist.Total == 0 {
		return dist
	}

	units := make([]int64, len(counts))
	remainders := make([]int64, len(counts))
	var assigned int64
	for i, c := range counts {
		units[i] = c.Count * percentUnits / dist.Total
		remainders[i] = c.Count * percentUnits % dist.Total
		assigned += units[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for _, i := range order[:percentUnits-assigned] {
		units[i]++
	}

	for i := range dist.Pathogens {
		dist.Pathogens[i].Percentage = domain.Percent{Decimal: decimal.New(units[i], -2)}
	}

	return dist
}
