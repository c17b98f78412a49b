package statistics

import (
	"context"
	"errors"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewStatisticsService(store store.Store) *Service {
	return &Service{store: store}
}

// ResolveAudience picks whose results a caller's aggregate covers. Admins
// always see the whole country; doctors choose one of their scopes and get
// their own results by default. A doctor unknown to the store gets an empty
// audience.
func (s *Service) ResolveAudience(ctx context.Context, identity domain.Identity, scope domain.ScopeName) (domain.Audience, error) {
	if identity.Role == constants.RoleAdmin {
		return domain.Country(), nil
	}

	switch scope {
	case "", domain.ScopeMe:
		return domain.Self(identity.UserID), nil
	case domain.ScopeCountry:
		return domain.Country(), nil
	}

	scopes, err := s.ResolveScopes(ctx, identity.UserID, domain.ScopeOverrides{})
	if errors.Is(err, constants.ErrDoctorNotFound) {
		logger.Warnf(ctx, "ResolveAudience: %s", err.Error())
		return domain.Nobody(), nil
	}
	if err != nil {
		return domain.Nobody(), err
	}

	return scopes.Get(scope), nil
}

func (s *Service) GetPositiveNegativeCounts(ctx context.Context, opts store.StatisticsOpts) (*domain.PositiveNegativeCounts, error) {
	if opts.Audience.IsEmpty() {
		return &domain.PositiveNegativeCounts{}, nil
	}

	return s.store.GetPositiveNegativeCounts(ctx, opts)
}

func (s *Service) GetAgeGroupCounts(ctx context.Context, opts store.StatisticsOpts) (domain.AgeGroupCounts, error) {
	if opts.Audience.IsEmpty() {
		return domain.NewAgeGroupCounts(), nil
	}

	return s.store.GetAgeGroupCounts(ctx, opts)
}

func (s *Service) GetPositiveByPathogensCounts(ctx context.Context, opts store.StatisticsOpts) ([]domain.PathogenCount, error) {
	if opts.Audience.IsEmpty() {
		return []domain.PathogenCount{}, nil
	}

	counts, err := s.store.GetPositiveByPathogensCounts(ctx, opts)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []domain.PathogenCount{}
	}

	logger.Debugf(ctx, "positive by pathogens for %s: %d pathogens", opts.Audience, len(counts))
	return counts, nil
}

func (s *Service) GetPositiveByPathogensAndAgeGroupsCounts(
	ctx context.Context,
	opts store.StatisticsOpts,
) ([]domain.PathogenAgeGroupCount, error) {
	if opts.Audience.IsEmpty() {
		return []domain.PathogenAgeGroupCount{}, nil
	}

	counts, err := s.store.GetPositiveByPathogensAndAgeGroupsCounts(ctx, opts)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []domain.PathogenAgeGroupCount{}
	}

	return counts, nil
}
