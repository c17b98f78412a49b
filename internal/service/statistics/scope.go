package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
)

// ResolveScopes determines the four reporting audiences of a doctor.
//
// A city override takes precedence over a region override, and either one
// replaces the doctor's own district and region. Overrides that reference an
// unknown city or region resolve to domain.Nobody. An unknown doctor is
// constants.ErrDoctorNotFound.
func (s *Service) ResolveScopes(ctx context.Context, doctorID int64, overrides domain.ScopeOverrides) (domain.ScopeSet, error) {
	doctor, err := s.store.GetDoctorLocation(ctx, doctorID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return domain.ScopeSet{}, fmt.Errorf("doctor_id-%d: %w", doctorID, constants.ErrDoctorNotFound)
		}
		logger.Errorf(ctx, "ResolveScopes: %s", err.Error())
		return domain.ScopeSet{}, fmt.Errorf("resolve scopes: %w", err)
	}

	scopes := domain.ScopeSet{
		Me:       domain.Self(doctorID),
		District: districtOf(doctor.Location),
		Region:   regionOf(doctor.Location),
		Country:  domain.Country(),
	}

	switch {
	case overrides.CityID != nil:
		city, err := s.lookupCity(ctx, *overrides.CityID)
		if err != nil {
			return domain.ScopeSet{}, err
		}
		scopes.District = districtOf(city)
		scopes.Region = regionOf(city)

	case overrides.RegionID != nil:
		region, err := s.lookupRegion(ctx, *overrides.RegionID)
		if err != nil {
			return domain.ScopeSet{}, err
		}
		scopes.District = region
		scopes.Region = region
	}

	logger.Debugf(ctx, "scopes of doctor %d: district=%s region=%s", doctorID, scopes.District, scopes.Region)
	return scopes, nil
}

// lookupCity returns the zero Location for unknown cities.
func (s *Service) lookupCity(ctx context.Context, cityID int64) (domain.Location, error) {
	city, err := s.store.GetCityLocation(ctx, cityID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			logger.Warnf(ctx, "city override %d does not exist", cityID)
			return domain.Location{}, nil
		}
		logger.Errorf(ctx, "lookupCity: %s", err.Error())
		return domain.Location{}, fmt.Errorf("lookup city override: %w", err)
	}

	return *city, nil
}

func (s *Service) lookupRegion(ctx context.Context, regionID int64) (domain.Audience, error) {
	region, err := s.store.GetRegion(ctx, regionID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			logger.Warnf(ctx, "region override %d does not exist", regionID)
			return domain.Nobody(), nil
		}
		logger.Errorf(ctx, "lookupRegion: %s", err.Error())
		return domain.Nobody(), fmt.Errorf("lookup region override: %w", err)
	}

	logger.Debugf(ctx, "region override %d resolved to %s", regionID, region.Name)
	return domain.InRegion(region.ID), nil
}

func districtOf(loc domain.Location) domain.Audience {
	if loc.DistrictID == nil {
		return domain.Nobody()
	}
	return domain.InDistrict(*loc.DistrictID)
}

func regionOf(loc domain.Location) domain.Audience {
	if loc.RegionID == nil {
		return domain.Nobody()
	}
	return domain.InRegion(*loc.RegionID)
}
