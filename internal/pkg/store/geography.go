package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
)

type GeographyStore interface {
	GetDoctorLocation(ctx context.Context, doctorID int64) (*domain.DoctorLocation, error)
	GetCityLocation(ctx context.Context, cityID int64) (*domain.Location, error)
	GetRegion(ctx context.Context, regionID int64) (*domain.Region, error)
}

func doctorLocationQuery(doctorID int64) sq.SelectBuilder {
	return builder().Select(
		"u.id AS doctor_id",
		"u.city_id AS city_id",
		"c.district_id AS district_id",
		"d.region_id AS region_id",
	).
		From(tableUsers + " u").
		LeftJoin(tableCities + " c ON c.id = u.city_id").
		LeftJoin(tableDistricts + " d ON d.id = c.district_id").
		Where(sq.Eq{"u.id": doctorID, "u.role": constants.RoleDoctor})
}

// GetDoctorLocation reads a doctor and the district and region of their home
// city in one statement. Returns constants.ErrDBNotFound for unknown doctors.
func (s *store) GetDoctorLocation(ctx context.Context, doctorID int64) (*domain.DoctorLocation, error) {
	var selected domain.DoctorLocation
	err := s.pool.Getx(ctx, &selected, doctorLocationQuery(doctorID))
	if err != nil {
		return nil, fmt.Errorf("get doctor location, doctor_id-%d: %w", doctorID, wrapErr(err))
	}

	return &selected, nil
}

func cityLocationQuery(cityID int64) sq.SelectBuilder {
	return builder().Select(
		"c.id AS city_id",
		"c.district_id AS district_id",
		"d.region_id AS region_id",
	).
		From(tableCities + " c").
		Join(tableDistricts + " d ON d.id = c.district_id").
		Where(sq.Eq{"c.id": cityID})
}

func (s *store) GetCityLocation(ctx context.Context, cityID int64) (*domain.Location, error) {
	var selected domain.Location
	err := s.pool.Getx(ctx, &selected, cityLocationQuery(cityID))
	if err != nil {
		return nil, fmt.Errorf("get city location, city_id-%d: %w", cityID, wrapErr(err))
	}

	return &selected, nil
}

func (s *store) GetRegion(ctx context.Context, regionID int64) (*domain.Region, error) {
	query := builder().Select("id", "name").
		From(tableRegions).
		Where(sq.Eq{"id": regionID})

	var selected domain.Region
	err := s.pool.Getx(ctx, &selected, query)
	if err != nil {
		return nil, fmt.Errorf("get region, region_id-%d: %w", regionID, wrapErr(err))
	}

	return &selected, nil
}
