package statistics

import (
	"context"
	"errors"
	"testing"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Brno-město (city 1) lies in district 10 of region 100, Praha (city 2) in
// district 20 of region 200. Doctor 7 lives in Brno, doctor 8 has no home city.
func geography() *fakeStore {
	return &fakeStore{
		doctors: map[int64]domain.Location{
			7: {CityID: id(1), DistrictID: id(10), RegionID: id(100)},
			8: {},
		},
		cities: map[int64]domain.Location{
			1: {CityID: id(1), DistrictID: id(10), RegionID: id(100)},
			2: {CityID: id(2), DistrictID: id(20), RegionID: id(200)},
		},
		regions: map[int64]string{100: "Jihomoravský kraj", 200: "Praha"},
	}
}

func TestResolveScopes(t *testing.T) {
	tests := []struct {
		name      string
		doctorID  int64
		overrides domain.ScopeOverrides
		want      domain.ScopeSet
	}{
		{
			name:     "own geography",
			doctorID: 7,
			want: domain.ScopeSet{
				Me:       domain.Self(7),
				District: domain.InDistrict(10),
				Region:   domain.InRegion(100),
				Country:  domain.Country(),
			},
		},
		{
			name:      "city override",
			doctorID:  7,
			overrides: domain.ScopeOverrides{CityID: id(2)},
			want: domain.ScopeSet{
				Me:       domain.Self(7),
				District: domain.InDistrict(20),
				Region:   domain.InRegion(200),
				Country:  domain.Country(),
			},
		},
		{
			name:      "city override wins over region override",
			doctorID:  7,
			overrides: domain.ScopeOverrides{CityID: id(2), RegionID: id(100)},
			want: domain.ScopeSet{
				Me:       domain.Self(7),
				District: domain.InDistrict(20),
				Region:   domain.InRegion(200),
				Country:  domain.Country(),
			},
		},
		{
			name:      "region override widens district to the region",
			doctorID:  7,
			overrides: domain.ScopeOverrides{RegionID: id(200)},
			want: domain.ScopeSet{
				Me:       domain.Self(7),
				District: domain.InRegion(200),
				Region:   domain.InRegion(200),
				Country:  domain.Country(),
			},
		},
		{
			name:      "unknown city override",
			doctorID:  7,
			overrides: domain.ScopeOverrides{CityID: id(99)},
			want: domain.ScopeSet{
				Me:       domain.Self(7),
				District: domain.Nobody(),
				Region:   domain.Nobody(),
				Country:  domain.Country(),
			},
		},
		{
			name:      "unknown region override",
			doctorID:  7,
			overrides: domain.ScopeOverrides{RegionID: id(99)},
			want: domain.ScopeSet{
				Me:       domain.Self(7),
				District: domain.Nobody(),
				Region:   domain.Nobody(),
				Country:  domain.Country(),
			},
		},
		{
			name:     "doctor without home city",
			doctorID: 8,
			want: domain.ScopeSet{
				Me:       domain.Self(8),
				District: domain.Nobody(),
				Region:   domain.Nobody(),
				Country:  domain.Country(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStatisticsService(geography())

			got, err := s.ResolveScopes(context.Background(), tt.doctorID, tt.overrides)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveScopes_HomeCityOverrideIsIdentity(t *testing.T) {
	s := NewStatisticsService(geography())

	own, err := s.ResolveScopes(context.Background(), 7, domain.ScopeOverrides{})
	require.NoError(t, err)
	overridden, err := s.ResolveScopes(context.Background(), 7, domain.ScopeOverrides{CityID: id(1)})
	require.NoError(t, err)

	assert.Equal(t, own, overridden)
}

func TestResolveScopes_UnknownDoctor(t *testing.T) {
	s := NewStatisticsService(geography())

	_, err := s.ResolveScopes(context.Background(), 404, domain.ScopeOverrides{})
	assert.ErrorIs(t, err, constants.ErrDoctorNotFound)
}

func TestResolveScopes_StoreFailure(t *testing.T) {
	fs := geography()
	fs.geoErr = errors.New("connection reset")
	s := NewStatisticsService(fs)

	_, err := s.ResolveScopes(context.Background(), 7, domain.ScopeOverrides{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, constants.ErrDoctorNotFound)
	assert.ErrorIs(t, err, fs.geoErr)
}

func TestResolveAudience(t *testing.T) {
	tests := []struct {
		name     string
		identity domain.Identity
		scope    domain.ScopeName
		want     domain.Audience
	}{
		{"admin ignores scope", domain.Identity{UserID: 1, Role: constants.RoleAdmin}, domain.ScopeMe, domain.Country()},
		{"doctor default", domain.Identity{UserID: 7, Role: constants.RoleDoctor}, "", domain.Self(7)},
		{"doctor district", domain.Identity{UserID: 7, Role: constants.RoleDoctor}, domain.ScopeDistrict, domain.InDistrict(10)},
		{"doctor region", domain.Identity{UserID: 7, Role: constants.RoleDoctor}, domain.ScopeRegion, domain.InRegion(100)},
		{"doctor country", domain.Identity{UserID: 7, Role: constants.RoleDoctor}, domain.ScopeCountry, domain.Country()},
		{"homeless doctor district", domain.Identity{UserID: 8, Role: constants.RoleDoctor}, domain.ScopeDistrict, domain.Nobody()},
		{"unknown doctor region", domain.Identity{UserID: 404, Role: constants.RoleDoctor}, domain.ScopeRegion, domain.Nobody()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStatisticsService(geography())

			got, err := s.ResolveAudience(context.Background(), tt.identity, tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
