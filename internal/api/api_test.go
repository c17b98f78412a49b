package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joytest-admin/joytest-data-sub000/internal/config"
	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store/xpgx"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

type stubStore struct {
	last    store.StatisticsOpts
	lookups int
}

func (s *stubStore) GetDoctorLocation(_ context.Context, doctorID int64) (*domain.DoctorLocation, error) {
	s.lookups++
	if doctorID != 7 {
		return nil, constants.ErrDBNotFound
	}
	district, region := int64(10), int64(100)
	return &domain.DoctorLocation{DoctorID: 7, Location: domain.Location{DistrictID: &district, RegionID: &region}}, nil
}

func (s *stubStore) GetCityLocation(context.Context, int64) (*domain.Location, error) {
	return nil, constants.ErrDBNotFound
}

func (s *stubStore) GetRegion(context.Context, int64) (*domain.Region, error) {
	return nil, constants.ErrDBNotFound
}

func (s *stubStore) GetPositiveNegativeCounts(_ context.Context, opts store.StatisticsOpts) (*domain.PositiveNegativeCounts, error) {
	s.last = opts
	return &domain.PositiveNegativeCounts{Positive: 2, Negative: 5}, nil
}

func (s *stubStore) GetAgeGroupCounts(_ context.Context, opts store.StatisticsOpts) (domain.AgeGroupCounts, error) {
	s.last = opts
	return domain.NewAgeGroupCounts(), nil
}

func (s *stubStore) GetPositiveByPathogensCounts(_ context.Context, opts store.StatisticsOpts) ([]domain.PathogenCount, error) {
	return []domain.PathogenCount{{PathogenID: 1, PathogenName: "Influenza A", Count: 2}}, nil
}

func (s *stubStore) GetPositiveByPathogensAndAgeGroupsCounts(context.Context, store.StatisticsOpts) ([]domain.PathogenAgeGroupCount, error) {
	return nil, nil
}

func (s *stubStore) ListPositiveBucketCounts(_ context.Context, _ domain.Period, opts store.StatisticsOpts) ([]domain.BucketPathogenCount, error) {
	s.last = opts
	return nil, nil
}

type stubDB struct {
	pingErr error
}

func (d *stubDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *stubDB) Ping(context.Context) error { return d.pingErr }
func (d *stubDB) Close()                     {}

func newTestAPI(t *testing.T, db *stubDB) (*APIService, *stubStore) {
	t.Helper()

	st := &stubStore{}
	svc, err := NewAPIService(&config.Config{
		AuthSecret:  testSecret,
		LogLevel:    "error",
		CORSOrigins: []string{"http://localhost:3000"},
	}, st, xpgx.New(db))
	require.NoError(t, err)

	return svc, st
}

func token(t *testing.T, userID int64, role string) string {
	t.Helper()

	raw, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: userID, Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return raw
}

func do(svc *APIService, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAPI_RequiresToken(t *testing.T) {
	svc, _ := newTestAPI(t, &stubDB{})

	rec := do(svc, "/api/v1/statistics/positive-negative", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, decodeError(t, rec).Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(svc, "/api/v1/statistics/positive-negative", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_AdminSeesCountry(t *testing.T) {
	svc, st := newTestAPI(t, &stubDB{})

	rec := do(svc, "/api/v1/statistics/positive-negative?scope=me&search=flu", token(t, 1, constants.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	var counts domain.PositiveNegativeCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, domain.PositiveNegativeCounts{Positive: 2, Negative: 5}, counts)

	assert.Equal(t, domain.Country(), st.last.Audience)
	require.NotNil(t, st.last.Filter.Search)
	assert.Equal(t, "flu", *st.last.Filter.Search)
}

func TestAPI_DoctorScope(t *testing.T) {
	svc, st := newTestAPI(t, &stubDB{})

	rec := do(svc, "/api/v1/statistics/age-groups", token(t, 7, constants.RoleDoctor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Self(7), st.last.Audience)

	rec = do(svc, "/api/v1/statistics/age-groups?scope=district", token(t, 7, constants.RoleDoctor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.InDistrict(10), st.last.Audience)

	var counts map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Len(t, counts, len(domain.AgeGroups))
}

func TestAPI_InvalidInput(t *testing.T) {
	svc, _ := newTestAPI(t, &stubDB{})
	doctor := token(t, 7, constants.RoleDoctor)

	for _, target := range []string{
		"/api/v1/statistics/positive-negative?startDate=yesterday",
		"/api/v1/statistics/positive-negative?startDate=2024-02-01&endDate=2024-01-01",
		"/api/v1/statistics/positive-negative?scope=planet",
		"/api/v1/statistics/positive-negative?regionId=abc",
		"/api/v1/statistics/timeseries?startDate=2024-01-01&endDate=2024-02-01",
		"/api/v1/statistics/timeseries?period=year&startDate=2024-01-01&endDate=2024-02-01",
		"/api/v1/statistics/timeseries?period=day",
	} {
		rec := do(svc, target, doctor)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestAPI_TimeSeriesRangeRejectedBeforeLookup(t *testing.T) {
	doctor := token(t, 7, constants.RoleDoctor)

	for _, target := range []string{
		"/api/v1/statistics/timeseries?period=day&scope=district",
		"/api/v1/statistics/timeseries?period=day&scope=district&startDate=2024-01-01",
		"/api/v1/statistics/timeseries?period=week&scope=region&startDate=2024-02-01&endDate=2024-01-01",
		"/api/v1/statistics/timeseries?period=day&scope=district&startDate=2000-01-01&endDate=2024-01-01",
	} {
		svc, st := newTestAPI(t, &stubDB{})

		rec := do(svc, target, doctor)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Zero(t, st.lookups, target)
	}

	svc, st := newTestAPI(t, &stubDB{})
	rec := do(svc, "/api/v1/statistics/timeseries?period=day&scope=district&startDate=2024-01-01&endDate=2024-01-07", doctor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, st.lookups)
	assert.Equal(t, domain.InDistrict(10), st.last.Audience)
}

func TestAPI_TimeSeries(t *testing.T) {
	svc, st := newTestAPI(t, &stubDB{})

	rec := do(svc, "/api/v1/statistics/timeseries?period=month&startDate=2024-01-01&endDate=2024-03-31", token(t, 1, constants.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	var series domain.TimeSeries
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	assert.Equal(t, domain.PeriodMonth, series.Period)
	assert.Len(t, series.Total, 3)
	assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 999999000, time.UTC), *st.last.Filter.EndDate)
}

func TestAPI_DistributionIsForDoctors(t *testing.T) {
	svc, _ := newTestAPI(t, &stubDB{})

	rec := do(svc, "/api/v1/statistics/distribution", token(t, 1, constants.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(svc, "/api/v1/statistics/distribution", token(t, 404, constants.RoleDoctor))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(svc, "/api/v1/statistics/distribution", token(t, 7, constants.RoleDoctor))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Scopes []struct {
			Scope     string `json:"scope"`
			Total     int64  `json:"total"`
			Pathogens []struct {
				Percentage json.Number `json:"percentage"`
			} `json:"pathogens"`
		} `json:"scopes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Scopes, 4)
	assert.Equal(t, "me", resp.Scopes[0].Scope)
	assert.Equal(t, int64(2), resp.Scopes[0].Total)
	require.Len(t, resp.Scopes[0].Pathogens, 1)
	assert.Equal(t, json.Number("100.00"), resp.Scopes[0].Pathogens[0].Percentage)
}

func TestAPI_Health(t *testing.T) {
	svc, _ := newTestAPI(t, &stubDB{})
	rec := do(svc, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	svc, _ = newTestAPI(t, &stubDB{pingErr: errors.New("connection refused")})
	rec = do(svc, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPI_UnknownRoute(t *testing.T) {
	svc, _ := newTestAPI(t, &stubDB{})

	rec := do(svc, "/api/v1/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
