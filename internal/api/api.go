package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/joytest-admin/joytest-data-sub000/internal/api/controller"
	"github.com/joytest-admin/joytest-data-sub000/internal/config"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store/xpgx"
	"github.com/joytest-admin/joytest-data-sub000/internal/service/statistics"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type APIService struct {
	router            *echo.Echo
	authSecret        string
	statisticsService *statistics.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) Router() *echo.Echo {
	return svc.router
}

func NewAPIService(cfg *config.Config, store store.Store, pool *xpgx.Pool) (*APIService, error) {
	svc := &APIService{
		router:     echo.New(),
		authSecret: cfg.AuthSecret,
	}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(echoLogLevel(cfg.LogLevel))
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = NewSonicSerializer()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(RequestIDMiddleware)
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
	}))

	svc.statisticsService = statistics.NewStatisticsService(store)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.statisticsService)

	api.GET("/health", controller.Health(pool))

	stats := api.Group("/statistics", svc.AuthMiddleware)

	anyRole := RequireRole(constants.RoleDoctor, constants.RoleAdmin)
	stats.GET("/positive-negative", cntrl.GetPositiveNegativeCounts, anyRole)
	stats.GET("/age-groups", cntrl.GetAgeGroupCounts, anyRole)
	stats.GET("/pathogens", cntrl.GetPositiveByPathogensCounts, anyRole)
	stats.GET("/pathogens/age-groups", cntrl.GetPositiveByPathogensAndAgeGroupsCounts, anyRole)
	stats.GET("/timeseries", cntrl.GetPositiveTimeSeries, anyRole)

	stats.GET("/distribution", cntrl.GetPathogenDistributionByScope, RequireRole(constants.RoleDoctor))

	return svc, nil
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
