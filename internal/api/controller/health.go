package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store/xpgx"
	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Pool   *xpgx.PoolStats `json:"pool,omitempty"`
}

func Health(pool *xpgx.Pool) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx.Request().Context(), 5*time.Second)
		defer cancel()

		resp := healthResponse{Status: "healthy"}
		if stats, ok := pool.Stats(); ok {
			resp.Pool = &stats
		}

		if err := pool.Ping(pingCtx); err != nil {
			logger.Warnf(ctx.Request().Context(), "health check: %s", err.Error())
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			return ctx.JSON(http.StatusServiceUnavailable, resp)
		}

		return ctx.JSON(http.StatusOK, resp)
	}
}
