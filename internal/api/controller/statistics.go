package controller

import (
	"net/http"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/domain/dto"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
	"github.com/labstack/echo/v4"
)

// statisticsOpts resolves the audience last: it is the only step that reads the store.
func (c *Controller) statisticsOpts(ctx echo.Context, req dto.StatisticsRequest, filter store.FilterOpts) (store.StatisticsOpts, error) {
	scope, err := req.ScopeName()
	if err != nil {
		return store.StatisticsOpts{}, err
	}

	audience, err := c.service.ResolveAudience(ctx.Request().Context(), identityFrom(ctx), scope)
	if err != nil {
		return store.StatisticsOpts{}, err
	}

	return store.StatisticsOpts{Audience: audience, Filter: filter}, nil
}

func (c *Controller) bindStatisticsOpts(ctx echo.Context) (store.StatisticsOpts, error) {
	var req dto.StatisticsRequest
	if err := ctx.Bind(&req); err != nil {
		return store.StatisticsOpts{}, err
	}

	filter, err := req.FilterOpts()
	if err != nil {
		return store.StatisticsOpts{}, err
	}

	return c.statisticsOpts(ctx, req, filter)
}

func (c *Controller) GetPositiveNegativeCounts(ctx echo.Context) error {
	opts, err := c.bindStatisticsOpts(ctx)
	if err != nil {
		return err
	}

	counts, err := c.service.GetPositiveNegativeCounts(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, counts)
}

func (c *Controller) GetAgeGroupCounts(ctx echo.Context) error {
	opts, err := c.bindStatisticsOpts(ctx)
	if err != nil {
		return err
	}

	counts, err := c.service.GetAgeGroupCounts(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, counts)
}

func (c *Controller) GetPositiveByPathogensCounts(ctx echo.Context) error {
	opts, err := c.bindStatisticsOpts(ctx)
	if err != nil {
		return err
	}

	counts, err := c.service.GetPositiveByPathogensCounts(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, counts)
}

func (c *Controller) GetPositiveByPathogensAndAgeGroupsCounts(ctx echo.Context) error {
	opts, err := c.bindStatisticsOpts(ctx)
	if err != nil {
		return err
	}

	counts, err := c.service.GetPositiveByPathogensAndAgeGroupsCounts(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, counts)
}

func (c *Controller) GetPositiveTimeSeries(ctx echo.Context) error {
	var req dto.TimeSeriesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	period, filter, err := req.Series()
	if err != nil {
		return err
	}

	opts, err := c.statisticsOpts(ctx, req.StatisticsRequest, filter)
	if err != nil {
		return err
	}

	series, err := c.service.GetPositiveTimeSeries(ctx.Request().Context(), period, opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, series)
}

func (c *Controller) GetPathogenDistributionByScope(ctx echo.Context) error {
	var req dto.DistributionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	filter, err := req.FilterOpts()
	if err != nil {
		return err
	}

	type response struct {
		Scopes []domain.ScopeDistribution `json:"scopes"`
	}

	scopes, err := c.service.GetPathogenDistributionByScope(
		ctx.Request().Context(),
		identityFrom(ctx).UserID,
		req.Overrides(),
		filter,
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, response{Scopes: scopes})
}
