package controller

import (
	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/service/statistics"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	service *statistics.Service
}

func NewController(service *statistics.Service) *Controller {
	return &Controller{service: service}
}

func identityFrom(ctx echo.Context) domain.Identity {
	id, _ := ctx.Get(constants.CtxKeyUserID).(int64)
	role, _ := ctx.Get(constants.CtxKeyUserRole).(string)

	return domain.Identity{UserID: id, Role: role}
}
