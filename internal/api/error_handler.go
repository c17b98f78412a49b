package api

import (
	"errors"
	"net/http"

	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
	"github.com/labstack/echo/v4"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	} else {
		for e := err; e != nil; e = errors.Unwrap(e) {
			if ce, ok := e.(*constants.CodedError); ok {
				code = ce.Code()
				break
			}
		}
	}

	ctx := c.Request().Context()
	if code >= http.StatusInternalServerError {
		logger.Errorf(ctx, "%s %s: %s", c.Request().Method, c.Path(), msg)
		msg = http.StatusText(code)
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message:   msg,
		Code:      code,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
