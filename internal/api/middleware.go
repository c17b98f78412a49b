package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/utils"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags the request and its log lines with an id, reusing
// the caller's X-Request-ID when present.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		rid := ctx.Request().Header.Get(echo.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Response().Header().Set(echo.HeaderXRequestID, rid)

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.With(req.Context(), "request_id", rid)))

		return next(ctx)
	}
}

func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		raw := bearerToken(ctx)
		if raw == "" {
			return constants.ErrUnauthorized
		}

		token, err := utils.ParseAuthToken(raw, svc.authSecret)
		if err != nil {
			return err
		}

		ctx.Set(constants.CtxKeyUserID, token.UserID)
		ctx.Set(constants.CtxKeyUserRole, token.Role)

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.With(req.Context(), "user_id", token.UserID, "role", token.Role)))

		return next(ctx)
	}
}

// bearerToken reads the Authorization header, falling back to the auth cookie.
func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get(constants.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if cookie, err := ctx.Cookie(constants.CookieKeyAuthToken); err == nil {
		return cookie.Value
	}

	return ""
}

// RequireRole lets through only callers authenticated with one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			role, _ := ctx.Get(constants.CtxKeyUserRole).(string)
			for _, r := range roles {
				if r == role {
					return next(ctx)
				}
			}
			return constants.ErrForbidden
		}
	}
}
