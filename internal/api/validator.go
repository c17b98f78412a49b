package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joytest-admin/joytest-data-sub000/internal/domain/dto"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/labstack/echo/v4"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("isodate", isoDate)

	return &Validator{validate: v}
}

func isoDate(fl validator.FieldLevel) bool {
	_, _, err := dto.ParseDate(fl.Field().String())
	return err == nil
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", constants.ErrInvalidInput, strings.Join(msgs, "; "))
}

// Binder binds query, path and body parameters and validates the result.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return fmt.Errorf("%w: %v", constants.ErrInvalidInput, he.Message)
		}
		return fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}

	if c.Echo().Validator == nil {
		return nil
	}

	return c.Validate(i)
}
