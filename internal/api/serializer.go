package api

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/labstack/echo/v4"
)

// SonicSerializer is echo's JSON serializer backed by bytedance/sonic.
type SonicSerializer struct {
	api sonic.API
}

func NewSonicSerializer() *SonicSerializer {
	return &SonicSerializer{api: sonic.ConfigStd}
}

func (s *SonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.api.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (s *SonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := s.api.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return fmt.Errorf("%w: malformed json body: %s", constants.ErrInvalidInput, err.Error())
	}
	return nil
}
