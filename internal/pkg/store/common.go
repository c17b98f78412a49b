package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store/xpgx"
)

const (
	tableTestResults         = "test_results"
	tableTestResultPathogens = "test_result_pathogens"
	tablePatients            = "patients"
	tableTestTypes           = "test_types"
	tablePathogens           = "pathogens"
	tableUsers               = "users"
	tableCities              = "cities"
	tableDistricts           = "districts"
	tableRegions             = "regions"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	if xpgx.NotFound(err) {
		return constants.ErrDBNotFound
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel statement builder using $n placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
