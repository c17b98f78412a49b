package store

import (
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store/xpgx"
)

// Store is the read side of the test-result database.
type Store interface {
	GeographyStore
	StatisticsStore
}

type store struct {
	pool *xpgx.Pool
}

func NewStore(pool *xpgx.Pool) Store {
	return &store{pool}
}
