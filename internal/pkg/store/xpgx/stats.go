package xpgx

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

type statter interface {
	Stat() *pgxpool.Stat
}

// Stats reports connection statistics when the underlying DB keeps them, as
// *pgxpool.Pool does.
func (p *Pool) Stats() (PoolStats, bool) {
	sp, ok := p.db.(statter)
	if !ok {
		return PoolStats{}, false
	}

	stat := sp.Stat()
	return PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}, true
}
