package game

import (
	"context"
	"time"

	"github.com/scythe504/architect-backend/internal"
)

// Conn is the engine's view of one live client channel.
type Conn interface {
	ID() string
	// Send queues data without blocking; false means the client is not
	// keeping up and should be dropped.
	Send(data []byte) bool
	Close()
}

// ResultSink receives finished rounds. database.Service satisfies it.
type ResultSink interface {
	Record(ctx context.Context, result internal.MatchResult) error
}

// TickerFactory creates the one-second tickers that drive countdowns.
type TickerFactory interface {
	Create(interval time.Duration) (<-chan time.Time, func())
}

type tickerGen struct{}

func (tickerGen) Create(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}
