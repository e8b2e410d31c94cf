package game

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
)

// record hands the result to the sink on its own goroutine. The round is
// already over for the participants; failures are only logged.
func (e *Engine) record(result internal.MatchResult) {
	if e.sink == nil {
		log.Warn().Str("room", result.RoomId).Msg("[record] no result sink, dropping result")
		return
	}

	e.pending.Add(1)
	go func() {
		defer e.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), e.settings.SinkTimeout)
		defer cancel()

		if err := e.sink.Record(ctx, result); err != nil {
			log.Warn().
				Err(err).
				Str("room", result.RoomId).
				Str("match", result.Id).
				Msg("[record] failed to store match result")
			return
		}
		log.Debug().Str("room", result.RoomId).Str("match", result.Id).Msg("[record] match result stored")
	}()
}
