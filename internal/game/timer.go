package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// startCountdown replaces the room's countdown with a new one of seconds
// length. The starting value is broadcast immediately; each following second
// arrives on the inbox as a tickEvent.
func (e *Engine) startCountdown(room *internal.Room, seconds int) {
	e.cancelCountdown(room)

	e.timerSeq++
	ctx, cancel := context.WithCancel(e.ctx)
	room.Timer = &internal.GameTimer{
		Seq:       e.timerSeq,
		Duration:  seconds,
		Remaining: seconds,
		Cancel:    cancel,
	}

	log.Debug().
		Str("room", room.Id).
		Str("phase", string(room.Phase)).
		Int("seconds", seconds).
		Uint64("seq", e.timerSeq).
		Msg("[startCountdown] countdown started")

	e.broadcastTimer(room)
	go e.runCountdown(ctx, room.Id, e.timerSeq)
}

func (e *Engine) runCountdown(ctx context.Context, roomID string, seq uint64) {
	ticks, stop := e.tickers.Create(time.Second)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			select {
			case e.inbox <- tickEvent{roomID: roomID, seq: seq}:
			case <-ctx.Done():
				return
			case <-e.done:
				return
			}
		}
	}
}

// handleTick advances one countdown second. Ticks for a room that no longer
// exists, or from a countdown that has been replaced, do nothing.
func (e *Engine) handleTick(roomID string, seq uint64) {
	room, ok := e.rooms[roomID]
	if !ok {
		log.Debug().Str("room", roomID).Uint64("seq", seq).Msg("[handleTick] room gone, dropping tick")
		return
	}
	if room.Timer == nil || room.Timer.Seq != seq {
		log.Debug().Str("room", roomID).Uint64("seq", seq).Msg("[handleTick] stale tick")
		return
	}

	room.Timer.Remaining--
	e.broadcastTimer(room)

	if room.Timer.Remaining <= 0 {
		e.cancelCountdown(room)
		e.advancePhase(room)
	}
}

// cancelCountdown stops the room's countdown goroutine. Safe to call twice.
func (e *Engine) cancelCountdown(room *internal.Room) {
	if room.Timer == nil {
		return
	}
	if room.Timer.Cancel != nil {
		room.Timer.Cancel()
	}
	log.Debug().Str("room", room.Id).Uint64("seq", room.Timer.Seq).Msg("[cancelCountdown] countdown cancelled")
	room.Timer = nil
}

func (e *Engine) broadcastTimer(room *internal.Room) {
	e.broadcast(room, internal.NewMessage(internal.EventTimerUpdate, internal.TimerUpdateData{
		SecondsRemaining: room.Countdown(),
		Duration:         room.Timer.Duration,
		Phase:            room.Phase,
	}))
}
