package game

import (
	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
)

// =============================================================================
// GAME FLOW - PHASE TRANSITIONS
// =============================================================================

// advancePhase runs when a countdown reaches zero.
func (e *Engine) advancePhase(room *internal.Room) {
	switch room.Phase {
	case internal.PhaseBuild:
		e.setPhase(room, internal.PhaseDiscussion)
		e.startCountdown(room, e.settings.DiscussionSeconds)

	case internal.PhaseDiscussion:
		e.setPhase(room, internal.PhaseVoting)
		if e.settings.VotingSeconds > 0 {
			e.startCountdown(room, e.settings.VotingSeconds)
		}

	case internal.PhaseVoting:
		e.resolveRound(room)

	default:
		log.Warn().Str("room", room.Id).Str("phase", string(room.Phase)).Msg("[advancePhase] countdown expired outside a round")
	}
}

func (e *Engine) setPhase(room *internal.Room, phase internal.GamePhase) {
	log.Info().
		Str("room", room.Id).
		Str("from", string(room.Phase)).
		Str("to", string(phase)).
		Msg("[setPhase] phase changed")

	room.Phase = phase
	e.broadcast(room, internal.NewMessage(internal.EventPhaseChanged, internal.PhaseChangedData{Phase: phase}))
}
