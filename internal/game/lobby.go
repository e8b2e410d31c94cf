package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
	"github.com/scythe504/architect-backend/internal/utils"
)

// =============================================================================
// GAME FLOW - LOBBY & ROUND START
// =============================================================================

// startGame moves a Lobby room into Build: one uniformly drawn seeker, one
// uniformly drawn objective, and a Build countdown.
func (e *Engine) startGame(connID string) error {
	room, _, err := e.resolve(connID)
	if err != nil {
		return err
	}
	if room.Phase != internal.PhaseLobby {
		return ErrWrongPhase
	}
	if !room.CanStartGame(e.settings.MinParticipants) {
		log.Info().
			Str("room", room.Id).
			Int("participants", room.Count()).
			Int("min", e.settings.MinParticipants).
			Msg("[startGame] not enough participants")
		return fmt.Errorf("%w: need at least %d to start", ErrNotEnoughParticipants, e.settings.MinParticipants)
	}

	seeker := room.GetParticipantByIndex(e.rng.IntN(room.Count()))
	room.AssignRoles(seeker.Id)
	room.Objective = utils.PickObjective(e.rng.IntN, e.settings.Objectives)
	room.ResetVotes()
	room.Phase = internal.PhaseBuild

	log.Info().
		Str("room", room.Id).
		Str("seeker", seeker.Id).
		Int("participants", room.Count()).
		Msg("[startGame] round started")

	for _, id := range room.Order {
		e.sendGameStarted(room, room.Participants[id])
	}
	e.startCountdown(room, e.settings.BuildSeconds)
	return nil
}

// sendGameStarted tells one participant their role. Only builders learn the
// objective.
func (e *Engine) sendGameStarted(room *internal.Room, p *internal.Participant) {
	data := internal.GameStartedData{
		Phase: room.Phase,
		Role:  p.Role,
	}
	if p.Role == internal.RoleBuilder {
		objective := room.Objective
		data.Objective = &objective
	}
	e.send(p.Id, internal.NewMessage(internal.EventGameStarted, data))
}
