package game

import (
	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
)

// =============================================================================
// WORLD EDITS
// =============================================================================

// buildRoom resolves the sender and checks the room is in Build.
func (e *Engine) buildRoom(connID string) (*internal.Room, *internal.Participant, error) {
	room, p, err := e.resolve(connID)
	if err != nil {
		return nil, nil, err
	}
	if room.Phase != internal.PhaseBuild {
		return nil, nil, ErrWrongPhase
	}
	return room, p, nil
}

func (e *Engine) placeBlock(connID string, block internal.Block) error {
	room, _, err := e.buildRoom(connID)
	if err != nil {
		return err
	}
	if !room.World.Place(block) {
		log.Debug().Str("room", room.Id).Int("blocks", room.World.Len()).Msg("[placeBlock] world full")
		return ErrWorldFull
	}
	e.broadcast(room, internal.NewMessage(internal.EventBlockPlaced, block))
	return nil
}

func (e *Engine) removeBlock(connID string, coord internal.Coord) error {
	room, _, err := e.buildRoom(connID)
	if err != nil {
		return err
	}
	if _, ok := room.World.Remove(coord); !ok {
		return ErrNoSuchBlock
	}
	e.broadcast(room, internal.NewMessage(internal.EventBlockRemoved, coord))
	return nil
}

func (e *Engine) updateBlock(connID string, block internal.Block) error {
	room, _, err := e.buildRoom(connID)
	if err != nil {
		return err
	}
	if !room.World.Update(block) {
		return ErrNoSuchBlock
	}
	e.broadcast(room, internal.NewMessage(internal.EventBlockUpdated, block))
	return nil
}

// sabotage removes every non-floor block within the sabotage radius of origin.
// Only the seeker may do this, and only during Build.
func (e *Engine) sabotage(connID string, origin internal.Vec3) error {
	room, p, err := e.buildRoom(connID)
	if err != nil {
		return err
	}
	if p.Role != internal.RoleSeeker {
		return ErrNotPermitted
	}

	hits := room.World.Within(origin, e.settings.SabotageRadius, e.settings.FloorY)
	for _, coord := range hits {
		room.World.Remove(coord)
		e.broadcast(room, internal.NewMessage(internal.EventBlockRemoved, coord))
	}

	log.Info().
		Str("room", room.Id).
		Str("conn", connID).
		Int("removed", len(hits)).
		Msg("[sabotage] blocks removed")
	return nil
}
