package game

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
	"github.com/scythe504/architect-backend/internal/utils"
)

// =============================================================================
// ROOM MEMBERSHIP
// =============================================================================

// join attaches connID to the room, creating it on first use. A connection
// already in a room leaves it first.
func (e *Engine) join(connID string, in internal.JoinRoom) error {
	roomID := utils.SanitizeRoomID(in.RoomID)
	name := utils.SanitizeName(in.Name)
	if roomID == "" || name == "" {
		return fmt.Errorf("%w: room id and name are required", ErrInvalidInput)
	}

	if _, inRoom := e.index.Resolve(connID); inRoom {
		e.leave(connID)
	}

	room, exists := e.rooms[roomID]
	if !exists {
		room = internal.NewRoom(roomID, e.settings.MaxBlocks, e.now())
		e.rooms[roomID] = room
		log.Info().Str("room", roomID).Msg("[join] room created")
	}

	p := internal.NewParticipant(connID, name, e.now())
	lateJoin := room.Phase.InRound()
	if lateJoin {
		p.Role = internal.RoleBuilder
	}
	room.AddParticipant(p)
	e.index.Bind(connID, roomID)

	log.Info().
		Str("room", roomID).
		Str("conn", connID).
		Str("name", name).
		Str("phase", string(room.Phase)).
		Int("participants", room.Count()).
		Msg("[join] participant joined")

	e.send(connID, internal.NewMessage(internal.EventRoomState, room.Snapshot(connID)))
	e.broadcastExcept(room, connID, internal.NewMessage(internal.EventParticipantJoined, internal.ParticipantJoinedData{
		Participant:      p.ToPublic(),
		ParticipantCount: room.Count(),
	}))

	if lateJoin {
		e.sendGameStarted(room, p)
	}
	return nil
}

// leave removes connID from its room. The room is destroyed when it empties.
func (e *Engine) leave(connID string) error {
	room, p, err := e.resolve(connID)
	if err != nil {
		return err
	}
	e.index.Unbind(connID)
	room.RemoveParticipant(connID)

	log.Info().
		Str("room", room.Id).
		Str("conn", connID).
		Int("participants", room.Count()).
		Msg("[leave] participant left")

	if room.IsEmpty() {
		e.destroyRoom(room)
		return nil
	}

	e.broadcast(room, internal.NewMessage(internal.EventParticipantLeft, internal.ParticipantLeftData{
		ParticipantId:    p.Id,
		Name:             p.Name,
		ParticipantCount: room.Count(),
	}))

	if !room.Phase.InRound() {
		return nil
	}
	if p.Role == internal.RoleSeeker {
		e.forfeit(room, p)
		return nil
	}
	if room.Phase == internal.PhaseVoting {
		e.retractBallots(room, p.Id)
		e.checkVotingComplete(room)
	}
	return nil
}

func (e *Engine) destroyRoom(room *internal.Room) {
	e.cancelCountdown(room)
	delete(e.rooms, room.Id)
	log.Info().Str("room", room.Id).Str("phase", string(room.Phase)).Msg("[destroyRoom] room destroyed")
}

func (e *Engine) toggleReady(connID string) error {
	room, p, err := e.resolve(connID)
	if err != nil {
		return err
	}
	if room.Phase != internal.PhaseLobby {
		return ErrWrongPhase
	}
	ready := p.ToggleReady()
	e.broadcast(room, internal.NewMessage(internal.EventReadyChanged, internal.ReadyChangedData{
		ParticipantId: p.Id,
		IsReady:       ready,
	}))
	return nil
}

func (e *Engine) move(connID string, in internal.Move) error {
	room, p, err := e.resolve(connID)
	if err != nil {
		return err
	}
	p.MoveTo(in.Position, in.Rotation)
	e.broadcastExcept(room, connID, internal.NewMessage(internal.EventMoved, internal.MovedData{
		ParticipantId: p.Id,
		Position:      in.Position,
		Rotation:      in.Rotation,
	}))
	return nil
}

func (e *Engine) chat(connID, raw string) error {
	room, p, err := e.resolve(connID)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(strings.TrimSpace(raw)) > utils.MaxChatLength {
		return fmt.Errorf("%w: message is longer than %d characters", ErrInvalidInput, utils.MaxChatLength)
	}
	text := utils.SanitizeChat(raw)
	if text == "" {
		return fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	e.broadcast(room, internal.NewMessage(internal.EventChatMessage, internal.ChatMessageData{
		SenderId: p.Id,
		Sender:   p.Name,
		Text:     text,
	}))
	return nil
}
