package game

import "errors"

// Returned to the sender as gameError.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotEnoughParticipants = errors.New("not enough participants")
)

// Dropped with a debug log; clients gate these themselves.
var (
	ErrUnknownSender = errors.New("sender is not in a room")
	ErrWrongPhase    = errors.New("not allowed in the current phase")
	ErrNotPermitted  = errors.New("not permitted for this role")
	ErrAlreadyVoted  = errors.New("already voted this round")
	ErrInvalidTarget = errors.New("vote target is not in the room")
	ErrNoSuchBlock   = errors.New("no block at coordinate")
	ErrWorldFull     = errors.New("world is at its block limit")
)

func isUserFacing(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotEnoughParticipants)
}
