package game

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
)

// =============================================================================
// VOTING & RESULTS
// =============================================================================

func (e *Engine) vote(connID, targetID string) error {
	room, _, err := e.resolve(connID)
	if err != nil {
		return err
	}
	if room.Phase != internal.PhaseVoting {
		return ErrWrongPhase
	}
	if room.HasVoted(connID) {
		return ErrAlreadyVoted
	}
	if room.GetParticipant(targetID) == nil {
		return ErrInvalidTarget
	}

	room.CastVote(connID, targetID)
	e.broadcast(room, internal.NewMessage(internal.EventVoteCast, internal.VoteCastData{
		VoterId:  connID,
		TargetId: targetID,
	}))
	e.checkVotingComplete(room)
	return nil
}

// retractBallots drops the leaver's own ballot and every ballot naming them.
func (e *Engine) retractBallots(room *internal.Room, leaverID string) {
	retracted := room.ReopenBallotsFor(leaverID)
	if room.DropBallot(leaverID) {
		retracted = append(retracted, leaverID)
	}
	for _, voter := range retracted {
		e.broadcast(room, internal.NewMessage(internal.EventVoteRetracted, internal.VoteRetractedData{VoterId: voter}))
	}
}

func (e *Engine) checkVotingComplete(room *internal.Room) {
	if room.Phase != internal.PhaseVoting || room.IsEmpty() {
		return
	}
	if room.BallotCount() >= room.Count() {
		e.resolveRound(room)
	}
}

// resolveRound tallies the ledger and ends the round. It only acts while the
// room is in Voting, so a round resolves exactly once.
func (e *Engine) resolveRound(room *internal.Room) {
	if room.Phase != internal.PhaseVoting {
		return
	}
	e.cancelCountdown(room)

	seeker := room.Seeker()
	if seeker == nil {
		log.Error().Str("room", room.Id).Msg("[resolveRound] no seeker in a running round")
		return
	}
	mostVoted, count := room.Tally()
	seekerWon := mostVoted != seeker.Id

	log.Info().
		Str("room", room.Id).
		Str("mostVoted", mostVoted).
		Int("count", count).
		Bool("seekerWon", seekerWon).
		Msg("[resolveRound] votes tallied")

	e.finishRound(room, seeker, seekerWon, mostVoted)
}

// forfeit ends the round when the seeker leaves before it resolves.
func (e *Engine) forfeit(room *internal.Room, seeker *internal.Participant) {
	e.cancelCountdown(room)
	log.Info().Str("room", room.Id).Str("seeker", seeker.Id).Msg("[forfeit] seeker left mid-round")
	e.finishRound(room, seeker, false, "")
}

func (e *Engine) finishRound(room *internal.Room, seeker *internal.Participant, seekerWon bool, mostVoted string) {
	ledger := room.Ledger()
	e.setPhase(room, internal.PhaseResult)
	e.broadcast(room, internal.NewMessage(internal.EventGameEnded, internal.GameEndedData{
		Votes:       ledger,
		SeekerId:    seeker.Id,
		SeekerWon:   seekerWon,
		MostVotedId: mostVoted,
	}))

	e.record(internal.MatchResult{
		Id:           uuid.NewString(),
		RoomId:       room.Id,
		SeekerId:     seeker.Id,
		SeekerName:   seeker.Name,
		SeekerWon:    seekerWon,
		Participants: room.Count(),
		Ballots:      len(ledger),
		Timestamp:    e.now().UTC(),
	})
}
