package internal

import "time"

func NewRoom(id string, maxBlocks int, now time.Time) *Room {
	return &Room{
		Id:           id,
		Participants: make(map[string]*Participant),
		Order:        []string{},
		World:        NewWorld(maxBlocks),
		Phase:        PhaseLobby,
		Votes:        make(map[string]string),
		VoteOrder:    []string{},
		CreatedAt:    now,
	}
}

// Methods (Room Struct)
func (r *Room) AddParticipant(p *Participant) {
	if _, exists := r.Participants[p.Id]; !exists {
		r.Order = append(r.Order, p.Id)
	}
	r.Participants[p.Id] = p
}

func (r *Room) RemoveParticipant(id string) (*Participant, bool) {
	p, ok := r.Participants[id]
	if !ok {
		return nil, false
	}
	delete(r.Participants, id)
	for i, pid := range r.Order {
		if pid == id {
			r.Order = append(r.Order[:i], r.Order[i+1:]...)
			break
		}
	}
	return p, true
}

func (r *Room) GetParticipant(id string) *Participant {
	return r.Participants[id]
}

func (r *Room) GetParticipantByIndex(index int) *Participant {
	if index < 0 || index >= len(r.Order) {
		return nil
	}
	return r.Participants[r.Order[index]]
}

func (r *Room) Count() int {
	return len(r.Participants)
}

func (r *Room) IsEmpty() bool {
	return len(r.Participants) == 0
}

func (r *Room) CanStartGame(minimum int) bool {
	return r.Phase == PhaseLobby && r.Count() >= minimum
}

// Seeker returns the participant currently holding the seeker role, if any.
func (r *Room) Seeker() *Participant {
	for _, id := range r.Order {
		if p := r.Participants[id]; p.Role == RoleSeeker {
			return p
		}
	}
	return nil
}

// AssignRoles makes seekerID the only seeker; everyone else builds.
func (r *Room) AssignRoles(seekerID string) {
	for _, p := range r.Participants {
		if p.Id == seekerID {
			p.Role = RoleSeeker
		} else {
			p.Role = RoleBuilder
		}
	}
}

// Countdown is the number of seconds left on the running timer, 0 when idle.
func (r *Room) Countdown() int {
	if r.Timer == nil {
		return 0
	}
	return r.Timer.Remaining
}

// ===== VOTE LEDGER =====

func (r *Room) HasVoted(voterID string) bool {
	_, ok := r.Votes[voterID]
	return ok
}

func (r *Room) CastVote(voterID, targetID string) {
	r.Votes[voterID] = targetID
	r.VoteOrder = append(r.VoteOrder, voterID)
}

func (r *Room) DropBallot(voterID string) bool {
	if !r.HasVoted(voterID) {
		return false
	}
	delete(r.Votes, voterID)
	r.VoteOrder = removeID(r.VoteOrder, voterID)
	return true
}

// ReopenBallotsFor discards every ballot naming target and returns the voters
// whose ballots were discarded, in casting order.
func (r *Room) ReopenBallotsFor(target string) []string {
	var reopened []string
	for _, voter := range r.VoteOrder {
		if r.Votes[voter] == target {
			reopened = append(reopened, voter)
		}
	}
	for _, voter := range reopened {
		r.DropBallot(voter)
	}
	return reopened
}

func (r *Room) BallotCount() int {
	return len(r.Votes)
}

// Ledger copies the ballots so the caller can hand them to another goroutine.
func (r *Room) Ledger() map[string]string {
	out := make(map[string]string, len(r.Votes))
	for voter, target := range r.Votes {
		out[voter] = target
	}
	return out
}

func (r *Room) ResetVotes() {
	r.Votes = make(map[string]string)
	r.VoteOrder = []string{}
}

// Tally counts ballots per target and returns the target with the strictly
// highest count. Ties go to whichever target received its first ballot
// earliest. An empty ledger yields "".
func (r *Room) Tally() (string, int) {
	counts := make(map[string]int)
	var targets []string
	for _, voter := range r.VoteOrder {
		target := r.Votes[voter]
		if _, seen := counts[target]; !seen {
			targets = append(targets, target)
		}
		counts[target]++
	}

	mostVoted, best := "", 0
	for _, target := range targets {
		if counts[target] > best {
			mostVoted, best = target, counts[target]
		}
	}
	return mostVoted, best
}

// ===== SNAPSHOTS =====

// Snapshot is the full room state for selfID. Roles and the objective are
// never part of it.
func (r *Room) Snapshot(selfID string) RoomStateData {
	participants := make([]PublicParticipant, 0, len(r.Order))
	for _, id := range r.Order {
		participants = append(participants, r.Participants[id].ToPublic())
	}
	return RoomStateData{
		RoomId:           r.Id,
		SelfId:           selfID,
		Phase:            r.Phase,
		SecondsRemaining: r.Countdown(),
		Participants:     participants,
		Blocks:           r.World.Blocks(),
		Votes:            r.Ledger(),
	}
}

func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		RoomId:       r.Id,
		Phase:        r.Phase,
		Participants: r.Count(),
		CreatedAt:    r.CreatedAt,
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
