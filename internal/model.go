package internal

import (
	"context"
	"time"
)

const (
	BuildPhaseSeconds      = 60
	DiscussionPhaseSeconds = 30
	MinPlayersToStart      = 1
	SabotageRadius         = 3.0
	FloorY                 = -1.0
)

type GamePhase string

const (
	PhaseLobby      GamePhase = "Lobby"
	PhaseBuild      GamePhase = "Build"
	PhaseDiscussion GamePhase = "Discussion"
	PhaseVoting     GamePhase = "Voting"
	PhaseResult     GamePhase = "Result"
)

// InRound reports whether the phase belongs to a running round.
func (p GamePhase) InRound() bool {
	return p == PhaseBuild || p == PhaseDiscussion || p == PhaseVoting
}

type Role string

const (
	RoleUnassigned Role = ""
	RoleSeeker     Role = "seeker"
	RoleBuilder    Role = "builder"
)

// GameTimer is the cancellation handle of a room's running phase countdown.
// Seq identifies the countdown so ticks from a replaced one are ignored.
type GameTimer struct {
	Seq       uint64
	Duration  int
	Remaining int
	Cancel    context.CancelFunc
}

type Room struct {
	Id           string
	Participants map[string]*Participant
	// join order; every fan-out and role draw iterates this
	Order []string

	World     *World
	Phase     GamePhase
	Objective string
	Timer     *GameTimer

	// Vote ledger
	Votes     map[string]string
	VoteOrder []string

	CreatedAt time.Time
}

type Participant struct {
	Id       string
	Name     string
	Position Vec3
	Rotation Vec3
	Role     Role
	IsReady  bool
	JoinedAt time.Time
}

type MatchResult struct {
	Id           string    `json:"id"`
	RoomId       string    `json:"roomId"`
	SeekerId     string    `json:"seekerId"`
	SeekerName   string    `json:"seekerName"`
	SeekerWon    bool      `json:"seekerWon"`
	Participants int       `json:"participants"`
	Ballots      int       `json:"ballots"`
	Timestamp    time.Time `json:"timestamp"`
}

type RoomSummary struct {
	RoomId       string    `json:"roomId"`
	Phase        GamePhase `json:"phase"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Response wraps every JSON reply of the HTTP surface.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
