package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

func NewMessage[T any](eventType string, data T) Message[T] {
	return Message[T]{Type: eventType, Data: data}
}

// Outbound event types
const (
	EventRoomState         = "roomState"
	EventParticipantJoined = "participantJoined"
	EventParticipantLeft   = "participantLeft"
	EventReadyChanged      = "readyChanged"
	EventMoved             = "moved"
	EventBlockPlaced       = "blockPlaced"
	EventBlockRemoved      = "blockRemoved"
	EventBlockUpdated      = "blockUpdated"
	EventGameStarted       = "gameStarted"
	EventPhaseChanged      = "phaseChanged"
	EventTimerUpdate       = "timerUpdate"
	EventVoteCast          = "voteCast"
	EventVoteRetracted     = "voteRetracted"
	EventGameEnded         = "gameEnded"
	EventChatMessage       = "chatMessage"
	EventGameError         = "gameError"
)

type RoomStateData struct {
	RoomId           string              `json:"roomId"`
	SelfId           string              `json:"selfId"`
	Phase            GamePhase           `json:"phase"`
	SecondsRemaining int                 `json:"secondsRemaining"`
	Participants     []PublicParticipant `json:"participants"`
	Blocks           []Block             `json:"blocks"`
	Votes            map[string]string   `json:"votes"`
}

type ParticipantJoinedData struct {
	Participant      PublicParticipant `json:"participant"`
	ParticipantCount int               `json:"participantCount"`
}

type ParticipantLeftData struct {
	ParticipantId    string `json:"participantId"`
	Name             string `json:"name"`
	ParticipantCount int    `json:"participantCount"`
}

type ReadyChangedData struct {
	ParticipantId string `json:"participantId"`
	IsReady       bool   `json:"isReady"`
}

type MovedData struct {
	ParticipantId string `json:"participantId"`
	Position      Vec3   `json:"position"`
	Rotation      Vec3   `json:"rotation"`
}

// GameStartedData is addressed to one recipient. Objective stays null for
// the seeker.
type GameStartedData struct {
	Phase     GamePhase `json:"phase"`
	Role      Role      `json:"role"`
	Objective *string   `json:"objective"`
}

type PhaseChangedData struct {
	Phase GamePhase `json:"phase"`
}

type TimerUpdateData struct {
	SecondsRemaining int `json:"secondsRemaining"`
	// length of the whole countdown, for progress bars
	Duration int       `json:"duration"`
	Phase    GamePhase `json:"phase"`
}

type VoteCastData struct {
	VoterId  string `json:"voterId"`
	TargetId string `json:"targetId"`
}

type VoteRetractedData struct {
	VoterId string `json:"voterId"`
}

type GameEndedData struct {
	Votes       map[string]string `json:"votes"`
	SeekerId    string            `json:"seekerId"`
	SeekerWon   bool              `json:"seekerWon"`
	MostVotedId string            `json:"mostVotedId,omitempty"`
}

type ChatMessageData struct {
	SenderId string `json:"senderId"`
	Sender   string `json:"sender"`
	Text     string `json:"text"`
}

type GameErrorData struct {
	Message string `json:"message"`
}
