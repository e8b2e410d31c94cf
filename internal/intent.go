package internal

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedIntent = errors.New("malformed intent")
	ErrUnknownIntent   = errors.New("unknown intent type")
)

type IntentType string

// Inbound intent types
const (
	IntentJoinRoom    IntentType = "joinRoom"
	IntentMove        IntentType = "move"
	IntentPlaceBlock  IntentType = "placeBlock"
	IntentRemoveBlock IntentType = "removeBlock"
	IntentUpdateBlock IntentType = "updateBlock"
	IntentSabotage    IntentType = "sabotage"
	IntentToggleReady IntentType = "toggleReady"
	IntentStartGame   IntentType = "startGame"
	IntentVote        IntentType = "vote"
	IntentChat        IntentType = "chat"
	IntentLeaveRoom   IntentType = "leaveRoom"
)

// Intent is one validated inbound message.
type Intent interface {
	Kind() IntentType
}

type JoinRoom struct {
	RoomID string
	Name   string
}

type Move struct {
	Position Vec3
	Rotation Vec3
}

type PlaceBlock struct{ Block Block }

type UpdateBlock struct{ Block Block }

type RemoveBlock struct{ Coord Coord }

type Sabotage struct{ Position Vec3 }

type ToggleReady struct{}

type StartGame struct{}

type Vote struct{ TargetID string }

type Chat struct{ Text string }

type LeaveRoom struct{}

func (JoinRoom) Kind() IntentType    { return IntentJoinRoom }
func (Move) Kind() IntentType        { return IntentMove }
func (PlaceBlock) Kind() IntentType  { return IntentPlaceBlock }
func (UpdateBlock) Kind() IntentType { return IntentUpdateBlock }
func (RemoveBlock) Kind() IntentType { return IntentRemoveBlock }
func (Sabotage) Kind() IntentType    { return IntentSabotage }
func (ToggleReady) Kind() IntentType { return IntentToggleReady }
func (StartGame) Kind() IntentType   { return IntentStartGame }
func (Vote) Kind() IntentType        { return IntentVote }
func (Chat) Kind() IntentType        { return IntentChat }
func (LeaveRoom) Kind() IntentType   { return IntentLeaveRoom }

// DecodeError carries the envelope type alongside the reason a frame was
// rejected, so a bad joinRoom can still be answered.
type DecodeError struct {
	Type IntentType
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type envelope struct {
	Type IntentType      `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinPayload struct {
	RoomID *string `json:"roomId"`
	Name   *string `json:"name"`
}

type movePayload struct {
	Position *Vec3 `json:"position"`
	Rotation *Vec3 `json:"rotation"`
}

type blockPayload struct {
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Z     *float64 `json:"z"`
	Color string   `json:"color"`
	Shape Shape    `json:"shape"`
	Size  float64  `json:"size"`
}

type sabotagePayload struct {
	Position *Vec3 `json:"position"`
}

type votePayload struct {
	TargetID string `json:"targetId"`
}

type chatPayload struct {
	Text *string `json:"text"`
}

// DecodeIntent parses a {"type","data"} frame into its typed intent. Unknown
// types wrap ErrUnknownIntent; structurally invalid payloads wrap
// ErrMalformedIntent.
func DecodeIntent(raw []byte) (Intent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %v", ErrMalformedIntent, err)}
	}

	intent, err := decodePayload(env)
	if err != nil {
		return nil, &DecodeError{Type: env.Type, Err: err}
	}
	return intent, nil
}

func decodePayload(env envelope) (Intent, error) {
	switch env.Type {
	case IntentJoinRoom:
		var p joinPayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		if p.RoomID == nil || p.Name == nil {
			return nil, malformed("roomId and name are required")
		}
		return JoinRoom{RoomID: *p.RoomID, Name: *p.Name}, nil

	case IntentMove:
		var p movePayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		if p.Position == nil || p.Rotation == nil {
			return nil, malformed("position and rotation are required")
		}
		return Move{Position: *p.Position, Rotation: *p.Rotation}, nil

	case IntentPlaceBlock, IntentUpdateBlock:
		block, err := decodeBlock(env.Data)
		if err != nil {
			return nil, err
		}
		if env.Type == IntentPlaceBlock {
			return PlaceBlock{Block: block}, nil
		}
		return UpdateBlock{Block: block}, nil

	case IntentRemoveBlock:
		var p blockPayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		coord, err := p.coord()
		if err != nil {
			return nil, err
		}
		return RemoveBlock{Coord: coord}, nil

	case IntentSabotage:
		var p sabotagePayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		if p.Position == nil {
			return nil, malformed("position is required")
		}
		return Sabotage{Position: *p.Position}, nil

	case IntentVote:
		var p votePayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		if p.TargetID == "" {
			return nil, malformed("targetId is required")
		}
		return Vote{TargetID: p.TargetID}, nil

	case IntentChat:
		var p chatPayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		if p.Text == nil {
			return nil, malformed("text is required")
		}
		return Chat{Text: *p.Text}, nil

	case IntentToggleReady:
		return ToggleReady{}, nil
	case IntentStartGame:
		return StartGame{}, nil
	case IntentLeaveRoom:
		return LeaveRoom{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, env.Type)
}

func decodeBlock(data json.RawMessage) (Block, error) {
	var p blockPayload
	if err := unmarshalData(data, &p); err != nil {
		return Block{}, err
	}
	coord, err := p.coord()
	if err != nil {
		return Block{}, err
	}
	block, err := Block{
		X: coord.X, Y: coord.Y, Z: coord.Z,
		Color: p.Color,
		Shape: p.Shape,
		Size:  p.Size,
	}.Normalize()
	if err != nil {
		return Block{}, malformed(err.Error())
	}
	return block, nil
}

func (p blockPayload) coord() (Coord, error) {
	if p.X == nil || p.Y == nil || p.Z == nil {
		return Coord{}, malformed("x, y and z are required")
	}
	c := Coord{X: *p.X, Y: *p.Y, Z: *p.Z}
	if err := c.Validate(); err != nil {
		return Coord{}, malformed(err.Error())
	}
	return c, nil
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return malformed("missing data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIntent, err)
	}
	return nil
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedIntent, reason)
}
