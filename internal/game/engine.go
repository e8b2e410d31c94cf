package game

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
	"github.com/scythe504/architect-backend/internal/config"
	"github.com/scythe504/architect-backend/internal/utils"
)

type Settings struct {
	MinParticipants   int
	BuildSeconds      int
	DiscussionSeconds int
	// 0 means voting only ends once every participant has voted
	VotingSeconds  int
	SabotageRadius float64
	FloorY         float64
	// 0 means unbounded
	MaxBlocks   int
	Objectives  []string
	SinkTimeout time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MinParticipants:   internal.MinPlayersToStart,
		BuildSeconds:      internal.BuildPhaseSeconds,
		DiscussionSeconds: internal.DiscussionPhaseSeconds,
		SabotageRadius:    internal.SabotageRadius,
		FloorY:            internal.FloorY,
		Objectives:        utils.DefaultObjectives,
		SinkTimeout:       5 * time.Second,
	}
}

func SettingsFromConfig(cfg config.Config, objectives []string) Settings {
	return Settings{
		MinParticipants:   cfg.MinParticipants,
		BuildSeconds:      cfg.BuildSeconds,
		DiscussionSeconds: cfg.DiscussionSeconds,
		VotingSeconds:     cfg.VotingSeconds,
		SabotageRadius:    cfg.SabotageRadius,
		FloorY:            cfg.FloorY,
		MaxBlocks:         cfg.MaxBlocksPerRoom,
		Objectives:        objectives,
		SinkTimeout:       cfg.SinkTimeout,
	}
}

// Engine owns every room. All room state is touched only from the goroutine
// running Run; everything else talks to it through the inbox.
type Engine struct {
	settings Settings
	sink     ResultSink
	tickers  TickerFactory
	rng      *rand.Rand
	now      func() time.Time

	rooms map[string]*internal.Room
	index *ConnectionIndex
	conns map[string]Conn

	inbox    chan event
	done     chan struct{}
	ctx      context.Context
	timerSeq uint64

	// in-flight result writes
	pending sync.WaitGroup
}

type Option func(*Engine)

func WithTickerFactory(tf TickerFactory) Option {
	return func(e *Engine) { e.tickers = tf }
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(settings Settings, sink ResultSink, opts ...Option) *Engine {
	if len(settings.Objectives) == 0 {
		settings.Objectives = utils.DefaultObjectives
	}
	e := &Engine{
		settings: settings,
		sink:     sink,
		tickers:  tickerGen{},
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:      time.Now,
		rooms:    make(map[string]*internal.Room),
		index:    NewConnectionIndex(),
		conns:    make(map[string]Conn),
		inbox:    make(chan event, 1024),
		done:     make(chan struct{}),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ===== EVENTS =====

type event interface{}

type connectEvent struct{ conn Conn }

type disconnectEvent struct{ connID string }

type intentEvent struct {
	connID string
	intent internal.Intent
}

type rejectEvent struct {
	connID  string
	message string
}

type tickEvent struct {
	roomID string
	seq    uint64
}

type roomsQuery struct{ reply chan []internal.RoomSummary }

// ===== LOOP =====

// Run processes events until ctx is cancelled. On return every countdown is
// stopped and every connection closed.
func (e *Engine) Run(ctx context.Context) {
	e.ctx = ctx
	log.Info().Msg("[Engine.Run] event loop started")
	defer close(e.done)

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return
		case ev := <-e.inbox:
			e.dispatch(ev)
		}
	}
}

func (e *Engine) dispatch(ev event) {
	switch ev := ev.(type) {
	case connectEvent:
		e.handleConnect(ev.conn)
	case disconnectEvent:
		e.handleDisconnect(ev.connID)
	case intentEvent:
		e.handleIntent(ev.connID, ev.intent)
	case rejectEvent:
		e.sendError(ev.connID, ev.message)
	case tickEvent:
		e.handleTick(ev.roomID, ev.seq)
	case roomsQuery:
		ev.reply <- e.lobbyRooms()
	}
}

func (e *Engine) shutdown() {
	for id, room := range e.rooms {
		e.cancelCountdown(room)
		delete(e.rooms, id)
	}
	for id, conn := range e.conns {
		conn.Close()
		e.index.Unbind(id)
		delete(e.conns, id)
	}
	log.Info().Msg("[Engine.Run] event loop stopped")
}

// Wait blocks until pending result writes finish or ctx expires.
func (e *Engine) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		e.pending.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ===== PUBLIC API (safe from any goroutine) =====

func (e *Engine) post(ev event) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.inbox <- ev:
		return true
	case <-e.done:
		return false
	}
}

func (e *Engine) Connect(conn Conn) bool {
	return e.post(connectEvent{conn: conn})
}

func (e *Engine) Disconnect(connID string) {
	e.post(disconnectEvent{connID: connID})
}

func (e *Engine) Submit(connID string, intent internal.Intent) {
	e.post(intentEvent{connID: connID, intent: intent})
}

// Reject answers a frame that failed validation with a gameError.
func (e *Engine) Reject(connID, message string) {
	e.post(rejectEvent{connID: connID, message: message})
}

// Rooms lists the rooms still in Lobby, ordered by id.
func (e *Engine) Rooms(ctx context.Context) ([]internal.RoomSummary, error) {
	reply := make(chan []internal.RoomSummary, 1)
	if !e.post(roomsQuery{reply: reply}) {
		return nil, context.Canceled
	}
	select {
	case rooms := <-reply:
		return rooms, nil
	case <-e.done:
		return nil, context.Canceled
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) lobbyRooms() []internal.RoomSummary {
	out := make([]internal.RoomSummary, 0, len(e.rooms))
	for _, room := range e.rooms {
		if room.Phase == internal.PhaseLobby {
			out = append(out, room.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomId < out[j].RoomId })
	return out
}

// ===== CONNECTIONS =====

func (e *Engine) handleConnect(conn Conn) {
	e.conns[conn.ID()] = conn
	log.Debug().Str("conn", conn.ID()).Msg("[handleConnect] registered")
}

func (e *Engine) handleDisconnect(connID string) {
	e.leave(connID)
	delete(e.conns, connID)
	log.Debug().Str("conn", connID).Msg("[handleDisconnect] removed")
}

func (e *Engine) handleIntent(connID string, intent internal.Intent) {
	var err error
	switch in := intent.(type) {
	case internal.JoinRoom:
		err = e.join(connID, in)
	case internal.LeaveRoom:
		err = e.leave(connID)
	case internal.Move:
		err = e.move(connID, in)
	case internal.PlaceBlock:
		err = e.placeBlock(connID, in.Block)
	case internal.RemoveBlock:
		err = e.removeBlock(connID, in.Coord)
	case internal.UpdateBlock:
		err = e.updateBlock(connID, in.Block)
	case internal.Sabotage:
		err = e.sabotage(connID, in.Position)
	case internal.ToggleReady:
		err = e.toggleReady(connID)
	case internal.StartGame:
		err = e.startGame(connID)
	case internal.Vote:
		err = e.vote(connID, in.TargetID)
	case internal.Chat:
		err = e.chat(connID, in.Text)
	}
	if err == nil {
		return
	}

	if isUserFacing(err) {
		log.Info().Err(err).Str("conn", connID).Str("intent", string(intent.Kind())).Msg("[handleIntent] rejected")
		e.sendError(connID, err.Error())
		return
	}
	log.Debug().Err(err).Str("conn", connID).Str("intent", string(intent.Kind())).Msg("[handleIntent] ignored")
}

// resolve finds the sender's room and participant.
func (e *Engine) resolve(connID string) (*internal.Room, *internal.Participant, error) {
	roomID, ok := e.index.Resolve(connID)
	if !ok {
		return nil, nil, ErrUnknownSender
	}
	room, ok := e.rooms[roomID]
	if !ok {
		e.index.Unbind(connID)
		return nil, nil, ErrUnknownSender
	}
	p := room.GetParticipant(connID)
	if p == nil {
		e.index.Unbind(connID)
		return nil, nil, ErrUnknownSender
	}
	return room, p, nil
}
