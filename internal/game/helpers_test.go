package game

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/architect-backend/internal"
)

// --- Conn ---

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type fakeConn struct {
	id string

	mu     sync.Mutex
	frames []frame
	closed bool
	full   bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		panic(err)
	}
	c.frames = append(c.frames, f)
	return true
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func (c *fakeConn) all() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]frame(nil), c.frames...)
}

func (c *fakeConn) types() []string {
	var out []string
	for _, f := range c.all() {
		out = append(out, f.Type)
	}
	return out
}

func (c *fakeConn) count(eventType string) int {
	n := 0
	for _, f := range c.all() {
		if f.Type == eventType {
			n++
		}
	}
	return n
}

// last decodes the most recent frame of eventType into v.
func (c *fakeConn) last(t *testing.T, eventType string, v any) {
	t.Helper()
	frames := c.all()
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Type == eventType {
			require.NoError(t, json.Unmarshal(frames[i].Data, v))
			return
		}
	}
	t.Fatalf("conn %s received no %s frame; got %v", c.id, eventType, c.types())
}

// --- Tickers ---

type manualTickers struct {
	mu      sync.Mutex
	chans   []chan time.Time
	stopped int
}

func (m *manualTickers) Create(time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)
	m.mu.Lock()
	m.chans = append(m.chans, ch)
	m.mu.Unlock()
	return ch, func() {
		m.mu.Lock()
		m.stopped++
		m.mu.Unlock()
	}
}

func (m *manualTickers) created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chans)
}

func (m *manualTickers) stoppedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *manualTickers) latest() chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chans[len(m.chans)-1]
}

// --- Sink ---

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Record(ctx context.Context, result internal.MatchResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// --- Engine ---

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type harness struct {
	t       *testing.T
	engine  *Engine
	sink    *mockSink
	tickers *manualTickers
	conns   map[string]*fakeConn
}

func testSettings() Settings {
	s := DefaultSettings()
	s.SinkTimeout = time.Second
	return s
}

func newHarness(t *testing.T, settings Settings) *harness {
	t.Helper()
	sink := &mockSink{}
	sink.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	tickers := &manualTickers{}
	e := NewEngine(settings, sink,
		WithTickerFactory(tickers),
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithClock(func() time.Time { return testNow }),
	)
	return &harness{t: t, engine: e, sink: sink, tickers: tickers, conns: map[string]*fakeConn{}}
}

func (h *harness) connect(id string) *fakeConn {
	c := newFakeConn(id)
	h.engine.handleConnect(c)
	h.conns[id] = c
	return c
}

// join connects id (if needed) and joins roomID under the same name.
func (h *harness) join(id, roomID string) *fakeConn {
	h.t.Helper()
	c, ok := h.conns[id]
	if !ok {
		c = h.connect(id)
	}
	require.NoError(h.t, h.engine.join(id, internal.JoinRoom{RoomID: roomID, Name: id}))
	return c
}

func (h *harness) room(id string) *internal.Room {
	h.t.Helper()
	room, ok := h.engine.rooms[id]
	require.True(h.t, ok, "room %s does not exist", id)
	return room
}

func (h *harness) resetFrames() {
	for _, c := range h.conns {
		c.reset()
	}
}

// tick delivers one countdown second to the room's current countdown.
func (h *harness) tick(roomID string) {
	h.t.Helper()
	room := h.room(roomID)
	require.NotNil(h.t, room.Timer, "room %s has no countdown", roomID)
	h.engine.handleTick(roomID, room.Timer.Seq)
}

func (h *harness) tickN(roomID string, n int) {
	h.t.Helper()
	for range n {
		h.tick(roomID)
	}
}

// startRound joins ids into roomID and starts the game from the first one.
func (h *harness) startRound(roomID string, ids ...string) *internal.Room {
	h.t.Helper()
	for _, id := range ids {
		h.join(id, roomID)
	}
	require.NoError(h.t, h.engine.startGame(ids[0]))
	return h.room(roomID)
}

// toVoting runs a started round's Build and Discussion countdowns out.
func (h *harness) toVoting(roomID string) *internal.Room {
	h.t.Helper()
	h.tickN(roomID, h.engine.settings.BuildSeconds)
	h.tickN(roomID, h.engine.settings.DiscussionSeconds)
	room := h.room(roomID)
	require.Equal(h.t, internal.PhaseVoting, room.Phase)
	return room
}

func (h *harness) waitRecorded() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(h.t, h.engine.Wait(ctx))
}

func builderOf(room *internal.Room) *internal.Participant {
	for _, id := range room.Order {
		if p := room.Participants[id]; p.Role == internal.RoleBuilder {
			return p
		}
	}
	return nil
}
