package game

import (
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/ksuid"
	"golang.org/x/time/rate"

	"github.com/scythe504/architect-backend/internal"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// =============================================================================
// WEBSOCKET TRANSPORT
// =============================================================================

type Transport struct {
	engine   *Engine
	upgrader websocket.Upgrader
	limit    rate.Limit
	burst    int
}

func NewTransport(engine *Engine, allowedOrigins []string, inboundRate float64, inboundBurst int) *Transport {
	return &Transport{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		limit: rate.Limit(inboundRate),
		burst: inboundBurst,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// HandleWebSocket upgrades the request and registers the connection with the
// engine. The client joins a room by sending a joinRoom frame.
func (t *Transport) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[HandleWebSocket] upgrade failed")
		return
	}

	c := t.newClient(conn)
	if !t.engine.Connect(c) {
		log.Warn().Str("conn", c.id).Msg("[HandleWebSocket] engine stopped, refusing connection")
		conn.Close()
		return
	}
	log.Info().Str("conn", c.id).Str("remote", r.RemoteAddr).Msg("[HandleWebSocket] connected")

	go c.writePump()
	go c.readPump(t.engine)
}

type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// move streams continuously and is throttled apart from edits and chat
	moveLimiter   *rate.Limiter
	actionLimiter *rate.Limiter
}

func (t *Transport) newClient(conn *websocket.Conn) *client {
	return &client{
		id:            ksuid.New().String(),
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
		done:          make(chan struct{}),
		moveLimiter:   rate.NewLimiter(t.limit, t.burst),
		actionLimiter: rate.NewLimiter(t.limit, t.burst),
	}
}

// allow applies the inbound throttle for one intent. Membership, readiness,
// start and vote intents are never dropped.
func (c *client) allow(kind internal.IntentType) bool {
	switch kind {
	case internal.IntentMove:
		return c.moveLimiter.Allow()
	case internal.IntentPlaceBlock, internal.IntentUpdateBlock, internal.IntentRemoveBlock,
		internal.IntentSabotage, internal.IntentChat:
		return c.actionLimiter.Allow()
	default:
		return true
	}
}

// rejections lists the intents whose malformed frames are answered with a
// gameError instead of being dropped.
var rejections = map[internal.IntentType]string{
	internal.IntentJoinRoom: "invalid join request",
	internal.IntentChat:     "invalid chat message",
}

func (c *client) ID() string {
	return c.id
}

func (c *client) Send(data []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump decodes frames and submits them to the engine until the socket
// fails, then reports the disconnect.
func (c *client) readPump(engine *Engine) {
	defer func() {
		engine.Disconnect(c.id)
		c.Close()
		log.Info().Str("conn", c.id).Msg("[readPump] disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("conn", c.id).Msg("[readPump] read error")
			}
			return
		}
		intent, err := internal.DecodeIntent(raw)
		if err != nil {
			var decodeErr *internal.DecodeError
			if errors.As(err, &decodeErr) {
				if msg, ok := rejections[decodeErr.Type]; ok {
					engine.Reject(c.id, msg)
				}
			}
			log.Debug().Err(err).Str("conn", c.id).Msg("[readPump] dropping malformed frame")
			continue
		}
		if !c.allow(intent.Kind()) {
			log.Debug().Str("conn", c.id).Str("intent", string(intent.Kind())).Msg("[readPump] rate limited, dropping frame")
			continue
		}
		engine.Submit(c.id, intent)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("[writePump] write failed")
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
