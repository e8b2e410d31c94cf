package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
)

// =============================================================================
// BROADCASTING
// =============================================================================

// broadcast encodes msg once and queues it for every participant in join
// order.
func (e *Engine) broadcast(room *internal.Room, msg any) {
	e.broadcastExcept(room, "", msg)
}

func (e *Engine) broadcastExcept(room *internal.Room, exceptID string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("room", room.Id).Msg("[broadcast] marshal failed")
		return
	}
	for _, id := range room.Order {
		if id == exceptID {
			continue
		}
		e.deliver(id, data)
	}
}

func (e *Engine) send(connID string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("conn", connID).Msg("[send] marshal failed")
		return
	}
	e.deliver(connID, data)
}

func (e *Engine) sendError(connID, message string) {
	e.send(connID, internal.NewMessage(internal.EventGameError, internal.GameErrorData{Message: message}))
}

// deliver drops a client whose send buffer is full; its transport reports the
// disconnect afterwards.
func (e *Engine) deliver(connID string, data []byte) {
	conn, ok := e.conns[connID]
	if !ok {
		return
	}
	if !conn.Send(data) {
		log.Warn().Str("conn", connID).Msg("[deliver] send buffer full, closing connection")
		conn.Close()
	}
}
