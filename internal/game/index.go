package game

// ConnectionIndex maps a connection id to the room it currently belongs to.
// It is owned by the engine loop and is not safe for concurrent use.
type ConnectionIndex struct {
	rooms map[string]string
}

func NewConnectionIndex() *ConnectionIndex {
	return &ConnectionIndex{rooms: make(map[string]string)}
}

func (ci *ConnectionIndex) Bind(connID, roomID string) {
	ci.rooms[connID] = roomID
}

func (ci *ConnectionIndex) Resolve(connID string) (string, bool) {
	roomID, ok := ci.rooms[connID]
	return roomID, ok
}

func (ci *ConnectionIndex) Unbind(connID string) {
	delete(ci.rooms, connID)
}

func (ci *ConnectionIndex) Len() int {
	return len(ci.rooms)
}
