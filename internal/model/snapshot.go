package model

// Snapshot is an immutable view of the room and its membership as of one
// received change event. Sessions re-derive their phase from each new
// snapshot rather than mutating shared state.
type Snapshot struct {
	Room    Room
	Players []Player
}

// PlayerCount returns the number of claimed slots
func (s Snapshot) PlayerCount() int {
	return len(s.Players)
}

// AtCapacity reports whether every slot is claimed. A non-positive
// MaxPlayers never reports full.
func (s Snapshot) AtCapacity() bool {
	return s.Room.MaxPlayers > 0 && len(s.Players) >= s.Room.MaxPlayers
}
