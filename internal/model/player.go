package model

import "time"

// PlayerID uniquely identifies a player slot
type PlayerID string

// Player represents a claimed slot in the room. Players are created by a
// successful join and destroyed en masse when the host resets the room;
// there is no per-player removal.
type Player struct {
	ID       PlayerID
	RoomID   RoomID // never changes after creation
	Name     string // display name, non-empty after trimming, not unique
	JoinedAt time.Time
}
