package model

import (
	"strings"
	"time"
)

// RoomID uniquely identifies the room record
type RoomID string

// AccessCodeLength is the length of room access codes
const AccessCodeLength = 4

// AccessCodeAlphabet is the characters used in access codes (hex digits)
const AccessCodeAlphabet = "0123456789ABCDEF"

// RecommendedCapacities are the player limits offered by the host UI.
// The store does not enforce membership in this set.
var RecommendedCapacities = []int{2, 4, 8, 16, 32}

// Room is the singleton room record. It is provisioned once and then only
// updated, never deleted.
type Room struct {
	ID         RoomID
	AccessCode string // stored uppercase, compared case-insensitively
	IsActive   bool   // gates whether players may attempt to join
	MaxPlayers int
	HostJoined bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CodeMatches reports whether the submitted code matches the room's access
// code, ignoring case.
func (r *Room) CodeMatches(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), r.AccessCode)
}

// RoomPatch is a partial update to the room record. Nil fields are left
// unchanged by the store.
type RoomPatch struct {
	AccessCode *string
	IsActive   *bool
	MaxPlayers *int
	HostJoined *bool
}

// IsEmpty reports whether the patch changes nothing
func (p RoomPatch) IsEmpty() bool {
	return p.AccessCode == nil && p.IsActive == nil && p.MaxPlayers == nil && p.HostJoined == nil
}

// Apply merges the patch into a copy of the room
func (p RoomPatch) Apply(r Room) Room {
	if p.AccessCode != nil {
		r.AccessCode = strings.ToUpper(*p.AccessCode)
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
	if p.MaxPlayers != nil {
		r.MaxPlayers = *p.MaxPlayers
	}
	if p.HostJoined != nil {
		r.HostJoined = *p.HostJoined
	}
	return r
}
