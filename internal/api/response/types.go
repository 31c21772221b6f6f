package response

import (
	"time"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/services/auth"
)

// Room represents the room in API responses. AccessCode is only
// populated for authenticated hosts.
type Room struct {
	ID         string `json:"id"`
	AccessCode string `json:"access_code,omitempty"`
	IsActive   bool   `json:"is_active"`
	MaxPlayers int    `json:"max_players"`
	HostJoined bool   `json:"host_joined"`
}

// RoomFromModel converts a model.Room to a response Room, redacting the
// access code unless the caller is the host.
func RoomFromModel(r *model.Room, includeCode bool) Room {
	room := Room{
		ID:         string(r.ID),
		IsActive:   r.IsActive,
		MaxPlayers: r.MaxPlayers,
		HostJoined: r.HostJoined,
	}
	if includeCode {
		room.AccessCode = r.AccessCode
	}
	return room
}

// Player represents a player in API responses
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       string(p.ID),
		Name:     p.Name,
		JoinedAt: p.JoinedAt,
	}
}

// Snapshot is the combined room and player view
type Snapshot struct {
	Room        Room     `json:"room"`
	Players     []Player `json:"players"`
	PlayerCount int      `json:"player_count"`
}

// SnapshotFromModel converts a model.Snapshot
func SnapshotFromModel(s model.Snapshot, includeCode bool) Snapshot {
	players := make([]Player, len(s.Players))
	for i := range s.Players {
		players[i] = PlayerFromModel(&s.Players[i])
	}
	return Snapshot{
		Room:        RoomFromModel(&s.Room, includeCode),
		Players:     players,
		PlayerCount: len(players),
	}
}

// HostLoginResponse is the response for a successful host login
type HostLoginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Room         Room      `json:"room"`
}

// HostLoginResponseFrom builds a HostLoginResponse
func HostLoginResponseFrom(s *auth.Session, r *model.Room) HostLoginResponse {
	return HostLoginResponse{
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
		Room:         RoomFromModel(r, true),
	}
}

// JoinResponse is the response after a player joins
type JoinResponse struct {
	Player Player `json:"player"`
}
