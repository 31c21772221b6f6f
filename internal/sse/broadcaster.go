package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// Event names on the stream
const (
	EventRoomUpdate    = "room-update"
	EventPlayersUpdate = "players-update"
)

// RoomUpdate is the payload of a room-update event. The access code is
// deliberately absent: event streams have no per-client auth, and hosts
// read the code through authenticated endpoints.
type RoomUpdate struct {
	ID         string `json:"id"`
	IsActive   bool   `json:"is_active"`
	MaxPlayers int    `json:"max_players"`
	HostJoined bool   `json:"host_joined"`
}

// PlayersUpdate is the payload of a players-update event
type PlayersUpdate struct {
	Count   int      `json:"count"`
	Players []string `json:"players"`
}

// Broadcaster bridges the store's change feed onto the SSE hub, so every
// connected browser session observes every store mutation - including
// writes performed by other server processes sharing the same store.
type Broadcaster struct {
	hub    *Hub
	store  storage.Store
	logger *slog.Logger
}

// NewBroadcaster creates a Broadcaster
func NewBroadcaster(hub *Hub, store storage.Store, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		store:  store,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Run subscribes to both tables and republishes changes until the context
// is cancelled. Room events carry the row; player events trigger a full
// list re-fetch before broadcasting.
func (b *Broadcaster) Run(ctx context.Context) error {
	roomSub, err := b.store.Subscribe(ctx, storage.TableRooms)
	if err != nil {
		return err
	}
	defer roomSub.Close()

	playerSub, err := b.store.Subscribe(ctx, storage.TablePlayers)
	if err != nil {
		return err
	}
	defer playerSub.Close()

	b.logger.Info("broadcaster started")

	for {
		select {
		case event, ok := <-roomSub.Events():
			if !ok {
				return nil
			}
			if event.Room != nil {
				b.broadcastRoom(event.Room)
			}

		case _, ok := <-playerSub.Events():
			if !ok {
				return nil
			}
			b.broadcastPlayers(ctx)

		case <-ctx.Done():
			return nil
		}
	}
}

func (b *Broadcaster) broadcastRoom(room *model.Room) {
	payload, err := json.Marshal(RoomUpdate{
		ID:         string(room.ID),
		IsActive:   room.IsActive,
		MaxPlayers: room.MaxPlayers,
		HostJoined: room.HostJoined,
	})
	if err != nil {
		return
	}
	b.hub.BroadcastEvent(EventRoomUpdate, string(payload))
}

func (b *Broadcaster) broadcastPlayers(ctx context.Context) {
	room, err := b.store.GetRoom(ctx)
	if err != nil {
		b.logger.Warn("player broadcast skipped - room unavailable", slog.String("error", err.Error()))
		return
	}

	players, err := b.store.GetPlayers(ctx, room.ID)
	if err != nil {
		b.logger.Warn("player broadcast skipped", slog.String("error", err.Error()))
		return
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}

	payload, err := json.Marshal(PlayersUpdate{Count: len(players), Players: names})
	if err != nil {
		return
	}
	b.hub.BroadcastEvent(EventPlayersUpdate, string(payload))
}
