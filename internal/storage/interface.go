package storage

import (
	"context"

	"github.com/MCASE28/planb-tier/internal/model"
)

// Storage defines the interface for the external record store. Every
// operation is a single call against the store; no multi-step operation is
// transactional, so composite invariants (like the capacity cap) are only
// eventually consistent.
type Storage interface {
	// Room operations
	GetRoom(ctx context.Context) (*model.Room, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	UpdateRoom(ctx context.Context, id model.RoomID, patch model.RoomPatch) (*model.Room, error)

	// Player operations
	GetPlayers(ctx context.Context, roomID model.RoomID) ([]model.Player, error)
	InsertPlayer(ctx context.Context, player *model.Player) error
	DeleteAllPlayers(ctx context.Context, roomID model.RoomID) error

	Close() error
}

// Table identifies one of the two persisted tables
type Table string

const (
	TableRooms   Table = "rooms"
	TablePlayers Table = "players"
)

// Event is a change notification for one table. For the rooms table the
// event carries the full updated row; for the players table only the
// signal is guaranteed.
type Event struct {
	Table Table
	Room  *model.Room // set for rooms events
}

// Subscription is a handle on a change feed. Events stop and the channel
// closes after Close is called.
type Subscription interface {
	Events() <-chan Event
	Close()
}

// ChangeFeed delivers best-effort change notifications per table.
// Delivery is at-least-once with no ordering guarantee; subscribers must
// re-derive state from snapshots rather than apply events incrementally.
type ChangeFeed interface {
	Subscribe(ctx context.Context, table Table) (Subscription, error)
}

// Store combines persistence with its change feed. All backends implement
// both halves against the same underlying service.
type Store interface {
	Storage
	ChangeFeed
}
