package memory

import (
	"context"
	"sync"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// eventBufferSize is the per-subscriber buffer; slow subscribers drop
// events rather than block writers
const eventBufferSize = 16

// Storage is an in-memory implementation of the store and its change
// feed. It is the default backend and the test double.
type Storage struct {
	mu      sync.RWMutex
	room    *model.Room
	players []model.Player

	subMu sync.Mutex
	subs  map[storage.Table]map[*subscription]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		subs: map[storage.Table]map[*subscription]struct{}{
			storage.TableRooms:   {},
			storage.TablePlayers: {},
		},
	}
}

// Ensure Storage implements the combined interface
var _ storage.Store = (*Storage)(nil)

// Room operations

func (s *Storage) GetRoom(ctx context.Context) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.room == nil {
		return nil, model.ErrRoomNotProvisioned
	}
	room := *s.room
	return &room, nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	saved := *room
	s.room = &saved
	s.mu.Unlock()

	s.publish(storage.Event{Table: storage.TableRooms, Room: room})
	return nil
}

func (s *Storage) UpdateRoom(ctx context.Context, id model.RoomID, patch model.RoomPatch) (*model.Room, error) {
	s.mu.Lock()
	if s.room == nil || s.room.ID != id {
		s.mu.Unlock()
		return nil, model.ErrRoomNotProvisioned
	}
	updated := patch.Apply(*s.room)
	s.room = &updated
	result := updated
	s.mu.Unlock()

	s.publish(storage.Event{Table: storage.TableRooms, Room: &result})
	return &result, nil
}

// Player operations

func (s *Storage) GetPlayers(ctx context.Context, roomID model.RoomID) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		if p.RoomID == roomID {
			players = append(players, p)
		}
	}
	return players, nil
}

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	s.players = append(s.players, *player)
	s.mu.Unlock()

	s.publish(storage.Event{Table: storage.TablePlayers})
	return nil
}

func (s *Storage) DeleteAllPlayers(ctx context.Context, roomID model.RoomID) error {
	s.mu.Lock()
	remaining := s.players[:0]
	for _, p := range s.players {
		if p.RoomID != roomID {
			remaining = append(remaining, p)
		}
	}
	s.players = remaining
	s.mu.Unlock()

	s.publish(storage.Event{Table: storage.TablePlayers})
	return nil
}

// Close releases all subscriptions
func (s *Storage) Close() error {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, subs := range s.subs {
		for sub := range subs {
			close(sub.events)
			delete(subs, sub)
		}
	}
	return nil
}

// Change feed

type subscription struct {
	parent *Storage
	table  storage.Table
	events chan storage.Event
	once   sync.Once
}

func (sub *subscription) Events() <-chan storage.Event {
	return sub.events
}

func (sub *subscription) Close() {
	sub.once.Do(func() {
		sub.parent.subMu.Lock()
		defer sub.parent.subMu.Unlock()

		if _, ok := sub.parent.subs[sub.table][sub]; ok {
			delete(sub.parent.subs[sub.table], sub)
			close(sub.events)
		}
	})
}

// Subscribe registers a change listener for one table
func (s *Storage) Subscribe(ctx context.Context, table storage.Table) (storage.Subscription, error) {
	sub := &subscription{
		parent: s,
		table:  table,
		events: make(chan storage.Event, eventBufferSize),
	}

	s.subMu.Lock()
	s.subs[table][sub] = struct{}{}
	s.subMu.Unlock()

	return sub, nil
}

func (s *Storage) publish(event storage.Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for sub := range s.subs[event.Table] {
		select {
		case sub.events <- event:
		default:
			// Subscriber buffer full - drop the event. Consumers
			// re-derive from snapshots, so a dropped signal only
			// delays them until the next event.
		}
	}
}
