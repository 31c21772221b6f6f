package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// playersChangedPayload is published on the players feed channel. The
// players feed carries no row data; subscribers re-fetch the full list.
const playersChangedPayload = "changed"

// Storage is a Redis-backed implementation of the store. Rows are JSON
// values under prefixed keys and the change feed rides on pub/sub, so
// every process connected to the same Redis sees every mutation.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the combined interface
var _ storage.Store = (*Storage)(nil)

// Room operations

func (s *Storage) GetRoom(ctx context.Context) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotProvisioned
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, roomKey(), data, 0).Err(); err != nil {
		return err
	}

	s.publishRoom(ctx, room)
	return nil
}

func (s *Storage) UpdateRoom(ctx context.Context, id model.RoomID, patch model.RoomPatch) (*model.Room, error) {
	room, err := s.GetRoom(ctx)
	if err != nil {
		return nil, err
	}
	if room.ID != id {
		return nil, model.ErrRoomNotProvisioned
	}

	updated := patch.Apply(*room)

	data, err := json.Marshal(&updated)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, roomKey(), data, 0).Err(); err != nil {
		return nil, err
	}

	s.publishRoom(ctx, &updated)
	return &updated, nil
}

// Player operations

func (s *Storage) GetPlayers(ctx context.Context, roomID model.RoomID) ([]model.Player, error) {
	values, err := s.client.HGetAll(ctx, playersKey(roomID)).Result()
	if err != nil {
		return nil, err
	}

	players := make([]model.Player, 0, len(values))
	for _, val := range values {
		var player model.Player
		if err := json.Unmarshal([]byte(val), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, player)
	}

	// Hash iteration order is unspecified; present players in join order
	sortPlayers(players)
	return players, nil
}

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	if err := s.client.HSet(ctx, playersKey(player.RoomID), string(player.ID), data).Err(); err != nil {
		return err
	}

	s.publishPlayers(ctx)
	return nil
}

func (s *Storage) DeleteAllPlayers(ctx context.Context, roomID model.RoomID) error {
	if err := s.client.Del(ctx, playersKey(roomID)).Err(); err != nil {
		return err
	}

	s.publishPlayers(ctx)
	return nil
}

// Change feed

func (s *Storage) publishRoom(ctx context.Context, room *model.Room) {
	data, err := json.Marshal(room)
	if err != nil {
		return
	}
	// Best-effort: a failed publish loses one signal, not the write
	_ = s.client.Publish(ctx, feedChannel(storage.TableRooms), data).Err()
}

func (s *Storage) publishPlayers(ctx context.Context) {
	_ = s.client.Publish(ctx, feedChannel(storage.TablePlayers), playersChangedPayload).Err()
}

type subscription struct {
	pubsub *redis.PubSub
	events chan storage.Event
}

func (sub *subscription) Events() <-chan storage.Event {
	return sub.events
}

func (sub *subscription) Close() {
	_ = sub.pubsub.Close()
}

// Subscribe registers a change listener for one table backed by a Redis
// pub/sub channel
func (s *Storage) Subscribe(ctx context.Context, table storage.Table) (storage.Subscription, error) {
	pubsub := s.client.Subscribe(ctx, feedChannel(table))

	// Force the subscription to be established before returning so
	// callers do not miss events between Subscribe and the first receive
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &subscription{
		pubsub: pubsub,
		events: make(chan storage.Event),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			event := storage.Event{Table: table}
			if table == storage.TableRooms {
				var room model.Room
				if err := json.Unmarshal([]byte(msg.Payload), &room); err != nil {
					continue
				}
				event.Room = &room
			}
			select {
			case sub.events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

func sortPlayers(players []model.Player) {
	// Insertion sort; player lists are small
	for i := 1; i < len(players); i++ {
		for j := i; j > 0 && players[j].JoinedAt.Before(players[j-1].JoinedAt); j-- {
			players[j], players[j-1] = players[j-1], players[j]
		}
	}
}
