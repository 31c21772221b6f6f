package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// Storage is a Postgres-backed implementation of the store. Rows live in
// the rooms and players tables (see schema.sql); the change feed rides on
// LISTEN/NOTIFY, with writers issuing pg_notify after each statement so
// every connected process observes every mutation.
type Storage struct {
	pool *pgxpool.Pool
}

// New connects a pool and returns a Postgres storage instance
func New(ctx context.Context, databaseURL string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

// NewWithPool creates a Postgres storage with an existing pool
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Close releases the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the combined interface
var _ storage.Store = (*Storage)(nil)

const roomColumns = "id, access_code, is_active, max_players, host_joined, created_at, updated_at"

func scanRoom(row pgx.Row) (*model.Room, error) {
	var room model.Room
	err := row.Scan(&room.ID, &room.AccessCode, &room.IsActive, &room.MaxPlayers,
		&room.HostJoined, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRoomNotProvisioned
		}
		return nil, err
	}
	return &room, nil
}

// Room operations

func (s *Storage) GetRoom(ctx context.Context) (*model.Room, error) {
	// Singleton by convention: exactly one row exists
	query := `SELECT ` + roomColumns + ` FROM rooms LIMIT 1`
	return scanRoom(s.pool.QueryRow(ctx, query))
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (id, access_code, is_active, max_players, host_joined, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			access_code = EXCLUDED.access_code,
			is_active = EXCLUDED.is_active,
			max_players = EXCLUDED.max_players,
			host_joined = EXCLUDED.host_joined,
			updated_at = EXCLUDED.updated_at`
	_, err := s.pool.Exec(ctx, query, room.ID, room.AccessCode, room.IsActive,
		room.MaxPlayers, room.HostJoined, room.CreatedAt, room.UpdatedAt)
	if err != nil {
		return err
	}

	s.notifyRoom(ctx, room)
	return nil
}

func (s *Storage) UpdateRoom(ctx context.Context, id model.RoomID, patch model.RoomPatch) (*model.Room, error) {
	query := `
		UPDATE rooms SET
			access_code = UPPER(COALESCE($2, access_code)),
			is_active = COALESCE($3, is_active),
			max_players = COALESCE($4, max_players),
			host_joined = COALESCE($5, host_joined),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + roomColumns
	room, err := scanRoom(s.pool.QueryRow(ctx, query, id,
		patch.AccessCode, patch.IsActive, patch.MaxPlayers, patch.HostJoined))
	if err != nil {
		return nil, err
	}

	s.notifyRoom(ctx, room)
	return room, nil
}

// Player operations

func (s *Storage) GetPlayers(ctx context.Context, roomID model.RoomID) ([]model.Player, error) {
	query := `SELECT id, room_id, name, joined_at FROM players WHERE room_id = $1 ORDER BY joined_at, id`
	rows, err := s.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Name, &p.JoinedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// InsertPlayer inserts a player only while the room has a free slot. The
// count guard runs inside the single statement, so concurrent joins
// cannot overshoot max_players on this backend.
func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) error {
	query := `
		INSERT INTO players (id, room_id, name, joined_at)
		SELECT $1, $2, $3, $4
		WHERE (SELECT COUNT(*) FROM players WHERE room_id = $2)
			< (SELECT max_players FROM rooms WHERE id = $2)`
	tag, err := s.pool.Exec(ctx, query, player.ID, player.RoomID, player.Name, player.JoinedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRoomFull
	}

	s.notifyPlayers(ctx)
	return nil
}

func (s *Storage) DeleteAllPlayers(ctx context.Context, roomID model.RoomID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM players WHERE room_id = $1`, roomID)
	if err != nil {
		return err
	}

	s.notifyPlayers(ctx)
	return nil
}

// Change feed notifications

func (s *Storage) notifyRoom(ctx context.Context, room *model.Room) {
	data, err := json.Marshal(room)
	if err != nil {
		return
	}
	// Best-effort: a failed notify loses one signal, not the write
	_, _ = s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel(storage.TableRooms), string(data))
}

func (s *Storage) notifyPlayers(ctx context.Context) {
	_, _ = s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel(storage.TablePlayers), "changed")
}
