package room

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MCASE28/planb-tier/internal/dependencies/clock"
	"github.com/MCASE28/planb-tier/internal/dependencies/random"
	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/services/auth"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// Controller performs the write operations against the record store.
// Every operation is a single non-transactional store call after
// validation; callers treat writes as fire-and-forget and rely on the
// change feed as the source of truth.
type Controller struct {
	storage storage.Storage
	auth    *auth.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	store storage.Storage,
	authService *auth.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: store,
		auth:    authService,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "room")),
	}
}

// Snapshot fetches one authoritative view of the room and its players
func (c *Controller) Snapshot(ctx context.Context) (model.Snapshot, error) {
	room, err := c.storage.GetRoom(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}

	players, err := c.storage.GetPlayers(ctx, room.ID)
	if err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{Room: *room, Players: players}, nil
}

// HostLogin verifies the shared host secret and marks the host present.
// A successful login opens the room for players.
func (c *Controller) HostLogin(ctx context.Context, password string) (*auth.Session, *model.Room, error) {
	session, err := c.auth.Login(password)
	if err != nil {
		return nil, nil, err
	}

	room, err := c.storage.GetRoom(ctx)
	if err != nil {
		return nil, nil, err
	}

	joined, active := true, true
	updated, err := c.storage.UpdateRoom(ctx, room.ID, model.RoomPatch{
		HostJoined: &joined,
		IsActive:   &active,
	})
	if err != nil {
		c.auth.RevokeSession(session.Token)
		return nil, nil, err
	}

	c.logger.Info("host joined", slog.String("room_id", string(updated.ID)))
	return session, updated, nil
}

// HostLogout resets the room: host absent, room closed, a fresh access
// code so the old one cannot admit players into the next session, and
// every player slot released.
func (c *Controller) HostLogout(ctx context.Context, token string) error {
	c.auth.RevokeSession(token)

	room, err := c.storage.GetRoom(ctx)
	if err != nil {
		return err
	}

	joined, active := false, false
	code := c.newAccessCode()
	updated, err := c.storage.UpdateRoom(ctx, room.ID, model.RoomPatch{
		HostJoined: &joined,
		IsActive:   &active,
		AccessCode: &code,
	})
	if err != nil {
		return err
	}

	if err := c.storage.DeleteAllPlayers(ctx, updated.ID); err != nil {
		return err
	}

	c.logger.Info("host left, room reset", slog.String("room_id", string(updated.ID)))
	return nil
}

// RegenerateCode draws a fresh access code. Codes are independent draws
// from the 4-hex-digit space and may repeat over time.
func (c *Controller) RegenerateCode(ctx context.Context) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx)
	if err != nil {
		return nil, err
	}

	code := c.newAccessCode()
	return c.storage.UpdateRoom(ctx, room.ID, model.RoomPatch{AccessCode: &code})
}

// SetActive toggles whether players may attempt to join
func (c *Controller) SetActive(ctx context.Context, active bool) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx)
	if err != nil {
		return nil, err
	}

	return c.storage.UpdateRoom(ctx, room.ID, model.RoomPatch{IsActive: &active})
}

// SetMaxPlayers updates the player cap. Values outside the recommended
// set are accepted - the store does not enforce the set either.
func (c *Controller) SetMaxPlayers(ctx context.Context, maxPlayers int) (*model.Room, error) {
	if maxPlayers < 1 {
		return nil, model.ErrInvalidCapacity
	}

	if !isRecommendedCapacity(maxPlayers) {
		c.logger.Warn("capacity outside recommended set", slog.Int("max_players", maxPlayers))
	}

	room, err := c.storage.GetRoom(ctx)
	if err != nil {
		return nil, err
	}

	return c.storage.UpdateRoom(ctx, room.ID, model.RoomPatch{MaxPlayers: &maxPlayers})
}

// VerifyCode checks a submitted access code against the room. A match
// while the room is at capacity reports ErrRoomFull so the caller can
// route the client to the full view rather than the name step.
func (c *Controller) VerifyCode(ctx context.Context, code string) error {
	snapshot, err := c.Snapshot(ctx)
	if err != nil {
		return err
	}

	if !snapshot.Room.HostJoined || !snapshot.Room.IsActive {
		return model.ErrRoomClosed
	}

	if !snapshot.Room.CodeMatches(code) {
		return model.ErrWrongCode
	}

	if snapshot.AtCapacity() {
		return model.ErrRoomFull
	}

	return nil
}

// Join claims a slot for a player. The capacity check here is a local
// pre-check: two concurrent joins can both pass it before either insert
// lands, and the resulting transient overshoot is an accepted race
// (backends that can express the guard in a single write enforce it
// server-side as well).
func (c *Controller) Join(ctx context.Context, code, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}

	snapshot, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if !snapshot.Room.HostJoined || !snapshot.Room.IsActive {
		return nil, model.ErrRoomClosed
	}

	if !snapshot.Room.CodeMatches(code) {
		return nil, model.ErrWrongCode
	}

	if snapshot.AtCapacity() {
		return nil, model.ErrRoomFull
	}

	player := &model.Player{
		ID:       model.PlayerID("p_" + uuid.NewString()),
		RoomID:   snapshot.Room.ID,
		Name:     name,
		JoinedAt: c.clock.Now(),
	}

	if err := c.storage.InsertPlayer(ctx, player); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("player_id", string(player.ID)),
		slog.Int("player_count", snapshot.PlayerCount()+1))
	return player, nil
}

func (c *Controller) newAccessCode() string {
	return c.random.Code(model.AccessCodeLength, model.AccessCodeAlphabet)
}

func isRecommendedCapacity(n int) bool {
	for _, v := range model.RecommendedCapacities {
		if v == n {
			return true
		}
	}
	return false
}

// ControllerInterface is the surface consumed by the transport layers
type ControllerInterface interface {
	Snapshot(ctx context.Context) (model.Snapshot, error)
	HostLogin(ctx context.Context, password string) (*auth.Session, *model.Room, error)
	HostLogout(ctx context.Context, token string) error
	RegenerateCode(ctx context.Context) (*model.Room, error)
	SetActive(ctx context.Context, active bool) (*model.Room, error)
	SetMaxPlayers(ctx context.Context, maxPlayers int) (*model.Room, error)
	VerifyCode(ctx context.Context, code string) error
	Join(ctx context.Context, code, name string) (*model.Player, error)
}

var _ ControllerInterface = (*Controller)(nil)
