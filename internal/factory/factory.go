package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/MCASE28/planb-tier/internal/dependencies/clock"
	"github.com/MCASE28/planb-tier/internal/dependencies/random"
	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/services/auth"
	"github.com/MCASE28/planb-tier/internal/services/room"
	"github.com/MCASE28/planb-tier/internal/sse"
	"github.com/MCASE28/planb-tier/internal/storage"
	"github.com/MCASE28/planb-tier/internal/storage/memory"
	pgstorage "github.com/MCASE28/planb-tier/internal/storage/postgres"
	redisstorage "github.com/MCASE28/planb-tier/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// DefaultRoomID is the identifier of the singleton room record
const DefaultRoomID = model.RoomID("main")

// DefaultMaxPlayers is the initial player cap for a freshly provisioned room
const DefaultMaxPlayers = 8

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService    *auth.Service
	RoomController *room.Controller
	Hub            *sse.Hub
	Broadcaster    *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseURL is the Postgres connection string (required if StorageType is "postgres")
	DatabaseURL string
	// DefaultMaxPlayers overrides the initial player cap when provisioning
	// the room record. If zero, DefaultMaxPlayers is used.
	DefaultMaxPlayers int
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DatabaseURL required when StorageType is postgres")
		}
		pgStore, err := pgstorage.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, cfg.AuthConfig, logger)

	maxPlayers := cfg.DefaultMaxPlayers
	if maxPlayers == 0 {
		maxPlayers = DefaultMaxPlayers
	}
	if err := app.EnsureRoom(ctx, maxPlayers); err != nil {
		_ = store.Close()
		return nil, err
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(clk, authCfg, logger)
	roomController := room.NewController(store, authService, clk, rnd, logger)
	hub := sse.NewHub(logger)
	broadcaster := sse.NewBroadcaster(hub, store, logger)

	return &App{
		Store:          store,
		Clock:          clk,
		Random:         rnd,
		AuthService:    authService,
		RoomController: roomController,
		Hub:            hub,
		Broadcaster:    broadcaster,
	}
}

// EnsureRoom provisions the singleton room record if it does not exist.
// An existing record is left untouched so state survives restarts.
func (a *App) EnsureRoom(ctx context.Context, maxPlayers int) error {
	_, err := a.Store.GetRoom(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrRoomNotProvisioned) {
		return err
	}

	now := a.Clock.Now()
	return a.Store.SaveRoom(ctx, &model.Room{
		ID:         DefaultRoomID,
		AccessCode: a.Random.Code(model.AccessCodeLength, model.AccessCodeAlphabet),
		IsActive:   false,
		MaxPlayers: maxPlayers,
		HostJoined: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Close releases resources held by the application
func (a *App) Close() error {
	a.Hub.Close()
	return a.Store.Close()
}
