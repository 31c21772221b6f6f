package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/services/room"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// noticeBufferSize bounds undelivered notices; they are transient and
// dismissible, so overflow drops the oldest behavior of "tell the user"
const noticeBufferSize = 8

// NoticeLevel classifies a transient notification
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient, dismissible message surfaced to the user. Store
// failures become notices, never fatal errors.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Session reconciles inbound change notifications into the phase machine
// for one connected client, and issues writes when the local user acts.
// All coordination with other clients happens through the store's change
// feed; there is no cross-session shared memory.
type Session struct {
	controller room.ControllerInterface
	store      storage.Store
	logger     *slog.Logger

	mu        sync.RWMutex
	phase     Phase
	snapshot  model.Snapshot
	hasRoom   bool
	code      string // access code accepted at the code step
	hostToken string

	notices chan Notice

	roomSub   storage.Subscription
	playerSub storage.Subscription
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Session in the Loading phase
func New(controller room.ControllerInterface, store storage.Store, logger *slog.Logger) *Session {
	return &Session{
		controller: controller,
		store:      store,
		logger:     logger.With(slog.String("component", "session")),
		phase:      PhaseLoading,
		notices:    make(chan Notice, noticeBufferSize),
		done:       make(chan struct{}),
	}
}

// Start fetches the initial snapshot, opens both change subscriptions and
// begins reconciling. A missing room record is logged and leaves the
// session in Loading until a snapshot arrives; it does not fail Start.
func (s *Session) Start(ctx context.Context) error {
	roomSub, err := s.store.Subscribe(ctx, storage.TableRooms)
	if err != nil {
		return err
	}

	playerSub, err := s.store.Subscribe(ctx, storage.TablePlayers)
	if err != nil {
		roomSub.Close()
		return err
	}

	s.roomSub = roomSub
	s.playerSub = playerSub

	snap, err := s.controller.Snapshot(ctx)
	switch {
	case errors.Is(err, model.ErrRoomNotProvisioned):
		s.logger.Error("room record missing - waiting for provisioning")
	case err != nil:
		s.notify(NoticeError, "could not load room state")
		s.logger.Warn("initial snapshot failed", slog.String("error", err.Error()))
	default:
		s.applySnapshot(snap)
	}

	go s.loop(ctx)
	return nil
}

// loop reconciles feed events until the session is closed. Events are
// at-least-once and unordered, so every event re-derives from a full
// snapshot: room events carry the row, player events trigger a re-fetch.
func (s *Session) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-s.roomSub.Events():
			if !ok {
				return
			}
			if event.Room != nil {
				s.applyRoom(*event.Room)
			}

		case _, ok := <-s.playerSub.Events():
			if !ok {
				return
			}
			s.refreshPlayers(ctx)

		case <-s.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

// Close releases both subscriptions and stops reconciliation
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.roomSub != nil {
			s.roomSub.Close()
		}
		if s.playerSub != nil {
			s.playerSub.Close()
		}
	})
}

// Phase returns the client's current phase
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Snapshot returns the latest known snapshot
func (s *Session) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Notices delivers transient user notifications
func (s *Session) Notices() <-chan Notice {
	return s.notices
}

// Local actions. Each issues one write through the controller; failures
// surface as notices and leave the phase unchanged.

// SubmitHostPassword attempts host login. Success commits the session to
// the host dashboard.
func (s *Session) SubmitHostPassword(ctx context.Context, password string) {
	hostSession, _, err := s.controller.HostLogin(ctx, password)
	if err != nil {
		s.notify(NoticeError, "wrong password")
		return
	}

	s.mu.Lock()
	s.hostToken = hostSession.Token
	s.phase = PhaseHostDashboard
	s.mu.Unlock()
}

// SubmitCode checks the access code. A match advances to the name step;
// a match against a full room routes to Full instead.
func (s *Session) SubmitCode(ctx context.Context, code string) {
	err := s.controller.VerifyCode(ctx, code)
	switch {
	case err == nil:
		s.mu.Lock()
		s.code = code
		s.phase = PhaseEntryName
		s.mu.Unlock()

	case errors.Is(err, model.ErrRoomFull):
		s.mu.Lock()
		s.phase = PhaseFull
		s.mu.Unlock()

	case errors.Is(err, model.ErrWrongCode):
		s.notify(NoticeError, "wrong code")

	default:
		s.notify(NoticeError, "could not verify code")
	}
}

// SubmitName attempts to claim a slot. Success commits the session to
// the lobby.
func (s *Session) SubmitName(ctx context.Context, name string) {
	s.mu.RLock()
	code := s.code
	s.mu.RUnlock()

	_, err := s.controller.Join(ctx, code, name)
	switch {
	case err == nil:
		s.mu.Lock()
		s.phase = PhaseLobby
		s.mu.Unlock()
		s.notify(NoticeInfo, "joined")

	case errors.Is(err, model.ErrRoomFull):
		s.mu.Lock()
		s.phase = PhaseFull
		s.mu.Unlock()

	case errors.Is(err, model.ErrEmptyName):
		s.notify(NoticeError, "name must not be empty")

	default:
		s.notify(NoticeError, "could not join")
	}
}

// HostRegenerateCode draws a fresh access code
func (s *Session) HostRegenerateCode(ctx context.Context) {
	if _, err := s.controller.RegenerateCode(ctx); err != nil {
		s.notify(NoticeError, "could not regenerate code")
		return
	}
	s.notify(NoticeInfo, "code regenerated")
}

// HostSetActive toggles the room open or closed
func (s *Session) HostSetActive(ctx context.Context, active bool) {
	if _, err := s.controller.SetActive(ctx, active); err != nil {
		s.notify(NoticeError, "could not update room")
	}
}

// HostSetCapacity updates the player cap
func (s *Session) HostSetCapacity(ctx context.Context, maxPlayers int) {
	if _, err := s.controller.SetMaxPlayers(ctx, maxPlayers); err != nil {
		s.notify(NoticeError, "could not update capacity")
	}
}

// HostLogout resets the room and returns this session to the login view
func (s *Session) HostLogout(ctx context.Context) {
	s.mu.RLock()
	token := s.hostToken
	s.mu.RUnlock()

	if err := s.controller.HostLogout(ctx, token); err != nil {
		s.notify(NoticeError, "could not reset room")
		return
	}

	s.mu.Lock()
	s.hostToken = ""
	s.phase = PhaseHostLogin
	s.mu.Unlock()
}

// Internal state application

func (s *Session) applySnapshot(snap model.Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.hasRoom = true
	s.phase = Advance(s.phase, s.snapshot)
	s.mu.Unlock()
}

// applyRoom merges an inbound room row; the event carries the full
// updated record
func (s *Session) applyRoom(room model.Room) {
	s.mu.Lock()
	s.snapshot.Room = room
	s.hasRoom = true
	s.phase = Advance(s.phase, s.snapshot)
	s.mu.Unlock()
}

// refreshPlayers re-fetches the full player list; player change events
// carry no payload worth applying incrementally
func (s *Session) refreshPlayers(ctx context.Context) {
	s.mu.RLock()
	hasRoom := s.hasRoom
	roomID := s.snapshot.Room.ID
	s.mu.RUnlock()

	if !hasRoom {
		return
	}

	players, err := s.store.GetPlayers(ctx, roomID)
	if err != nil {
		s.logger.Warn("player refresh failed", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.snapshot.Players = players
	s.phase = Advance(s.phase, s.snapshot)
	s.mu.Unlock()
}

func (s *Session) notify(level NoticeLevel, message string) {
	select {
	case s.notices <- Notice{Level: level, Message: message}:
	default:
		// Nobody is draining notices; they are transient by contract
	}
}
