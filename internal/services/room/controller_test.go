package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/MCASE28/planb-tier/internal/dependencies/mocks"
	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/services/auth"
	"github.com/MCASE28/planb-tier/internal/storage/memory"
	"github.com/MCASE28/planb-tier/internal/testutil"
)

const testPassword = "1234"

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	auth       *auth.Service
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.Password = testPassword
	s.auth = auth.New(s.clock, authCfg, logger)

	s.controller = NewController(s.storage, s.auth, s.clock, s.random, logger)
	s.ctx = context.Background()

	s.provisionRoom(8)
}

func (s *ControllerSuite) provisionRoom(maxPlayers int) {
	err := s.storage.SaveRoom(s.ctx, &model.Room{
		ID:         "main",
		AccessCode: "AB12",
		IsActive:   false,
		MaxPlayers: maxPlayers,
		HostJoined: false,
		CreatedAt:  s.clock.Now(),
		UpdatedAt:  s.clock.Now(),
	})
	s.Require().NoError(err)
}

func (s *ControllerSuite) hostLogin() {
	_, _, err := s.controller.HostLogin(s.ctx, testPassword)
	s.Require().NoError(err)
}

// Snapshot tests

func (s *ControllerSuite) TestSnapshotReturnsRoomAndPlayers() {
	snap, err := s.controller.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.RoomID("main"), snap.Room.ID)
	s.Empty(snap.Players)
	s.Equal(0, snap.PlayerCount())
}

func (s *ControllerSuite) TestSnapshotFailsWithoutRoom() {
	controller := NewController(memory.New(), s.auth, s.clock, s.random, testutil.NopLogger())

	_, err := controller.Snapshot(s.ctx)
	s.ErrorIs(err, model.ErrRoomNotProvisioned)
}

// HostLogin tests

func (s *ControllerSuite) TestHostLoginOpensRoom() {
	session, room, err := s.controller.HostLogin(s.ctx, testPassword)
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.True(room.HostJoined)
	s.True(room.IsActive)
}

func (s *ControllerSuite) TestHostLoginWrongPassword() {
	_, _, err := s.controller.HostLogin(s.ctx, "wrong")
	s.ErrorIs(err, auth.ErrInvalidPassword)

	snap, _ := s.controller.Snapshot(s.ctx)
	s.False(snap.Room.HostJoined)
}

// HostLogout tests

func (s *ControllerSuite) TestHostLogoutResetsRoom() {
	session, _, err := s.controller.HostLogin(s.ctx, testPassword)
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "AB12", "alice")
	s.Require().NoError(err)

	s.random.QueueCode("9F3C")
	s.Require().NoError(s.controller.HostLogout(s.ctx, session.Token))

	snap, err := s.controller.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.False(snap.Room.HostJoined)
	s.False(snap.Room.IsActive)
	s.Equal("9F3C", snap.Room.AccessCode)
	s.Empty(snap.Players)

	// The session token no longer validates
	_, err = s.auth.ValidateSession(session.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)
}

// RegenerateCode tests

func (s *ControllerSuite) TestRegenerateCodeReflectsLatestDraw() {
	s.random.QueueCode("1111", "2222")

	room, err := s.controller.RegenerateCode(s.ctx)
	s.Require().NoError(err)
	s.Equal("1111", room.AccessCode)

	room, err = s.controller.RegenerateCode(s.ctx)
	s.Require().NoError(err)
	s.Equal("2222", room.AccessCode)
}

// SetActive tests

func (s *ControllerSuite) TestSetActiveToggleIsIdempotent() {
	room, err := s.controller.SetActive(s.ctx, true)
	s.Require().NoError(err)
	s.True(room.IsActive)

	room, err = s.controller.SetActive(s.ctx, true)
	s.Require().NoError(err)
	s.True(room.IsActive)

	room, err = s.controller.SetActive(s.ctx, false)
	s.Require().NoError(err)
	s.False(room.IsActive)
}

// SetMaxPlayers tests

func (s *ControllerSuite) TestSetMaxPlayers() {
	room, err := s.controller.SetMaxPlayers(s.ctx, 16)
	s.Require().NoError(err)
	s.Equal(16, room.MaxPlayers)
}

func (s *ControllerSuite) TestSetMaxPlayersRejectsNonPositive() {
	_, err := s.controller.SetMaxPlayers(s.ctx, 0)
	s.ErrorIs(err, model.ErrInvalidCapacity)

	_, err = s.controller.SetMaxPlayers(s.ctx, -3)
	s.ErrorIs(err, model.ErrInvalidCapacity)
}

func (s *ControllerSuite) TestSetMaxPlayersAcceptsNonRecommendedValues() {
	room, err := s.controller.SetMaxPlayers(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(7, room.MaxPlayers)
}

func (s *ControllerSuite) TestShrinkingCapacityKeepsExistingPlayers() {
	s.hostLogin()
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.controller.Join(s.ctx, "AB12", name)
		s.Require().NoError(err)
	}

	_, err := s.controller.SetMaxPlayers(s.ctx, 2)
	s.Require().NoError(err)

	snap, _ := s.controller.Snapshot(s.ctx)
	s.Len(snap.Players, 3)
	s.True(snap.AtCapacity())
}

// VerifyCode tests

func (s *ControllerSuite) TestVerifyCodeMatchesCaseInsensitively() {
	s.hostLogin()

	s.NoError(s.controller.VerifyCode(s.ctx, "AB12"))
	s.NoError(s.controller.VerifyCode(s.ctx, "ab12"))
	s.NoError(s.controller.VerifyCode(s.ctx, " Ab12 "))
}

func (s *ControllerSuite) TestVerifyCodeWrong() {
	s.hostLogin()

	s.ErrorIs(s.controller.VerifyCode(s.ctx, "FFFF"), model.ErrWrongCode)
}

func (s *ControllerSuite) TestVerifyCodeClosedRoom() {
	s.ErrorIs(s.controller.VerifyCode(s.ctx, "AB12"), model.ErrRoomClosed)

	s.hostLogin()
	_, err := s.controller.SetActive(s.ctx, false)
	s.Require().NoError(err)
	s.ErrorIs(s.controller.VerifyCode(s.ctx, "AB12"), model.ErrRoomClosed)
}

func (s *ControllerSuite) TestVerifyCodeFullRoom() {
	s.hostLogin()
	_, err := s.controller.SetMaxPlayers(s.ctx, 2)
	s.Require().NoError(err)

	for _, name := range []string{"alice", "bob"} {
		_, err := s.controller.Join(s.ctx, "AB12", name)
		s.Require().NoError(err)
	}

	s.ErrorIs(s.controller.VerifyCode(s.ctx, "AB12"), model.ErrRoomFull)
}

// Join tests

func (s *ControllerSuite) TestJoinSucceeds() {
	s.hostLogin()

	player, err := s.controller.Join(s.ctx, "ab12", "  alice  ")
	s.Require().NoError(err)

	s.Equal("alice", player.Name)
	s.Equal(model.RoomID("main"), player.RoomID)
	s.NotEmpty(player.ID)
	s.Equal(s.clock.Now(), player.JoinedAt)

	snap, _ := s.controller.Snapshot(s.ctx)
	s.Len(snap.Players, 1)
}

func (s *ControllerSuite) TestJoinEmptyName() {
	s.hostLogin()

	_, err := s.controller.Join(s.ctx, "AB12", "   ")
	s.ErrorIs(err, model.ErrEmptyName)
}

func (s *ControllerSuite) TestJoinWrongCode() {
	s.hostLogin()

	_, err := s.controller.Join(s.ctx, "0000", "alice")
	s.ErrorIs(err, model.ErrWrongCode)
}

func (s *ControllerSuite) TestJoinFullRoom() {
	s.hostLogin()
	_, err := s.controller.SetMaxPlayers(s.ctx, 1)
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "AB12", "alice")
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "AB12", "bob")
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *ControllerSuite) TestJoinClosedRoom() {
	_, err := s.controller.Join(s.ctx, "AB12", "alice")
	s.ErrorIs(err, model.ErrRoomClosed)
}

func (s *ControllerSuite) TestDuplicateNamesAllowed() {
	s.hostLogin()

	first, err := s.controller.Join(s.ctx, "AB12", "alice")
	s.Require().NoError(err)
	second, err := s.controller.Join(s.ctx, "AB12", "alice")
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
}
