package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	mini, err := miniredis.Run()
	s.Require().NoError(err)
	s.mini = mini

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	_ = s.storage.Close()
	s.mini.Close()
}

func (s *StorageSuite) room() *model.Room {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Room{
		ID:         "main",
		AccessCode: "AB12",
		IsActive:   true,
		MaxPlayers: 8,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *StorageSuite) TestGetRoomBeforeProvisioning() {
	_, err := s.storage.GetRoom(s.ctx)
	s.ErrorIs(err, model.ErrRoomNotProvisioned)
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room()))

	got, err := s.storage.GetRoom(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoomID("main"), got.ID)
	s.Equal("AB12", got.AccessCode)
	s.True(got.IsActive)
}

func (s *StorageSuite) TestUpdateRoomAppliesPatch() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room()))

	joined := true
	code := "c0de"
	updated, err := s.storage.UpdateRoom(s.ctx, "main", model.RoomPatch{
		HostJoined: &joined,
		AccessCode: &code,
	})
	s.Require().NoError(err)

	s.True(updated.HostJoined)
	s.Equal("C0DE", updated.AccessCode)

	// Persisted, not just returned
	got, err := s.storage.GetRoom(s.ctx)
	s.Require().NoError(err)
	s.Equal("C0DE", got.AccessCode)
}

func (s *StorageSuite) TestUpdateUnknownRoom() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room()))

	active := false
	_, err := s.storage.UpdateRoom(s.ctx, "other", model.RoomPatch{IsActive: &active})
	s.ErrorIs(err, model.ErrRoomNotProvisioned)
}

func (s *StorageSuite) TestPlayersRoundTripInJoinOrder() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of join order; the hash has no ordering of its own
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, &model.Player{
		ID: "p2", RoomID: "main", Name: "bob", JoinedAt: base.Add(time.Minute),
	}))
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, &model.Player{
		ID: "p1", RoomID: "main", Name: "alice", JoinedAt: base,
	}))

	players, err := s.storage.GetPlayers(s.ctx, "main")
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("alice", players[0].Name)
	s.Equal("bob", players[1].Name)
}

func (s *StorageSuite) TestDeleteAllPlayers() {
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, &model.Player{ID: "p1", RoomID: "main"}))

	s.Require().NoError(s.storage.DeleteAllPlayers(s.ctx, "main"))

	players, err := s.storage.GetPlayers(s.ctx, "main")
	s.Require().NoError(err)
	s.Empty(players)
}

// Change feed tests

func (s *StorageSuite) TestRoomFeedCarriesTheRow() {
	sub, err := s.storage.Subscribe(s.ctx, storage.TableRooms)
	s.Require().NoError(err)
	defer sub.Close()

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room()))

	select {
	case event := <-sub.Events():
		s.Equal(storage.TableRooms, event.Table)
		s.Require().NotNil(event.Room)
		s.Equal("AB12", event.Room.AccessCode)
	case <-time.After(time.Second):
		s.Fail("no room event received")
	}
}

func (s *StorageSuite) TestPlayersFeedIsBareSignal() {
	sub, err := s.storage.Subscribe(s.ctx, storage.TablePlayers)
	s.Require().NoError(err)
	defer sub.Close()

	s.Require().NoError(s.storage.InsertPlayer(s.ctx, &model.Player{ID: "p1", RoomID: "main"}))

	select {
	case event := <-sub.Events():
		s.Equal(storage.TablePlayers, event.Table)
		s.Nil(event.Room)
	case <-time.After(time.Second):
		s.Fail("no player event received")
	}
}

func (s *StorageSuite) TestFeedIsCrossInstance() {
	// A second storage instance on the same Redis sees the first one's
	// writes through the feed
	other := NewWithClient(goredis.NewClient(&goredis.Options{Addr: s.mini.Addr()}), DefaultConfig())
	defer func() { _ = other.Close() }()

	sub, err := other.Subscribe(s.ctx, storage.TableRooms)
	s.Require().NoError(err)
	defer sub.Close()

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room()))

	select {
	case event := <-sub.Events():
		s.Require().NotNil(event.Room)
		s.Equal(model.RoomID("main"), event.Room.ID)
	case <-time.After(time.Second):
		s.Fail("no cross-instance event received")
	}
}

func (s *StorageSuite) TestCloseStopsFeed() {
	sub, err := s.storage.Subscribe(s.ctx, storage.TableRooms)
	s.Require().NoError(err)

	sub.Close()

	select {
	case _, ok := <-sub.Events():
		s.False(ok)
	case <-time.After(time.Second):
		s.Fail("events channel did not close")
	}
}
