package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MCASE28/planb-tier/internal/model"
)

func TestEnsureRoomProvisionsOnce(t *testing.T) {
	app := NewTestApp()
	app.MockRandom.QueueCode("AB12")

	require.NoError(t, app.ProvisionRoom(8))

	room, err := app.Store.GetRoom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultRoomID, room.ID)
	assert.Equal(t, "AB12", room.AccessCode)
	assert.Equal(t, 8, room.MaxPlayers)
	assert.False(t, room.IsActive)
	assert.False(t, room.HostJoined)

	// A second call leaves the existing record untouched
	app.MockRandom.QueueCode("FFFF")
	require.NoError(t, app.ProvisionRoom(2))

	room, err = app.Store.GetRoom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AB12", room.AccessCode)
	assert.Equal(t, 8, room.MaxPlayers)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: "bogus"})
	assert.Error(t, err)
}

func TestNewRequiresBackendConfig(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{StorageType: StorageTypePostgres})
	assert.Error(t, err)
}

func TestNewMemoryProvisionsRoom(t *testing.T) {
	app, err := New(context.Background(), Config{})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	room, err := app.Store.GetRoom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPlayers, room.MaxPlayers)
	assert.Len(t, room.AccessCode, model.AccessCodeLength)
}
