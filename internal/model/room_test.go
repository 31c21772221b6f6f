package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeMatches(t *testing.T) {
	room := Room{AccessCode: "AB12"}

	assert.True(t, room.CodeMatches("AB12"))
	assert.True(t, room.CodeMatches("ab12"))
	assert.True(t, room.CodeMatches("Ab12"))
	assert.True(t, room.CodeMatches("  ab12  "))
	assert.False(t, room.CodeMatches("AB13"))
	assert.False(t, room.CodeMatches(""))
	assert.False(t, room.CodeMatches("AB1"))
}

func TestRoomPatchApply(t *testing.T) {
	room := Room{
		ID:         "main",
		AccessCode: "AB12",
		IsActive:   true,
		MaxPlayers: 8,
		HostJoined: true,
	}

	code := "c0de"
	active := false
	patched := RoomPatch{AccessCode: &code, IsActive: &active}.Apply(room)

	// Codes are normalized to uppercase on write
	assert.Equal(t, "C0DE", patched.AccessCode)
	assert.False(t, patched.IsActive)
	// Unpatched fields carried over
	assert.Equal(t, 8, patched.MaxPlayers)
	assert.True(t, patched.HostJoined)
	// Original untouched
	assert.Equal(t, "AB12", room.AccessCode)
}

func TestRoomPatchIsEmpty(t *testing.T) {
	assert.True(t, RoomPatch{}.IsEmpty())

	joined := true
	assert.False(t, RoomPatch{HostJoined: &joined}.IsEmpty())
}

func TestSnapshotAtCapacity(t *testing.T) {
	players := func(n int) []Player {
		ps := make([]Player, n)
		return ps
	}

	assert.False(t, Snapshot{Room: Room{MaxPlayers: 2}, Players: players(1)}.AtCapacity())
	assert.True(t, Snapshot{Room: Room{MaxPlayers: 2}, Players: players(2)}.AtCapacity())
	// Overshoot from a lowered cap still reads as full
	assert.True(t, Snapshot{Room: Room{MaxPlayers: 2}, Players: players(3)}.AtCapacity())
	// Unset cap never reads as full
	assert.False(t, Snapshot{Room: Room{MaxPlayers: 0}, Players: players(5)}.AtCapacity())
}
