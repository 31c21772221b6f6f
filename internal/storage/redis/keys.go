package redis

import (
	"fmt"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// Key prefix for all room-related data
const keyPrefix = "planb"

// roomKey returns the Redis key for the singleton room record
func roomKey() string {
	return fmt.Sprintf("%s:room", keyPrefix)
}

// playersKey returns the Redis key for the hash of players in a room
func playersKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:players:%s", keyPrefix, roomID)
}

// feedChannel returns the pub/sub channel carrying change events for a table
func feedChannel(table storage.Table) string {
	return fmt.Sprintf("%s:feed:%s", keyPrefix, table)
}
