package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotProvisioned = errors.New("room record has not been provisioned")
	ErrRoomClosed         = errors.New("room is not open for joining")
	ErrRoomFull           = errors.New("room is full")

	// Join errors
	ErrWrongCode = errors.New("access code does not match")
	ErrEmptyName = errors.New("player name must not be empty")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Capacity errors
	ErrInvalidCapacity = errors.New("max players must be positive")
)
