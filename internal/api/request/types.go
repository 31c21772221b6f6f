package request

// HostLoginRequest is the request body for host login
type HostLoginRequest struct {
	Password string `json:"password"`
}

// SetActiveRequest is the request body for toggling the room open state
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// SetCapacityRequest is the request body for changing the player cap
type SetCapacityRequest struct {
	MaxPlayers int `json:"max_players"`
}

// JoinRequest is the request body for a player joining the room
type JoinRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
