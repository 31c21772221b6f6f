package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case Snapshot:
		o.printSnapshot(v)
	case HostLoginResult:
		o.printHostLoginResult(v)
	case JoinResult:
		o.printJoinResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	ID         string `json:"id"`
	AccessCode string `json:"access_code,omitempty"`
	IsActive   bool   `json:"is_active"`
	MaxPlayers int    `json:"max_players"`
	HostJoined bool   `json:"host_joined"`
}

// Player response type
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// Snapshot response type
type Snapshot struct {
	Room        Room     `json:"room"`
	Players     []Player `json:"players"`
	PlayerCount int      `json:"player_count"`
}

// HostLoginResult response type
type HostLoginResult struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Room         Room      `json:"room"`
}

// JoinResult response type
type JoinResult struct {
	Player Player `json:"player"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.ID)
	if r.AccessCode != "" {
		fmt.Printf("Access Code: %s\n", r.AccessCode)
	}
	fmt.Printf("Active: %s\n", yesNo(r.IsActive))
	fmt.Printf("Host Present: %s\n", yesNo(r.HostJoined))
	fmt.Printf("Max Players: %d\n", r.MaxPlayers)
}

func (o *Output) printSnapshot(s Snapshot) {
	o.printRoom(s.Room)
	fmt.Printf("Players (%d/%d):\n", s.PlayerCount, s.Room.MaxPlayers)
	for _, p := range s.Players {
		fmt.Printf("  - %s (%s)\n", p.Name, p.ID)
	}
}

func (o *Output) printHostLoginResult(l HostLoginResult) {
	fmt.Println("Logged in as host")
	o.printRoom(l.Room)
	fmt.Printf("Token: %s\n", l.SessionToken)
	fmt.Printf("Expires: %s\n", l.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined as %s (%s)\n", j.Player.Name, j.Player.ID)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
