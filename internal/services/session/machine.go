package session

import "github.com/MCASE28/planb-tier/internal/model"

// Phase is what one connected client should currently see, derived from
// the latest known snapshot plus local-only progress.
type Phase string

const (
	PhaseLoading       Phase = "loading"
	PhaseHostLogin     Phase = "host_login"
	PhaseEntryCode     Phase = "entry_code"
	PhaseEntryName     Phase = "entry_name"
	PhaseLobby         Phase = "lobby"
	PhaseFull          Phase = "full"
	PhaseHostDashboard Phase = "host_dashboard"
)

// Committed reports whether the client has locally committed to a view
// that inbound snapshots must not override. Once a client has reached the
// lobby or the host dashboard, later snapshots never force it back to the
// entry flow, even if the underlying room flags would suggest it.
func (p Phase) Committed() bool {
	return p == PhaseLobby || p == PhaseHostDashboard
}

// Advance re-derives the phase from a freshly received snapshot. It is a
// pure function: local-only transitions (login success, code accepted,
// join confirmed, logout) are applied by the Session, not here.
func Advance(current Phase, snap model.Snapshot) Phase {
	if current.Committed() {
		return current
	}

	if !snap.Room.HostJoined {
		return PhaseHostLogin
	}

	if snap.AtCapacity() {
		return PhaseFull
	}

	// Host present and a slot free. A client partway through the entry
	// flow keeps its progress; everyone else lands at the code step.
	if current == PhaseEntryName {
		return PhaseEntryName
	}
	return PhaseEntryCode
}
