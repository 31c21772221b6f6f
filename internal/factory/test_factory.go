package factory

import (
	"context"
	"time"

	"github.com/MCASE28/planb-tier/internal/dependencies/mocks"
	"github.com/MCASE28/planb-tier/internal/services/auth"
	"github.com/MCASE28/planb-tier/internal/storage/memory"
	"github.com/MCASE28/planb-tier/internal/testutil"
)

// TestHostPassword is the shared host secret used by test apps
const TestHostPassword = "1234"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked
// dependencies and an unprovisioned in-memory store
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.Password = TestHostPassword

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// ProvisionRoom creates the singleton room record with the given cap.
// The access code comes from the mock random queue, so queue one first
// for a deterministic code.
func (t *TestApp) ProvisionRoom(maxPlayers int) error {
	return t.EnsureRoom(context.Background(), maxPlayers)
}
