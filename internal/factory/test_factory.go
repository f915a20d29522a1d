package factory

import (
	"time"

	"github.com/mcoot/humanorbot/internal/dependencies/mocks"
	"github.com/mcoot/humanorbot/internal/storage/memory"
	"github.com/mcoot/humanorbot/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig is NewTestApp with factory configuration applied
func NewTestAppWithConfig(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	if cfg.Logger == nil {
		cfg.Logger = testutil.NopLogger()
	}

	app := newWithDependencies(store, mockClock, mockRandom, cfg, cfg.Logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
