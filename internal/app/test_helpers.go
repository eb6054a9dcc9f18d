package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/testutil"
	"github.com/stretchr/testify/require"
)

// SetupAppTest creates a new app instance for system testing with debug
// logging captured in the returned buffer.
func SetupAppTest(t *testing.T, cfg *Config, modules ...backend.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	testApp, err := NewApp(logBuffer, cfg, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("PSCHEMA_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
