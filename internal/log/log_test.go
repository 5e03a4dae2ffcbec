package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The global logger initializes once per process, so a single test walks
// through init, level filtering, and the enable toggle in order.
func TestLogger_LeveledWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	SetEnabled(true)
	SetMinLevel(LevelInfo)

	Debug(CatParse, "below threshold")
	Info(CatParse, "parsed", "nodes", 3)
	Warn(CatConfig, "unknown key", "key", "colour")
	Error(CatWatcher, "watch failed")
	ErrorErr(CatEdit, "edit rejected", errors.New("bad span"))

	SetEnabled(false)
	Info(CatUI, "suppressed while disabled")
	SetEnabled(true)

	SetMinLevel(LevelDebug)
	Debug(CatUI, "visible at debug")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "below threshold")
	assert.NotContains(t, out, "suppressed while disabled")
	assert.Contains(t, out, "[INFO] [parse] parsed nodes=3")
	assert.Contains(t, out, "[WARN] [config] unknown key key=colour")
	assert.Contains(t, out, "[ERROR] [watcher] watch failed")
	assert.Contains(t, out, "[ERROR] [edit] edit rejected error=bad span")
	assert.Contains(t, out, "[DEBUG] [ui] visible at debug")
}
