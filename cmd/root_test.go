package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcDevWorkspace/mathpad/internal/config"
)

// resetConfigState gives each test a first-run environment: a fresh temp
// working directory, a temp HOME, and cleared viper and flag state.
func resetConfigState(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	cfgFile = ""
	cfg = config.Config{}
}

// TestInitConfig_CreatesDefaultOnFirstRun verifies that a missing config
// file is written with the commented defaults and read back in.
func TestInitConfig_CreatesDefaultOnFirstRun(t *testing.T) {
	resetConfigState(t)

	initConfig()

	data, err := os.ReadFile(".mathpad/config.yaml")
	require.NoError(t, err, "first run should write the default config")
	assert.Equal(t, config.DefaultConfigTemplate(), string(data))

	assert.Equal(t, config.Defaults().TextCommands, cfg.TextCommands)
	assert.Equal(t, config.Defaults().IDScheme, cfg.IDScheme)
}

// TestInitConfig_KeepsExistingConfig verifies that a present project config
// is read as-is rather than overwritten with defaults.
func TestInitConfig_KeepsExistingConfig(t *testing.T) {
	resetConfigState(t)
	require.NoError(t, os.MkdirAll(".mathpad", 0o750))
	require.NoError(t, os.WriteFile(".mathpad/config.yaml", []byte("id_scheme: uuid\n"), 0o600))

	initConfig()

	assert.Equal(t, "uuid", cfg.IDScheme)
	data, err := os.ReadFile(".mathpad/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "id_scheme: uuid\n", string(data))
}

func TestFmtCheck_NonCanonicalReturnsError(t *testing.T) {
	resetConfigState(t)
	require.NoError(t, os.WriteFile("doc.tex", []byte("x ^ 2"), 0o600))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"fmt", "--check", "doc.tex"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not canonical")
}

func TestFmtCheck_CanonicalSucceeds(t *testing.T) {
	resetConfigState(t)
	require.NoError(t, os.WriteFile("doc.tex", []byte("x^2"), 0o600))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"fmt", "--check", "doc.tex"})

	require.NoError(t, rootCmd.Execute())
}
