package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadConfigFrom(t *testing.T) {
	t.Parallel()

	t.Run("loads all files with engine defaults", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "version = 1\n[access]\nadmins = [\"root\"]\n")
		writeFile(t, dir, "api.toml", "version = 1\n[server]\nport = 9000\n")
		writeFile(t, dir, "worker.toml", "version = 1\n[sweep]\ninterval = 30\n")

		cfg, used, err := config.LoadConfigFrom([]string{filepath.Join(dir, "missing"), dir})
		require.NoError(t, err)
		assert.Equal(t, dir, used)
		assert.Equal(t, []string{"root"}, cfg.Common.Access.Admins)
		assert.Equal(t, 9000, cfg.API.Server.Port)
		assert.Equal(t, 30, cfg.Worker.Sweep.Interval)

		mode, err := cfg.Common.Engine.Mode()
		require.NoError(t, err)
		assert.Equal(t, enum.ActivationModeExplicit, mode)
		assert.InDelta(t, 0.8, cfg.Common.Engine.ActivationThreshold, 1e-9)
		assert.Equal(t, 3, cfg.Common.Engine.ChallengeQuorum)
		assert.Equal(t, 336, cfg.Common.Engine.PledgeExpiryHours)
	})

	t.Run("engine overrides", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "version = 1\n[engine]\nactivation_mode = \"threshold\"\nchallenge_quorum = 5\n")
		writeFile(t, dir, "api.toml", "version = 1\n")
		writeFile(t, dir, "worker.toml", "version = 1\n")

		cfg, _, err := config.LoadConfigFrom([]string{dir})
		require.NoError(t, err)

		mode, err := cfg.Common.Engine.Mode()
		require.NoError(t, err)
		assert.Equal(t, enum.ActivationModeThreshold, mode)
		assert.Equal(t, 5, cfg.Common.Engine.ChallengeQuorum)
		assert.Equal(t, 24, cfg.Common.Engine.AuditWindowHours)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "version = 1\n")

		_, _, err := config.LoadConfigFrom([]string{dir})
		require.ErrorIs(t, err, config.ErrConfigFileNotFound)
	})

	t.Run("version mismatch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "version = 1\n")
		writeFile(t, dir, "api.toml", "version = 2\n")
		writeFile(t, dir, "worker.toml", "version = 1\n")

		_, _, err := config.LoadConfigFrom([]string{dir})
		require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
	})

	t.Run("version missing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "[debug]\nlog_level = \"info\"\n")
		writeFile(t, dir, "api.toml", "version = 1\n")
		writeFile(t, dir, "worker.toml", "version = 1\n")

		_, _, err := config.LoadConfigFrom([]string{dir})
		require.ErrorIs(t, err, config.ErrConfigVersionMissing)
	})

	t.Run("invalid activation mode", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "version = 1\n[engine]\nactivation_mode = \"sometimes\"\n")
		writeFile(t, dir, "api.toml", "version = 1\n")
		writeFile(t, dir, "worker.toml", "version = 1\n")

		_, _, err := config.LoadConfigFrom([]string{dir})
		require.ErrorIs(t, err, config.ErrInvalidEngineConfig)
	})
}
