package config

import (
	"path/filepath"
	"testing"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PEERASSIGN_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".peerassign", "peerassign.db"), cfg.DBPath)
	assert.Equal(t, 5, cfg.AssignmentsPerStudent)
	assert.Equal(t, 32, cfg.StallFactor)
	assert.Equal(t, "rejection", cfg.Strategy)
	assert.False(t, cfg.Log)
	assert.False(t, cfg.NoColor)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PEERASSIGN_DB", "/tmp/runs.db")
	t.Setenv("PEERASSIGN_K", "3")
	t.Setenv("PEERASSIGN_STALL_FACTOR", "8")
	t.Setenv("PEERASSIGN_STRATEGY", "flow")
	t.Setenv("PEERASSIGN_LOG", "true")
	t.Setenv("PEERASSIGN_NO_COLOR", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs.db", cfg.DBPath)
	assert.Equal(t, 3, cfg.AssignmentsPerStudent)
	assert.True(t, cfg.Log)
	assert.True(t, cfg.NoColor)

	assert.Equal(t, 8, cfg.StallFactor)
	assert.Equal(t, string(domain.StrategyFlow), cfg.Strategy)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		key, val, want string
	}{
		{"PEERASSIGN_K", "five", "parse env:"},
		{"PEERASSIGN_K", "0", "PEERASSIGN_K must be at least 1"},
		{"PEERASSIGN_STALL_FACTOR", "0", "PEERASSIGN_STALL_FACTOR"},
		{"PEERASSIGN_STRATEGY", "greedy", "not one of rejection, flow"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.val, func(t *testing.T) {
			t.Setenv("PEERASSIGN_DB", "/tmp/x.db")
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
