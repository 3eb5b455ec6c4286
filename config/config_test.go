package config

import (
	"os"
	"path/filepath"
	"testing"

	"kuanb/gosm-mapmatch/routing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "router.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, routing.DefaultParams(), cfg.Matching)
	assert.Equal(t, routing.IndexGrid, cfg.Index)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
matching:
  sigma: 10
  history_depth: 8
index: rtree
log:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Matching.Sigma)
	assert.Equal(t, 8, cfg.Matching.HistoryDepth)
	assert.Equal(t, routing.DefaultParams().Beta, cfg.Matching.Beta)
	assert.Equal(t, routing.IndexRTree, cfg.Index)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "matching: [1, 2"},
		{"negative sigma", "matching:\n  sigma: -1\n"},
		{"zero history", "matching:\n  history_depth: 0\n"},
		{"unknown index", "index: quadtree\n"},
		{"empty addr", "server:\n  addr: \"\"\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate_WrapsParamsError(t *testing.T) {
	cfg := Default()
	cfg.Matching.Beta = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, routing.ErrInvalidParams)
}
