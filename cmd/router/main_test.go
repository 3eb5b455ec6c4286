package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	roadsFile := writeFile(t, dir, "roads.geojson", testRoads)
	traceFile := writeFile(t, dir, "trace.geojson", testTrace)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	// --trace is required; this run must come before one that sets it
	rootCmd.SetArgs([]string{"match", "--roads", roadsFile})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"trace"`)

	out.Reset()
	rootCmd.SetArgs([]string{"match", "--roads", roadsFile, "--trace", traceFile, "--trace", traceFile})
	require.NoError(t, rootCmd.Execute())

	dec := json.NewDecoder(&out)
	for i := 0; i < 2; i++ {
		var fc geojson.FeatureCollection
		require.NoError(t, dec.Decode(&fc), "trace %d", i)
		require.Len(t, fc.Features, 2)
		assert.Equal(t, "r1", fc.Features[0].Properties["id"])
		assert.Equal(t, "r2", fc.Features[1].Properties["id"])
	}
	assert.False(t, dec.More())
}
