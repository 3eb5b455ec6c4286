package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kuanb/gosm-mapmatch/logging"
	"kuanb/gosm-mapmatch/roads"
	"kuanb/gosm-mapmatch/routing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoads = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"id":"r1","start":"A","end":"B"},"geometry":{"type":"LineString","coordinates":[[0,0],[0.001,0]]}},
{"type":"Feature","properties":{"id":"r2","start":"B","end":"C"},"geometry":{"type":"LineString","coordinates":[[0.001,0],[0.002,0]]}}
]}`

const testTrace = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[0.0002,0.00001],[0.0008,0.00001],[0.0012,0.00001],[0.0018,0.00001]]}}
]}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	g, err := roads.FromGeoJSON([]byte(testRoads))
	require.NoError(t, err)
	params := routing.DefaultParams()
	net, err := routing.NewNetwork(g, params)
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(net, params, logging.Noop()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleMatch(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/match", "application/json", strings.NewReader(testTrace))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fc geojson.FeatureCollection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "r1", fc.Features[0].Properties["id"])
	assert.Equal(t, "r2", fc.Features[1].Properties["id"])
	assert.Equal(t, true, fc.Features[0].Properties["matched"])
	assert.Contains(t, fc.ExtraMembers, "confidence")
}

func TestHandleMatch_BadRequests(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/match")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	for _, body := range []string{"not json", `{"type":"FeatureCollection","features":[]}`} {
		resp, err := http.Post(srv.URL+"/match", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var m RuntimeMetrics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Positive(t, m.Goroutines)
}

func TestRandomColor(t *testing.T) {
	c := randomColor()
	assert.Len(t, c, 7)
	assert.Equal(t, byte('#'), c[0])
}
