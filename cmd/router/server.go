package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"kuanb/gosm-mapmatch/geom"
	"kuanb/gosm-mapmatch/logging"
	"kuanb/gosm-mapmatch/roads"
	"kuanb/gosm-mapmatch/routing"

	"github.com/paulmach/orb/geojson"
)

// Server holds the shared road network for handling requests
type Server struct {
	net      *routing.Network
	params   routing.Params
	logger   *logging.Logger
	requests atomic.Uint64
}

// NewServer creates a server matching against net.
func NewServer(net *routing.Network, params routing.Params, logger *logging.Logger) *Server {
	return &Server{net: net, params: params, logger: logger}
}

// Routes registers the HTTP endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/match", s.handleMatch)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Metrics endpoint
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics := getRuntimeMetrics()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metrics)
	})
	return mux
}

// RuntimeMetrics holds memory and goroutine statistics
type RuntimeMetrics struct {
	Goroutines   int     `json:"goroutines"`
	AllocMB      float64 `json:"alloc_mb"`       // currently allocated heap
	TotalAllocMB float64 `json:"total_alloc_mb"` // cumulative allocated (includes freed)
	SysMB        float64 `json:"sys_mb"`         // total memory from OS
	HeapAllocMB  float64 `json:"heap_alloc_mb"`
	HeapObjects  uint64  `json:"heap_objects"`
	NumGC        uint32  `json:"num_gc"`
}

func getRuntimeMetrics() RuntimeMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	const mb = 1024 * 1024
	return RuntimeMetrics{
		Goroutines:   runtime.NumGoroutine(),
		AllocMB:      float64(m.Alloc) / mb,
		TotalAllocMB: float64(m.TotalAlloc) / mb,
		SysMB:        float64(m.Sys) / mb,
		HeapAllocMB:  float64(m.HeapAlloc) / mb,
		HeapObjects:  m.HeapObjects,
		NumGC:        m.NumGC,
	}
}

// startMetricsLogger logs runtime metrics every interval until ctx is done.
func startMetricsLogger(ctx context.Context, logger *logging.Logger, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m := getRuntimeMetrics()
				logger.Info("metrics",
					"goroutines", m.Goroutines,
					"alloc_mb", m.AllocMB,
					"sys_mb", m.SysMB,
					"heap_objects", m.HeapObjects,
					"gc_cycles", m.NumGC,
				)
			}
		}
	}()
}

// randomColor generates a random hex color string
func randomColor() string {
	const letters = "0123456789ABCDEF"
	b := make([]byte, 7)
	b[0] = '#'
	for i := 1; i < 7; i++ {
		b[i] = letters[rand.Intn(16)]
	}
	return string(b)
}

// handleMatch matches a GeoJSON trace and returns the matched roads
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	trace, err := geom.TraceFromGeoJSON(body)
	if err != nil {
		http.Error(w, "Invalid GeoJSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	logger := s.logger.WithTrace(fmt.Sprintf("req-%d", s.requests.Add(1)))
	logger.Info("processing match request", "coordinates", len(trace))

	m, err := routing.NewMatcher(s.net, s.params, routing.WithMatcherLogger(logger))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	res, err := m.Match(r.Context(), trace)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(matchFeatures(s.net.Graph, res)); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// matchFeatures renders the matched path as a FeatureCollection carrying the
// match confidence.
func matchFeatures(g *roads.Graph, res routing.MatchResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, id := range res.Path {
		r, ok := g.Road(id)
		if !ok {
			continue
		}
		f := roads.ToFeature(r)
		f.Properties["matched"] = true
		f.Properties["order"] = i
		f.Properties["stroke"] = randomColor()
		fc.Append(f)
	}
	fc.ExtraMembers = geojson.Properties{
		"confidence": res.Confidence,
		"skipped":    res.Skipped,
	}
	return fc
}
