package main

import (
	"fmt"
	"os"

	"kuanb/gosm-mapmatch/config"
	"kuanb/gosm-mapmatch/logging"
	"kuanb/gosm-mapmatch/roads"
	"kuanb/gosm-mapmatch/routing"

	"github.com/spf13/cobra"
)

var (
	configPath string
	roadsPath  string
)

var rootCmd = &cobra.Command{
	Use:   "router",
	Short: "gosm-mapmatch - HMM map matching of GPS traces",
	Long: `Matches GPS traces to a road network with a streaming Viterbi decoder.

Roads are read from a GeoJSON FeatureCollection of LineString features
carrying id, start and end properties.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults when empty)")
	rootCmd.PersistentFlags().StringVarP(&roadsPath, "roads", "r", "./data/roads.geojson", "GeoJSON road layer")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, or returns the defaults.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// loadNetwork reads the road layer and builds the configured index.
func loadNetwork(cfg config.Config, logger *logging.Logger) (*routing.Network, error) {
	logger.Info("loading roads", "path", roadsPath)
	data, err := os.ReadFile(roadsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read road layer: %w", err)
	}
	g, err := roads.FromGeoJSON(data)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded graph", "nodes", len(g.Nodes()), "roads", g.Len())

	net, err := routing.NewNetwork(g, cfg.Matching, routing.WithIndex(cfg.Index))
	if err != nil {
		return nil, err
	}
	logger.Info("indexed roads", "index", cfg.Index)
	return net, nil
}
