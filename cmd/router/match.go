package main

import (
	"encoding/json"
	"fmt"
	"os"

	"kuanb/gosm-mapmatch/geom"
	"kuanb/gosm-mapmatch/logging"
	"kuanb/gosm-mapmatch/routing"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

var tracePaths []string

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match GeoJSON traces against the road layer",
	Long: `Match GeoJSON traces against the road layer.

Each trace is written to stdout as one FeatureCollection per line, in the
order given. Several traces are matched concurrently.

Examples:
  router match --roads roads.geojson --trace trip.geojson
  router match -r roads.geojson -t a.geojson -t b.geojson`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringSliceVarP(&tracePaths, "trace", "t", nil, "GeoJSON trace file (repeatable)")
	if err := matchCmd.MarkFlagRequired("trace"); err != nil {
		panic(err)
	}
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	traces := make([][]orb.Point, 0, len(tracePaths))
	for _, path := range tracePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read trace: %w", err)
		}
		trace, err := geom.TraceFromGeoJSON(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		traces = append(traces, trace)
	}

	net, err := loadNetwork(cfg, logger)
	if err != nil {
		return err
	}

	results, err := routing.MatchAll(cmd.Context(), net, cfg.Matching, traces, routing.WithMatcherLogger(logger))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, res := range results {
		if err := enc.Encode(matchFeatures(net.Graph, res)); err != nil {
			return err
		}
	}
	return nil
}
