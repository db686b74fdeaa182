// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aduamah/firefinder/stations"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "firefinder",
	Short: "fire station discovery and ranking for Ghana",
	Long: `
firefinder locates the fire stations closest to a point, ranks them by a
blend of travel time and road distance, and keeps a log of reported
incidents for hotspot analysis.
`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		_ = godotenv.Load() // ignore missing file
	},
}

var (
	regionsFile      string
	serviceAreasFile string
	httpTrace        bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&regionsFile, "regions-file", "", "JSON file overriding the built-in region table")
	rootCmd.PersistentFlags().StringVar(&serviceAreasFile, "service-areas-file", "", "JSON file overriding the built-in service area table")
	rootCmd.PersistentFlags().BoolVar(&httpTrace, "trace", false, "dump backend HTTP traffic to stderr")
}

// newEngine builds the search service from the environment and the shared
// flags.
func newEngine(cmd *cobra.Command) (*stations.Service, error) {
	cfg := stations.Config{
		GoogleAPIKey:    stations.ResolveGoogleAPIKey(cmd.Context()),
		GeoapifyAPIKey:  os.Getenv("GEOAPIFY_API_KEY"),
		MapboxToken:     os.Getenv("MAPBOX_ACCESS_TOKEN"),
		UserAgent:       fmt.Sprintf("firefinder/%s (+https://github.com/aduamah/firefinder)", Version),
		EnableHTTPTrace: httpTrace,
	}

	if regionsFile != "" {
		table, err := stations.LoadRegionTable(regionsFile)
		if err != nil {
			return nil, fmt.Errorf("loading regions: %w", err)
		}

		cfg.Regions = table
	}

	if serviceAreasFile != "" {
		table, err := stations.LoadServiceAreas(serviceAreasFile)
		if err != nil {
			return nil, fmt.Errorf("loading service areas: %w", err)
		}

		cfg.ServiceAreas = table
	}

	return stations.NewService(cfg), nil
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
