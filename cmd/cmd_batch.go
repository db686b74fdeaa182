// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/aduamah/firefinder/stations"
	"github.com/aduamah/firefinder/utils/textutils"
)

var (
	batchRadiusM float64
	batchLimit   int
	batchOut     string
)

type batchOrigin struct {
	Label string
	Lat   float64
	Lng   float64
}

type batchResult struct {
	Label    string                   `json:"label,omitempty"`
	Lat      float64                  `json:"lat"`
	Lng      float64                  `json:"lng"`
	Stations []stations.RankedStation `json:"stations"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <origins.csv>",
	Short: "Run searches for every origin in a CSV file",
	Long: `
batch reads origins from a CSV file with one "lat,lng[,label]" row per line
and writes the ranked stations for each origin as a JSON array.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origins, err := readOrigins(args[0])
		if err != nil {
			return err
		}

		svc, err := newEngine(cmd)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(origins),
				progressbar.OptionSetDescription("Searching"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		var totals stations.SearchMetrics

		results := make([]batchResult, 0, len(origins))

		for _, origin := range origins {
			ranked, metrics := svc.FetchNearbyFireStationsWithMetrics(
				cmd.Context(), origin.Lat, origin.Lng, batchRadiusM, batchLimit, "")
			totals.Merge(&metrics)

			results = append(results, batchResult{
				Label:    origin.Label,
				Lat:      origin.Lat,
				Lng:      origin.Lng,
				Stations: ranked,
			})

			if bar != nil {
				_ = bar.Add(1)
			}
		}

		out := os.Stdout
		if batchOut != "" {
			f, err := os.Create(batchOut) // #nosec G304 - path is provided by the operator
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()

			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}

		log.Printf("batch done: %s origins, %s candidates from providers (%d failures), %d fallback",
			textutils.FormatInt(int64(len(origins))), textutils.FormatInt(int64(totals.ProviderCandidates)),
			totals.ProviderFailures, totals.ServiceAreaCandidates)

		return nil
	},
}

func readOrigins(path string) ([]batchOrigin, error) {
	f, err := os.Open(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("opening origins file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var origins []batchOrigin

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading origins file: %w", err)
		}

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected lat,lng[,label]", line)
		}

		lat, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude %q", line, record[0])
		}

		lng, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude %q", line, record[1])
		}

		origin := batchOrigin{Lat: lat, Lng: lng}
		if len(record) > 2 {
			origin.Label = record[2]
		}

		origins = append(origins, origin)
	}

	if len(origins) == 0 {
		return nil, fmt.Errorf("no origins in %s", path)
	}

	return origins, nil
}

func init() {
	batchCmd.Flags().Float64Var(&batchRadiusM, "radius-m", stations.DefaultRadiusMeters, "search radius in meters")
	batchCmd.Flags().IntVar(&batchLimit, "limit", stations.DefaultLimit, "maximum number of stations per origin")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "write results to a file instead of stdout")
	rootCmd.AddCommand(batchCmd)
}
