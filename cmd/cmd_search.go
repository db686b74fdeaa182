// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aduamah/firefinder/stations"
)

var (
	searchRadiusM float64
	searchLimit   int
	searchRegion  string
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <lat> <lng>",
	Short: "Find and rank the fire stations closest to a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: %w", args[0], err)
		}

		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: %w", args[1], err)
		}

		svc, err := newEngine(cmd)
		if err != nil {
			return err
		}

		result := svc.FetchNearbyFireStations(cmd.Context(), lat, lng, searchRadiusM, searchLimit, searchRegion)

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(result)
		}

		printStationTable(result)

		return nil
	},
}

func printStationTable(result []stations.RankedStation) {
	if len(result) == 0 {
		fmt.Println("No fire stations found.")

		return
	}

	a, b, c, d, e := strings.Repeat("─", 2), strings.Repeat("─", 36), strings.Repeat("─", 10), strings.Repeat("─", 12), strings.Repeat("─", 10)
	fmt.Printf("╭─%2s─┬─%-36s─┬─%-10s─┬─%-12s─┬─%-10s╮\n", a, b, c, d, e)
	fmt.Printf("│ %2s │ %-36s │ %-10s │ %-12s │ %-10s│\n", "#", "Station", "Distance", "Travel time", "Rank")
	fmt.Printf("├─%2s─┼─%-36s─┼─%-10s─┼─%-12s─┼─%-10s┤\n", a, b, c, d, e)

	for i, s := range result {
		name := s.Name
		if len(name) > 36 {
			name = name[:33] + "..."
		}

		fmt.Printf("│ %2d │ %-36s │ %-10s │ %-12s │ %-10s│\n",
			i+1, name, s.RouteDistanceText, s.TravelTimeText, s.ProximityRank)
	}

	fmt.Printf("╰─%2s─┴─%-36s─┴─%-10s─┴─%-12s─┴─%-10s╯\n", a, b, c, d, e)

	for i, s := range result {
		if s.Phone != "" {
			fmt.Printf("%2d. %s — %s\n", i+1, s.Name, s.Phone)
		}

		if s.IsServiceAreaStation && s.ServiceNote != "" {
			fmt.Printf("%2d. %s — %s\n", i+1, s.Name, s.ServiceNote)
		}
	}
}

func init() {
	searchCmd.Flags().Float64Var(&searchRadiusM, "radius-m", stations.DefaultRadiusMeters, "search radius in meters")
	searchCmd.Flags().IntVar(&searchLimit, "limit", stations.DefaultLimit, "maximum number of stations")
	searchCmd.Flags().StringVar(&searchRegion, "region", "", "restrict the search to one region")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(searchCmd)
}
