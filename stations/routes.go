// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aduamah/firefinder/spatial"
)

// matrixBatchSize is the destination cap per matrix request: the API takes
// 25 coordinates per call and the origin occupies one slot.
const matrixBatchSize = 24

// matrixBatchDelay is the fixed pause between successive matrix batches.
const matrixBatchDelay = 200 * time.Millisecond

// augmentWithRoutes batches the candidates through the routing matrix and
// attaches routed distance and travel time. Every failure mode degrades to
// the straight-line fallback for the affected stations:
//
//   - no routing credential: the whole call is skipped, text "N/A"
//   - batch-level error: the batch falls back, text "Route unavailable"
//   - null matrix cell: that station falls back, text "Route unavailable"
func augmentWithRoutes(ctx context.Context, router Router, origin spatial.Point, candidates []Candidate, sleep func(time.Duration)) []RankedStation {
	out := make([]RankedStation, len(candidates))
	for i := range candidates {
		out[i] = RankedStation{Candidate: candidates[i]}
	}

	if router == nil || !router.Available() {
		for i := range out {
			fallbackRoute(&out[i], NotAvailableText)
		}

		return out
	}

	for start := 0; start < len(out); start += matrixBatchSize {
		if start > 0 {
			sleep(matrixBatchDelay)
		}

		end := start + matrixBatchSize
		if end > len(out) {
			end = len(out)
		}

		batch := out[start:end]

		dests := make([]spatial.Point, len(batch))
		for i := range batch {
			dests[i] = batch[i].Point
		}

		legs, err := router.Matrix(ctx, origin, dests)
		if err != nil {
			log.Printf("routing matrix batch %d-%d: %v", start, end, err)

			for i := range batch {
				fallbackRoute(&batch[i], RouteUnavailableText)
			}

			continue
		}

		for i := range batch {
			if i >= len(legs) || !legs[i].OK {
				fallbackRoute(&batch[i], RouteUnavailableText)

				continue
			}

			minutes := legs[i].DurationMin
			batch[i].RouteDistanceKm = legs[i].DistanceKm
			batch[i].TravelTimeMinutes = &minutes
			batch[i].RouteDistanceText = formatKm(legs[i].DistanceKm)
			batch[i].TravelTimeText = formatMinutes(minutes)
		}
	}

	return out
}

// fallbackRoute degrades a station to straight-line distance with the given
// unavailable-time sentinel.
func fallbackRoute(s *RankedStation, timeText string) {
	s.RouteDistanceKm = s.StraightLineKm
	s.TravelTimeMinutes = nil
	s.RouteDistanceText = formatKm(s.StraightLineKm)
	s.TravelTimeText = timeText
}

func formatKm(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0f m", km*1000)
	}

	return fmt.Sprintf("%.1f km", km)
}

func formatMinutes(minutes float64) string {
	if minutes >= 60 {
		h := int(minutes) / 60
		m := int(minutes) % 60

		return fmt.Sprintf("%d h %d min", h, m)
	}

	return fmt.Sprintf("%.0f min", minutes)
}
