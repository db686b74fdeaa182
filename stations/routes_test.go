// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aduamah/firefinder/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRouter struct {
	available bool
	err       error
	legs      func(dests []spatial.Point) []RouteLeg
	calls     int
}

func (r *stubRouter) Available() bool { return r.available }

func (r *stubRouter) Matrix(_ context.Context, _ spatial.Point, dests []spatial.Point) ([]RouteLeg, error) {
	r.calls++

	if r.err != nil {
		return nil, r.err
	}

	return r.legs(dests), nil
}

func noSleep(time.Duration) {}

func testCandidates(n int) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{
			Name:           "Station",
			Point:          spatial.Point{Lat: 5.6 + float64(i)*0.001, Lng: -0.19},
			StraightLineKm: float64(i + 1),
		}
	}

	return out
}

func TestAugmentWithoutRouter(t *testing.T) {
	origin := spatial.Point{Lat: 5.6, Lng: -0.19}

	out := augmentWithRoutes(context.Background(), NewMapboxRouter("", nil), origin, testCandidates(3), noSleep)

	require.Len(t, out, 3)

	for _, s := range out {
		assert.Equal(t, s.StraightLineKm, s.RouteDistanceKm)
		assert.Nil(t, s.TravelTimeMinutes)
		assert.Equal(t, NotAvailableText, s.TravelTimeText)
	}
}

func TestAugmentBatchFailure(t *testing.T) {
	router := &stubRouter{available: true, err: errors.New("boom")}

	out := augmentWithRoutes(context.Background(), router, spatial.Point{Lat: 5.6, Lng: -0.19}, testCandidates(2), noSleep)

	require.Len(t, out, 2)

	for _, s := range out {
		assert.Equal(t, s.StraightLineKm, s.RouteDistanceKm)
		assert.Nil(t, s.TravelTimeMinutes)
		assert.Equal(t, RouteUnavailableText, s.TravelTimeText)
	}
}

func TestAugmentMixedCells(t *testing.T) {
	router := &stubRouter{
		available: true,
		legs: func(dests []spatial.Point) []RouteLeg {
			legs := make([]RouteLeg, len(dests))
			for i := range legs {
				legs[i] = RouteLeg{DistanceKm: 4.2, DurationMin: 9, OK: i != 1}
			}

			return legs
		},
	}

	out := augmentWithRoutes(context.Background(), router, spatial.Point{Lat: 5.6, Lng: -0.19}, testCandidates(3), noSleep)

	require.Len(t, out, 3)

	assert.InDelta(t, 4.2, out[0].RouteDistanceKm, 1e-9)
	require.NotNil(t, out[0].TravelTimeMinutes)
	assert.InDelta(t, 9.0, *out[0].TravelTimeMinutes, 1e-9)
	assert.Equal(t, "4.2 km", out[0].RouteDistanceText)
	assert.Equal(t, "9 min", out[0].TravelTimeText)

	// Unreachable cell falls back.
	assert.Equal(t, out[1].StraightLineKm, out[1].RouteDistanceKm)
	assert.Equal(t, RouteUnavailableText, out[1].TravelTimeText)
}

func TestAugmentBatches(t *testing.T) {
	router := &stubRouter{
		available: true,
		legs: func(dests []spatial.Point) []RouteLeg {
			legs := make([]RouteLeg, len(dests))
			for i := range legs {
				legs[i] = RouteLeg{DistanceKm: 1, DurationMin: 2, OK: true}
			}

			return legs
		},
	}

	out := augmentWithRoutes(context.Background(), router, spatial.Point{Lat: 5.6, Lng: -0.19}, testCandidates(60), noSleep)

	assert.Len(t, out, 60)
	assert.Equal(t, 3, router.calls) // 24 + 24 + 12
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "450 m", formatKm(0.45))
	assert.Equal(t, "3.2 km", formatKm(3.2))
	assert.Equal(t, "45 min", formatMinutes(45))
	assert.Equal(t, "1 h 15 min", formatMinutes(75))
}
