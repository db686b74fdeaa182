// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package stations implements the fire-station discovery and ranking
// engine: it aggregates candidates from several place-search backends,
// deduplicates them, augments them with routed travel distance and time,
// and returns a ranked, capped list.
package stations

import (
	"context"

	"github.com/aduamah/firefinder/spatial"
)

// Proximity rank labels, derived from the proximity score.
const (
	RankExcellent = "Excellent"
	RankVeryGood  = "Very Good"
	RankGood      = "Good"
	RankFair      = "Fair"
	RankDistant   = "Distant"
)

// Sentinel texts used when the routing backend could not be consulted.
const (
	// RouteUnavailableText marks stations whose matrix request failed.
	RouteUnavailableText = "Route unavailable"
	// NotAvailableText marks stations when no routing credential was configured.
	NotAvailableText = "N/A"
)

// Candidate is a station record produced by a provider, before
// deduplication and ranking.
type Candidate struct {
	ID      string        `json:"id,omitempty"`
	Name    string        `json:"name"`
	Address string        `json:"address"`
	Point   spatial.Point `json:"coordinates"`

	// PlaceID is the opaque provider key; primary dedup identity when present.
	PlaceID string `json:"place_id,omitempty"`

	Phone          string   `json:"phone,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	IsOpen         *bool    `json:"is_open,omitempty"`
	Website        string   `json:"website,omitempty"`
	PhotoReference string   `json:"photo_reference,omitempty"`

	// StraightLineKm is the haversine distance from the search origin,
	// computed at normalization time.
	StraightLineKm float64 `json:"straight_line_distance_km"`

	// SourceStrategy identifies the provider query that produced the
	// candidate. Diagnostic only.
	SourceStrategy string `json:"source_strategy,omitempty"`

	IsServiceAreaStation bool   `json:"is_service_area_station,omitempty"`
	ServiceNote          string `json:"service_note,omitempty"`

	// Key is a synthetic tracking key assigned after deduplication so list
	// consumers have a stable render identity. Not part of the domain
	// identity.
	Key string `json:"key,omitempty"`
}

// RankedStation is a fully processed, caller-facing station record.
type RankedStation struct {
	Candidate

	// RouteDistanceKm is the routed driving distance when routing
	// succeeded, otherwise equal to StraightLineKm.
	RouteDistanceKm float64 `json:"route_distance_km"`

	// TravelTimeMinutes is nil when routing was unavailable.
	TravelTimeMinutes *float64 `json:"travel_time_minutes"`

	RouteDistanceText string `json:"route_distance_text"`
	TravelTimeText    string `json:"travel_time_text"`

	// ProximityScore is in [0,100]; lower is closer.
	ProximityScore float64 `json:"proximity_score"`
	ProximityRank  string  `json:"proximity_rank"`
}

// Provider is a single candidate-search strategy against an external
// place-search backend. Implementations normalize heterogeneous responses
// into Candidates and must never panic; a returned error means the whole
// provider yielded nothing, and the orchestrator logs and ignores it so
// one bad provider never aborts the search.
type Provider interface {
	Name() string
	Search(ctx context.Context, origin spatial.Point, radiusKm float64, region string) ([]Candidate, error)
}

// PhoneDirectory is a best-effort contact lookup used by phone enrichment.
type PhoneDirectory interface {
	// PhoneForPlace returns the phone number for a place identifier, or an
	// empty string when the backend has none.
	PhoneForPlace(ctx context.Context, placeID string) (string, error)

	// FindPlaceID searches by free-text name and returns the top result's
	// place identifier and name.
	FindPlaceID(ctx context.Context, name string) (placeID, matchedName string, err error)
}

// RouteLeg is a single origin→destination cell of a routing matrix.
type RouteLeg struct {
	DistanceKm  float64
	DurationMin float64

	// OK is false when the destination is unreachable by road.
	OK bool
}

// Router obtains driving distance and time from one origin to a batch of
// destinations.
type Router interface {
	// Available reports whether the router has a credential to work with.
	Available() bool

	// Matrix returns one leg per destination, in destination order.
	Matrix(ctx context.Context, origin spatial.Point, dests []spatial.Point) ([]RouteLeg, error)
}
