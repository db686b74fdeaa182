// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package incidents persists reported fire incidents and aggregates them
// into H3 hotspot cells for dispatch planning.
package incidents

import (
	"fmt"
	"time"

	"github.com/aduamah/firefinder/spatial"
	"github.com/uber/h3-go/v4"
)

// Severity levels accepted for a report.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

// Incident categories accepted for a report.
const (
	CategoryStructure  = "structure_fire"
	CategoryVehicle    = "vehicle_fire"
	CategoryBush       = "bush_fire"
	CategoryElectrical = "electrical"
	CategoryChemical   = "chemical"
	CategoryRescue     = "rescue"
	CategoryOther      = "other"
)

// Lifecycle states of an incident.
const (
	StatusReported   = "reported"
	StatusDispatched = "dispatched"
	StatusContained  = "contained"
	StatusResolved   = "resolved"
	StatusFalseAlarm = "false_alarm"
)

// Incident is a reported fire event tied to a location.
type Incident struct {
	ID          int           `json:"id"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Severity    string        `json:"severity"`
	Status      string        `json:"status"`
	Point       spatial.Point `json:"point"`
	Region      string        `json:"region,omitempty"`
	// ReporterContact is an optional phone number or name for callbacks.
	ReporterContact string `json:"reporter_contact,omitempty"`
	// StationKey references the ranked station dispatched to the incident,
	// when one was.
	StationKey string    `json:"station_key,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	H3Res5     int64     `json:"-"`
	H3Res6     int64     `json:"-"`
	H3Res7     int64     `json:"-"`
	H3Res8     int64     `json:"-"`
}

// Hotspot aggregation resolutions. Res 5 cells are ~250 km², res 8 ~0.7 km².
const (
	MinHotspotResolution = 5
	MaxHotspotResolution = 8
)

func (inc *Incident) computeH3() error {
	latLng := h3.NewLatLng(inc.Point.Lat, inc.Point.Lng)

	for res := MinHotspotResolution; res <= MaxHotspotResolution; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
		}

		switch res {
		case 5:
			inc.H3Res5 = int64(cell)
		case 6:
			inc.H3Res6 = int64(cell)
		case 7:
			inc.H3Res7 = int64(cell)
		case 8:
			inc.H3Res8 = int64(cell)
		}
	}

	return nil
}

// Hotspot is one H3 cell with its incident count.
type Hotspot struct {
	Cell       string        `json:"cell"`
	Resolution int           `json:"resolution"`
	Center     spatial.Point `json:"center"`
	Count      int           `json:"count"`
}
