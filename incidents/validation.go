// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package incidents

import (
	"errors"
	"fmt"
	"strings"
)

var validSeverities = map[string]bool{
	SeverityMinor:    true,
	SeverityModerate: true,
	SeverityMajor:    true,
	SeverityCritical: true,
}

var validCategories = map[string]bool{
	CategoryStructure:  true,
	CategoryVehicle:    true,
	CategoryBush:       true,
	CategoryElectrical: true,
	CategoryChemical:   true,
	CategoryRescue:     true,
	CategoryOther:      true,
}

var validStatuses = map[string]bool{
	StatusReported:   true,
	StatusDispatched: true,
	StatusContained:  true,
	StatusResolved:   true,
	StatusFalseAlarm: true,
}

// validateCoordinates checks global bounds plus the Ghana envelope.
func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got: %f)", lat)
	}

	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got: %f)", lng)
	}

	// Ghana spans roughly 4.7°N to 11.2°N and 3.3°W to 1.2°E; a ~0.5
	// degree margin absorbs GPS imprecision near the borders.
	const (
		ghanaMinLat = 4.2
		ghanaMaxLat = 11.7
		ghanaMinLng = -3.8
		ghanaMaxLng = 1.7
	)

	if lat < ghanaMinLat || lat > ghanaMaxLat {
		return fmt.Errorf("latitude outside Ghana bounds (%f to %f): %f", ghanaMinLat, ghanaMaxLat, lat)
	}

	if lng < ghanaMinLng || lng > ghanaMaxLng {
		return fmt.Errorf("longitude outside Ghana bounds (%f to %f): %f", ghanaMinLng, ghanaMaxLng, lng)
	}

	return nil
}

func validateIncident(inc *Incident) error {
	if inc == nil {
		return errors.New("incident can't be nil")
	}

	if strings.TrimSpace(inc.Description) == "" {
		return errors.New("description can't be empty")
	}

	if len(inc.Description) > 1000 {
		return errors.New("description too long (1000 characters max)")
	}

	if err := validateCoordinates(inc.Point.Lat, inc.Point.Lng); err != nil {
		return fmt.Errorf("invalid coordinates: %w", err)
	}

	if !validCategories[inc.Category] {
		return fmt.Errorf("invalid category: %s", inc.Category)
	}

	if !validSeverities[inc.Severity] {
		return fmt.Errorf("invalid severity: %s", inc.Severity)
	}

	if inc.Status != "" && !validStatuses[inc.Status] {
		return fmt.Errorf("invalid status: %s", inc.Status)
	}

	if len(inc.Region) > 100 {
		return errors.New("region too long (100 characters max)")
	}

	if len(inc.ReporterContact) > 100 {
		return errors.New("reporter contact too long (100 characters max)")
	}

	return nil
}
