// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aduamah/firefinder/spatial"
	"github.com/aduamah/firefinder/utils/textutils"
)

// ServiceStation is a curated station record inside a service area.
type ServiceStation struct {
	Name    string        `json:"name"`
	Address string        `json:"address"`
	Point   spatial.Point `json:"point"`
	Phone   string        `json:"phone,omitempty"`
}

// ServiceArea is a hand-curated geographic pocket with historically poor
// live-search coverage, together with the stations known to serve it.
type ServiceArea struct {
	Name            string              `json:"name"`
	Box             spatial.BoundingBox `json:"bounding_box"`
	Note            string              `json:"note"`
	ServingStations []ServiceStation    `json:"serving_stations"`
}

// ServiceAreaTable is the full curated coverage table.
type ServiceAreaTable struct {
	Areas []ServiceArea `json:"areas"`
}

// DefaultServiceAreas returns the built-in coverage table for pockets of
// Greater Accra where the live providers are known to return little or
// nothing.
func DefaultServiceAreas() *ServiceAreaTable {
	return &ServiceAreaTable{
		Areas: []ServiceArea{
			{
				Name: "Ashaiman / Tema Newtown",
				Box: spatial.BoundingBox{
					MinLat: 5.66, MaxLat: 5.73,
					MinLng: -0.05, MaxLng: 0.03,
				},
				Note: "Served from Tema; Ashaiman itself is poorly indexed by the search backends",
				ServingStations: []ServiceStation{
					{
						Name:    "Ashaiman Fire Station",
						Address: "Main Rd, Ashaiman",
						Point:   spatial.Point{Lat: 5.6956, Lng: -0.0367},
						Phone:   "+233302301925",
					},
					{
						Name:    "Tema Community 4 Fire Station",
						Address: "Community 4, Tema",
						Point:   spatial.Point{Lat: 5.6531, Lng: -0.0076},
						Phone:   "+233303202725",
					},
				},
			},
			{
				Name: "Weija-Gbawe",
				Box: spatial.BoundingBox{
					MinLat: 5.53, MaxLat: 5.61,
					MinLng: -0.37, MaxLng: -0.27,
				},
				Note: "Western fringe of Accra; covered by the Weija station and Korle Bu area stations",
				ServingStations: []ServiceStation{
					{
						Name:    "Weija Fire Station",
						Address: "Accra-Winneba Rd, Weija",
						Point:   spatial.Point{Lat: 5.5569, Lng: -0.3361},
						Phone:   "+233302850290",
					},
				},
			},
			{
				Name: "Madina-Adenta corridor",
				Box: spatial.BoundingBox{
					MinLat: 5.65, MaxLat: 5.75,
					MinLng: -0.20, MaxLng: -0.12,
				},
				Note: "Northeastern Accra; Madina station plus Adenta municipal coverage",
				ServingStations: []ServiceStation{
					{
						Name:    "Madina Fire Station",
						Address: "Madina Zongo Junction, Accra",
						Point:   spatial.Point{Lat: 5.6832, Lng: -0.1668},
						Phone:   "+233302520370",
					},
					{
						Name:    "Adenta Fire Station",
						Address: "Adenta Municipality, Accra",
						Point:   spatial.Point{Lat: 5.7090, Lng: -0.1540},
						Phone:   "+233302972218",
					},
				},
			},
		},
	}
}

// LoadServiceAreas reads a ServiceAreaTable from a JSON file.
func LoadServiceAreas(filepath string) (*ServiceAreaTable, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return nil, fmt.Errorf("reading service areas file: %w", err)
	}

	var table ServiceAreaTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing service areas JSON: %w", err)
	}

	return &table, nil
}

// StationsFor emits fallback candidates for every area whose bounding box
// contains the origin, skipping stations whose name already appears in the
// live candidate pool. Live results always win over fallback entries of the
// same name because the fallback is merged before deduplication.
func (t *ServiceAreaTable) StationsFor(origin spatial.Point, existing []Candidate, regions *RegionTable) []Candidate {
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[textutils.LowerASCIIFolding(existing[i].Name)] = true
	}

	var out []Candidate

	for _, area := range t.Areas {
		if !area.Box.Contains(origin) {
			continue
		}

		for _, st := range area.ServingStations {
			if seen[textutils.LowerASCIIFolding(st.Name)] {
				continue
			}

			if regions != nil && regions.HasExcludedWord(st.Name) {
				continue
			}

			out = append(out, Candidate{
				Name:                 st.Name,
				Address:              st.Address,
				Point:                st.Point,
				Phone:                st.Phone,
				StraightLineKm:       origin.HaversineKm(&st.Point),
				SourceStrategy:       "service_area_fallback",
				IsServiceAreaStation: true,
				ServiceNote:          area.Note,
			})
		}
	}

	return out
}
