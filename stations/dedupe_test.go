// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"testing"

	"github.com/aduamah/firefinder/spatial"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestDedupeByPlaceID(t *testing.T) {
	first := Candidate{
		Name:    "Accra Central Fire Station",
		Address: "Ministries, Accra",
		PlaceID: "gp-1",
		Point:   spatial.Point{Lat: 5.6037, Lng: -0.1870},
		Phone:   "+233302772446",
	}
	duplicate := Candidate{
		Name:    "GNFS Accra Central",
		PlaceID: "gp-1",
		Point:   spatial.Point{Lat: 5.6038, Lng: -0.1871},
	}
	other := Candidate{
		Name:    "Madina Fire Station",
		PlaceID: "gp-2",
		Point:   spatial.Point{Lat: 5.6832, Lng: -0.1668},
	}

	out := Dedupe([]Candidate{first, duplicate, other})

	// 3 candidates, 2 sharing a place id: 3 - 2 + 1 survivors.
	assert.Len(t, out, 2)

	// First occurrence wins and keeps all of its fields.
	diff := cmp.Diff(first, out[0], cmpopts.IgnoreFields(Candidate{}, "Key"))
	assert.Empty(t, diff)
	assert.Equal(t, "Madina Fire Station", out[1].Name)
}

func TestDedupeFallbackKeys(t *testing.T) {
	withID := Candidate{Name: "Tema Fire Station", ID: "geo-7", Point: spatial.Point{Lat: 5.66, Lng: -0.01}}
	sameID := Candidate{Name: "Tema Main", ID: "geo-7", Point: spatial.Point{Lat: 5.67, Lng: -0.02}}
	noIDs := Candidate{Name: "Ashaiman Fire Station", Point: spatial.Point{Lat: 5.6956, Lng: -0.0367}}
	noIDsAgain := Candidate{Name: "Ashaiman Fire Station", Point: spatial.Point{Lat: 5.6956, Lng: -0.0367}}

	out := Dedupe([]Candidate{withID, sameID, noIDs, noIDsAgain})

	assert.Len(t, out, 2)
	assert.Equal(t, "Tema Fire Station", out[0].Name)
	assert.Equal(t, "Ashaiman Fire Station", out[1].Name)
}

// One provider supplies a place id and another doesn't for the same
// physical station: the rounded-coordinate check still collapses them.
func TestDedupeSecondaryProximityCheck(t *testing.T) {
	google := Candidate{
		Name:    "Weija Fire Station",
		PlaceID: "gp-9",
		Point:   spatial.Point{Lat: 5.55691, Lng: -0.33612},
	}
	geoapify := Candidate{
		Name:  "weija fire station",
		ID:    "geo-3",
		Point: spatial.Point{Lat: 5.55694, Lng: -0.33608}, // same to 4 decimals
	}

	out := Dedupe([]Candidate{google, geoapify})

	assert.Len(t, out, 1)
	assert.Equal(t, "gp-9", out[0].PlaceID)
}

func TestDedupeAssignsTrackingKeys(t *testing.T) {
	out := Dedupe([]Candidate{
		{Name: "A", PlaceID: "1", Point: spatial.Point{Lat: 5.1, Lng: -0.1}},
		{Name: "B", PlaceID: "2", Point: spatial.Point{Lat: 5.2, Lng: -0.2}},
	})

	assert.Len(t, out, 2)
	assert.NotEmpty(t, out[0].Key)
	assert.NotEmpty(t, out[1].Key)
	assert.NotEqual(t, out[0].Key, out[1].Key)
}

func TestDedupeEmptyInput(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}
