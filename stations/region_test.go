// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aduamah/firefinder/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInCountry(t *testing.T) {
	table := DefaultRegionTable()

	in := Candidate{Name: "Kumasi Metropolitan Fire Station", Address: "Asokwa, Kumasi"}
	out := Candidate{Name: "Central Fire Station", Address: "Lagos Island, Nigeria"}

	assert.True(t, table.IsInCountry(&in))
	assert.False(t, table.IsInCountry(&out))
}

func TestIsInRegion(t *testing.T) {
	table := DefaultRegionTable()

	madina := Candidate{Name: "Madina Fire Station", Address: "Madina Zongo Junction, Accra"}
	kumasi := Candidate{Name: "Suame Fire Station", Address: "Suame Magazine, Kumasi"}

	assert.True(t, table.IsInRegion(&madina, "Greater Accra"))
	assert.False(t, table.IsInRegion(&kumasi, "Greater Accra"))
	assert.True(t, table.IsInRegion(&kumasi, "Ashanti"))

	// Empty and unrecognized region names do not filter.
	assert.True(t, table.IsInRegion(&kumasi, ""))
	assert.True(t, table.IsInRegion(&kumasi, "Atlantis"))
}

func TestAcceptForSearchCapitalMetroNarrowing(t *testing.T) {
	table := DefaultRegionTable()
	accraOrigin := spatial.Point{Lat: 5.6037, Lng: -0.1870}
	kumasiOrigin := spatial.Point{Lat: 6.6885, Lng: -1.6244}

	osu := Candidate{Name: "Osu Fire Station", Address: "Osu, Accra"}
	tema := Candidate{Name: "Tema Community 4 Fire Station", Address: "Community 4, Tema"}
	kumasi := Candidate{Name: "Kumasi City Fire Station", Address: "Adum, Kumasi, Ghana"}

	// Origin inside the capital metro: only capital/port matches survive.
	assert.True(t, table.AcceptForSearch(accraOrigin, "", &osu))
	assert.True(t, table.AcceptForSearch(accraOrigin, "", &tema))
	assert.False(t, table.AcceptForSearch(accraOrigin, "", &kumasi))

	// Origin elsewhere: no narrowing.
	assert.True(t, table.AcceptForSearch(kumasiOrigin, "", &kumasi))
}

func TestLooksLikeFireStation(t *testing.T) {
	table := DefaultRegionTable()

	tests := []struct {
		name    string
		address string
		tags    []string
		want    bool
	}{
		{"Accra City Fire Station", "Accra", nil, true},
		{"GNFS Regional Headquarters", "Kumasi", nil, true},
		{"Some Place", "Tema", []string{"establishment", "fire_station"}, true},
		{"Joy FM Radio Station", "Accra", nil, false},
		{"Fire TV Broadcast Studio", "Accra", nil, false},
		{"Goil Filling Station", "Accra", nil, false},
		{"Tasty Restaurant", "Osu", []string{"restaurant"}, false},
		{"Random Office", "Accra", nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table.LooksLikeFireStation(tt.name, tt.address, tt.tags), tt.name)
	}
}

func TestHasExcludedWord(t *testing.T) {
	table := DefaultRegionTable()

	assert.True(t, table.HasExcludedWord("Metro Television Station"))
	assert.True(t, table.HasExcludedWord("Shell Filling Station, Spintex"))
	assert.False(t, table.HasExcludedWord("Teshie Fire Station"))
}

func TestLoadRegionTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.json")
	data := `{
		"country": ["Testland", "Pörtville"],
		"regions": {"Côte Region": ["pörtville", "harbor town"]},
		"capital_metro": {"min_lat": 1, "max_lat": 2, "min_lng": 1, "max_lng": 2},
		"capital_keywords": ["Capital City"],
		"port_keywords": ["harbor"],
		"exclusions": ["radio"],
		"fire_keywords": ["fire station"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	table, err := LoadRegionTable(path)
	require.NoError(t, err)

	// Keywords and region names are folded on load.
	c := Candidate{Name: "Portville Fire Station", Address: "PORTVILLE, Testland"}
	assert.True(t, table.IsInCountry(&c))
	assert.True(t, table.IsInRegion(&c, "côte region"))
	assert.True(t, table.IsInRegion(&c, "Côte Region"))
}

func TestLoadRegionTableErrors(t *testing.T) {
	_, err := LoadRegionTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err = LoadRegionTable(path)
	assert.Error(t, err)
}
