// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubDirectory struct {
	phones     map[string]string // placeID -> phone
	matches    map[string]string // query name -> placeID
	matchNames map[string]string // query name -> matched name
	lookups    int
	searches   int
	err        error
}

func (d *stubDirectory) PhoneForPlace(_ context.Context, placeID string) (string, error) {
	d.lookups++

	if d.err != nil {
		return "", d.err
	}

	return d.phones[placeID], nil
}

func (d *stubDirectory) FindPlaceID(_ context.Context, name string) (string, string, error) {
	d.searches++

	if d.err != nil {
		return "", "", d.err
	}

	id, ok := d.matches[name]
	if !ok {
		return "", "", errors.New("no match")
	}

	return id, d.matchNames[name], nil
}

func TestEnrichPhonesPreservesExisting(t *testing.T) {
	dir := &stubDirectory{}
	stations := []RankedStation{
		{Candidate: Candidate{Name: "Tema Fire Station", Phone: "+233303202725", PlaceID: "gp-1"}},
	}

	out := enrichPhones(context.Background(), dir, stations, noSleep)

	assert.Equal(t, "+233303202725", out[0].Phone)
	assert.Zero(t, dir.lookups, "a present phone must not cost a lookup")
}

func TestEnrichPhonesByPlaceID(t *testing.T) {
	dir := &stubDirectory{phones: map[string]string{"gp-1": "+233302520370"}}
	stations := []RankedStation{
		{Candidate: Candidate{Name: "Madina Fire Station", PlaceID: "gp-1"}},
	}

	out := enrichPhones(context.Background(), dir, stations, noSleep)

	assert.Equal(t, "+233302520370", out[0].Phone)
	assert.Equal(t, 1, dir.lookups)
	assert.Zero(t, dir.searches)
}

func TestEnrichPhonesTextSearchFallback(t *testing.T) {
	dir := &stubDirectory{
		phones:     map[string]string{"gp-2": "+233302850290"},
		matches:    map[string]string{"Weija Fire Station": "gp-2"},
		matchNames: map[string]string{"Weija Fire Station": "Weija Fire Station (GNFS)"},
	}
	stations := []RankedStation{
		{Candidate: Candidate{Name: "Weija Fire Station"}}, // no place id at all
	}

	out := enrichPhones(context.Background(), dir, stations, noSleep)

	assert.Equal(t, "+233302850290", out[0].Phone)
	assert.Equal(t, 1, dir.searches)
}

// The text search takes the top hit blindly, so a result whose name shares
// no token with the station is rejected.
func TestEnrichPhonesRejectsUnrelatedMatch(t *testing.T) {
	dir := &stubDirectory{
		phones:     map[string]string{"gp-x": "+233000000000"},
		matches:    map[string]string{"Weija Fire Station": "gp-x"},
		matchNames: map[string]string{"Weija Fire Station": "Kumasi Fire Service"},
	}
	stations := []RankedStation{
		{Candidate: Candidate{Name: "Weija Fire Station"}},
	}

	out := enrichPhones(context.Background(), dir, stations, noSleep)

	assert.Empty(t, out[0].Phone)
}

func TestEnrichPhonesNeverFails(t *testing.T) {
	dir := &stubDirectory{err: errors.New("backend down")}
	stations := []RankedStation{
		{Candidate: Candidate{Name: "Osu Fire Station", PlaceID: "gp-3"}},
	}

	out := enrichPhones(context.Background(), dir, stations, noSleep)

	assert.Empty(t, out[0].Phone)
}

func TestEnrichPhonesNilDirectory(t *testing.T) {
	stations := []RankedStation{{Candidate: Candidate{Name: "Osu Fire Station"}}}

	out := enrichPhones(context.Background(), nil, stations, noSleep)

	assert.Len(t, out, 1)
}

func TestNamesOverlap(t *testing.T) {
	assert.True(t, namesOverlap("Weija Fire Station", "Weija Fire Station (GNFS)"))
	assert.True(t, namesOverlap("Madina Fire Station", "GNFS Madina"))
	// Only generic tokens in common.
	assert.False(t, namesOverlap("Weija Fire Station", "Kumasi Fire Service"))
	assert.False(t, namesOverlap("Fire Station", "Fire Service"))
}
