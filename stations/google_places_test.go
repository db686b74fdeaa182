// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aduamah/firefinder/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoogleProvider(t *testing.T, handler http.HandlerFunc) *GooglePlacesProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewGooglePlacesProvider("test-key", DefaultRegionTable(), srv.Client())
	p.baseURL = srv.URL
	p.sleep = noSleep

	return p
}

func TestGooglePlacesSearchNormalizes(t *testing.T) {
	var queries []string

	p := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/textsearch/json", r.URL.Path)
		queries = append(queries, r.URL.Query().Get("query"))

		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{
					"name": "Madina Fire Station",
					"formatted_address": "Madina Zongo Junction, Accra, Ghana",
					"geometry": {"location": {"lat": 5.6832, "lng": -0.1668}},
					"place_id": "gp-madina",
					"rating": 4.2,
					"opening_hours": {"open_now": true},
					"photos": [{"photo_reference": "ph-1"}],
					"types": ["fire_station", "point_of_interest"]
				},
				{
					"name": "Peace FM Radio Station",
					"formatted_address": "Accra, Ghana",
					"geometry": {"location": {"lat": 5.60, "lng": -0.22}},
					"place_id": "gp-radio",
					"types": ["point_of_interest"]
				}
			]
		}`))
	})

	origin := spatial.Point{Lat: 5.6037, Lng: -0.1870}

	out, err := p.Search(context.Background(), origin, 20, "")
	require.NoError(t, err)

	// The radio station is excluded; the fire station repeats once per
	// query variant and gets collapsed later by the deduplicator.
	assert.Len(t, queries, 3)
	require.NotEmpty(t, out)

	c := out[0]
	assert.Equal(t, "Madina Fire Station", c.Name)
	assert.Equal(t, "gp-madina", c.PlaceID)
	require.NotNil(t, c.Rating)
	assert.InDelta(t, 4.2, *c.Rating, 1e-9)
	require.NotNil(t, c.IsOpen)
	assert.True(t, *c.IsOpen)
	assert.Equal(t, "ph-1", c.PhotoReference)
	assert.Greater(t, c.StraightLineKm, 0.0)
	assert.Contains(t, c.SourceStrategy, "google_places:")

	for _, c := range out {
		assert.NotContains(t, c.Name, "Radio")
	}
}

func TestGooglePlacesRegionVariants(t *testing.T) {
	var queries []string

	p := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := p.Search(context.Background(), spatial.Point{Lat: 6.68, Lng: -1.62}, 20, "Ashanti")
	require.NoError(t, err)

	assert.Len(t, queries, 5)
	assert.Contains(t, queries, "fire station in Ashanti Ghana")
	assert.Contains(t, queries, "Ashanti fire service")
}

// One failing variant must not abort the others.
func TestGooglePlacesPartialFailure(t *testing.T) {
	call := 0

	p := newGoogleProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		call++
		if call == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"name": "Kumasi City Fire Station",
				"formatted_address": "Adum, Kumasi, Ghana",
				"geometry": {"location": {"lat": 6.6885, "lng": -1.6244}},
				"place_id": "gp-kumasi",
				"types": ["fire_station"]
			}]
		}`))
	})

	out, err := p.Search(context.Background(), spatial.Point{Lat: 6.69, Lng: -1.63}, 20, "")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGooglePlacesAllVariantsFail(t *testing.T) {
	p := newGoogleProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	out, err := p.Search(context.Background(), spatial.Point{Lat: 5.6, Lng: -0.19}, 20, "")
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestGooglePlacesQuotaStatus(t *testing.T) {
	p := newGoogleProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "results": []}`))
	})

	_, err := p.Search(context.Background(), spatial.Point{Lat: 5.6, Lng: -0.19}, 20, "")
	require.Error(t, err)
	assert.True(t, IsQuotaExceededError(err))
}

func TestGooglePlacesDropsInvalidCoordinates(t *testing.T) {
	p := newGoogleProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"name": "Nowhere Fire Station",
				"formatted_address": "Accra, Ghana",
				"geometry": {"location": {"lat": 999, "lng": -0.18}},
				"place_id": "gp-bad",
				"types": ["fire_station"]
			}]
		}`))
	})

	out, err := p.Search(context.Background(), spatial.Point{Lat: 5.6, Lng: -0.19}, 20, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPhoneForPlace(t *testing.T) {
	p := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/details/json", r.URL.Path)
		require.Equal(t, "gp-madina", r.URL.Query().Get("place_id"))

		_, _ = w.Write([]byte(`{
			"status": "OK",
			"result": {"name": "Madina Fire Station", "international_phone_number": "+233 30 252 0370"}
		}`))
	})

	phone, err := p.PhoneForPlace(context.Background(), "gp-madina")
	require.NoError(t, err)
	assert.Equal(t, "+233 30 252 0370", phone)
}

func TestFindPlaceID(t *testing.T) {
	p := newGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `{
			"status": "OK",
			"results": [{"name": "Weija Fire Station", "place_id": "gp-weija",
				"geometry": {"location": {"lat": 5.5569, "lng": -0.3361}}}]
		}`)
	})

	id, name, err := p.FindPlaceID(context.Background(), "Weija Fire Station")
	require.NoError(t, err)
	assert.Equal(t, "gp-weija", id)
	assert.Equal(t, "Weija Fire Station", name)
}
