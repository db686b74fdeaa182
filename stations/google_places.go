// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/aduamah/firefinder/spatial"
)

const googlePlacesBaseURL = "https://maps.googleapis.com/maps/api/place"

// queryVariantDelay is the fixed pause between successive query variants.
// Not configurable; it exists to stay under the upstream rate limits, and a
// failed call is abandoned rather than retried.
const queryVariantDelay = 300 * time.Millisecond

// GooglePlacesProvider is the keyword/text-search candidate provider. It
// issues several textual query variants against the Places Text Search API
// and tags each hit with the variant that found it.
type GooglePlacesProvider struct {
	apiKey  string
	client  *http.Client
	table   *RegionTable
	baseURL string
	sleep   func(time.Duration)
}

// NewGooglePlacesProvider creates the text-search provider. A nil client
// gets a default with a 10 second timeout.
func NewGooglePlacesProvider(apiKey string, table *RegionTable, client *http.Client) *GooglePlacesProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &GooglePlacesProvider{
		apiKey:  apiKey,
		client:  client,
		table:   table,
		baseURL: googlePlacesBaseURL,
		sleep:   time.Sleep,
	}
}

// Name implements Provider.
func (p *GooglePlacesProvider) Name() string { return "google_places" }

type googlePlacesResponse struct {
	Results      []googlePlaceResult `json:"results"`
	Status       string              `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, ...
	ErrorMessage string              `json:"error_message"`
}

type googlePlaceResult struct {
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	Vicinity         string `json:"vicinity"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	PlaceID      string   `json:"place_id"`
	Rating       *float64 `json:"rating,omitempty"`
	OpeningHours *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours,omitempty"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos,omitempty"`
	Types []string `json:"types"`
}

// Search implements Provider. Individual query-variant failures are logged
// and contribute zero candidates; an error is returned only when every
// variant failed.
func (p *GooglePlacesProvider) Search(ctx context.Context, origin spatial.Point, _ float64, region string) ([]Candidate, error) {
	variants := []struct {
		query    string
		strategy string
	}{
		{"fire station in Ghana", "text_generic"},
		{"Ghana National Fire Service", "text_brand"},
		{"GNFS fire station", "text_brand_short"},
	}

	if region != "" {
		variants = append(variants,
			struct{ query, strategy string }{
				fmt.Sprintf("fire station in %s Ghana", region), "text_region",
			},
			struct{ query, strategy string }{
				fmt.Sprintf("%s fire service", region), "text_region_brand",
			},
		)
	}

	var (
		out     []Candidate
		lastErr error
		failed  int
	)

	for i, v := range variants {
		if i > 0 {
			p.sleep(queryVariantDelay)
		}

		results, err := p.textSearch(ctx, v.query)
		if err != nil {
			log.Printf("google places: query %q: %v", v.query, err)

			lastErr = err
			failed++

			continue
		}

		for j := range results {
			c, ok := p.normalize(origin, &results[j], v.strategy)
			if !ok {
				continue
			}

			if p.table.AcceptForSearch(origin, region, &c) {
				out = append(out, c)
			}
		}
	}

	if failed == len(variants) {
		return nil, fmt.Errorf("all %d query variants failed: %w", failed, lastErr)
	}

	return out, nil
}

func (p *GooglePlacesProvider) textSearch(ctx context.Context, query string) ([]googlePlaceResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("region", "gh") // bias to Ghana
	params.Set("key", p.apiKey)

	var resp googlePlacesResponse
	if err := p.get(ctx, p.baseURL+"/textsearch/json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case "OK", "ZERO_RESULTS":
		return resp.Results, nil
	case "OVER_QUERY_LIMIT":
		return nil, &SearchError{Type: ErrorTypeQuotaExceeded, Message: "google places: " + resp.Status}
	default:
		return nil, fmt.Errorf("google places status %s: %s", resp.Status, resp.ErrorMessage)
	}
}

func (p *GooglePlacesProvider) get(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ClassifyHTTPStatus(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// normalize converts a raw hit into a Candidate. Hits without finite
// coordinates, and hits that don't classify as fire stations, are dropped.
func (p *GooglePlacesProvider) normalize(origin spatial.Point, r *googlePlaceResult, strategy string) (Candidate, bool) {
	point := spatial.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
	if !point.Valid() {
		return Candidate{}, false
	}

	address := r.FormattedAddress
	if address == "" {
		address = r.Vicinity
	}

	if !p.table.LooksLikeFireStation(r.Name, address, r.Types) {
		return Candidate{}, false
	}

	name := r.Name
	if name == "" {
		name = "Fire Station"
	}

	c := Candidate{
		Name:           name,
		Address:        address,
		Point:          point,
		PlaceID:        r.PlaceID,
		Rating:         r.Rating,
		StraightLineKm: origin.HaversineKm(&point),
		SourceStrategy: p.Name() + ":" + strategy,
	}

	if r.OpeningHours != nil {
		c.IsOpen = r.OpeningHours.OpenNow
	}

	if len(r.Photos) > 0 {
		c.PhotoReference = r.Photos[0].PhotoReference
	}

	return c, true
}

type googleDetailsResponse struct {
	Result struct {
		Name                     string `json:"name"`
		InternationalPhoneNumber string `json:"international_phone_number"`
		FormattedPhoneNumber     string `json:"formatted_phone_number"`
	} `json:"result"`
	Status string `json:"status"`
}

// PhoneForPlace implements PhoneDirectory via the Place Details API.
func (p *GooglePlacesProvider) PhoneForPlace(ctx context.Context, placeID string) (string, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,international_phone_number,formatted_phone_number")
	params.Set("key", p.apiKey)

	var resp googleDetailsResponse
	if err := p.get(ctx, p.baseURL+"/details/json?"+params.Encode(), &resp); err != nil {
		return "", err
	}

	if resp.Status != "OK" {
		return "", fmt.Errorf("place details status: %s", resp.Status)
	}

	if resp.Result.InternationalPhoneNumber != "" {
		return resp.Result.InternationalPhoneNumber, nil
	}

	return resp.Result.FormattedPhoneNumber, nil
}

// FindPlaceID implements PhoneDirectory: a text search by name returning
// the top result.
func (p *GooglePlacesProvider) FindPlaceID(ctx context.Context, name string) (string, string, error) {
	results, err := p.textSearch(ctx, name)
	if err != nil {
		return "", "", err
	}

	if len(results) == 0 {
		return "", "", errors.New("no match for " + name)
	}

	return results[0].PlaceID, results[0].Name, nil
}
