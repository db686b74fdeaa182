// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/aduamah/firefinder/spatial"
)

const geoapifyBaseURL = "https://api.geoapify.com"

// GeoapifyProvider is the structured places provider: one radius-bounded
// nearby search over the fire-station category, plus supplementary
// free-text variants against the geocoding endpoint.
type GeoapifyProvider struct {
	apiKey  string
	client  *http.Client
	table   *RegionTable
	baseURL string
	sleep   func(time.Duration)
}

// NewGeoapifyProvider creates the structured provider. A nil client gets a
// default with a 10 second timeout.
func NewGeoapifyProvider(apiKey string, table *RegionTable, client *http.Client) *GeoapifyProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &GeoapifyProvider{
		apiKey:  apiKey,
		client:  client,
		table:   table,
		baseURL: geoapifyBaseURL,
		sleep:   time.Sleep,
	}
}

// Name implements Provider.
func (p *GeoapifyProvider) Name() string { return "geoapify" }

// Geoapify returns GeoJSON feature collections; everything we need is in
// the properties object.
type geoapifyResponse struct {
	Features []struct {
		Properties geoapifyProperties `json:"properties"`
	} `json:"features"`
}

type geoapifyProperties struct {
	Name       string   `json:"name"`
	Formatted  string   `json:"formatted"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	PlaceID    string   `json:"place_id"`
	Categories []string `json:"categories"`
	Website    string   `json:"website"`
	Contact    struct {
		Phone string `json:"phone"`
	} `json:"contact"`
}

// Search implements Provider: a circle-bounded category search first, then
// the text variants, with the fixed inter-query delay in between. Any
// individual query failure is logged and skipped; an error comes back only
// when every query failed.
func (p *GeoapifyProvider) Search(ctx context.Context, origin spatial.Point, radiusKm float64, region string) ([]Candidate, error) {
	type query struct {
		build    func() string
		strategy string
	}

	radiusMeters := int(radiusKm * 1000)

	queries := []query{
		{
			build: func() string {
				params := url.Values{}
				params.Set("categories", "service.fire_station")
				params.Set("filter", fmt.Sprintf("circle:%f,%f,%d", origin.Lng, origin.Lat, radiusMeters))
				params.Set("bias", fmt.Sprintf("proximity:%f,%f", origin.Lng, origin.Lat))
				params.Set("limit", "50")
				params.Set("apiKey", p.apiKey)

				return p.baseURL + "/v2/places?" + params.Encode()
			},
			strategy: "nearby_category",
		},
		{
			build:    func() string { return p.geocodeURL("fire station Ghana") },
			strategy: "text_generic",
		},
		{
			build:    func() string { return p.geocodeURL("Ghana National Fire Service") },
			strategy: "text_brand",
		},
	}

	if region != "" {
		queries = append(queries, query{
			build:    func() string { return p.geocodeURL(fmt.Sprintf("fire station %s Ghana", region)) },
			strategy: "text_region",
		})
	}

	var (
		out     []Candidate
		lastErr error
		failed  int
	)

	for i, q := range queries {
		if i > 0 {
			p.sleep(queryVariantDelay)
		}

		var resp geoapifyResponse
		if err := p.get(ctx, q.build(), &resp); err != nil {
			log.Printf("geoapify: %s: %v", q.strategy, err)

			lastErr = err
			failed++

			continue
		}

		for j := range resp.Features {
			c, ok := p.normalize(origin, &resp.Features[j].Properties, q.strategy)
			if !ok {
				continue
			}

			if p.table.AcceptForSearch(origin, region, &c) {
				out = append(out, c)
			}
		}
	}

	if failed == len(queries) {
		return nil, fmt.Errorf("all %d queries failed: %w", failed, lastErr)
	}

	return out, nil
}

func (p *GeoapifyProvider) geocodeURL(text string) string {
	params := url.Values{}
	params.Set("text", text)
	params.Set("filter", "countrycode:gh")
	params.Set("limit", "20")
	params.Set("apiKey", p.apiKey)

	return p.baseURL + "/v1/geocode/search?" + params.Encode()
}

func (p *GeoapifyProvider) get(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("geoapify request failed: %w", err)
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

func (p *GeoapifyProvider) normalize(origin spatial.Point, props *geoapifyProperties, strategy string) (Candidate, bool) {
	point := spatial.Point{Lat: props.Lat, Lng: props.Lon}
	if !point.Valid() {
		return Candidate{}, false
	}

	if !p.table.LooksLikeFireStation(props.Name, props.Formatted, props.Categories) {
		return Candidate{}, false
	}

	name := props.Name
	if name == "" {
		name = "Fire Station"
	}

	return Candidate{
		ID:             props.PlaceID,
		Name:           name,
		Address:        props.Formatted,
		Point:          point,
		Phone:          props.Contact.Phone,
		Website:        props.Website,
		StraightLineKm: origin.HaversineKm(&point),
		SourceStrategy: p.Name() + ":" + strategy,
	}, true
}
