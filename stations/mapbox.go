// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aduamah/firefinder/spatial"
)

const mapboxBaseURL = "https://api.mapbox.com"

// MapboxRouter obtains driving distances and times through the Mapbox
// Matrix API. The API accepts at most 25 coordinates per request, so
// callers batch destinations in groups of 24 plus the origin.
type MapboxRouter struct {
	token   string
	client  *http.Client
	baseURL string
}

// NewMapboxRouter creates the router. An empty token is allowed and makes
// Available return false; the pipeline then falls back to straight-line
// distances.
func NewMapboxRouter(token string, client *http.Client) *MapboxRouter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &MapboxRouter{
		token:   token,
		client:  client,
		baseURL: mapboxBaseURL,
	}
}

// Available implements Router.
func (r *MapboxRouter) Available() bool { return r.token != "" }

type mapboxMatrixResponse struct {
	Code      string       `json:"code"` // "Ok" on success
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"` // seconds; null = unreachable
	Distances [][]*float64 `json:"distances"` // meters; null = unreachable
}

// Matrix implements Router for a single batch of up to 24 destinations.
// Distances come back in kilometers and durations in minutes regardless of
// the API's native meters/seconds.
func (r *MapboxRouter) Matrix(ctx context.Context, origin spatial.Point, dests []spatial.Point) ([]RouteLeg, error) {
	if len(dests) == 0 {
		return nil, nil
	}

	if len(dests) > matrixBatchSize {
		return nil, fmt.Errorf("matrix batch of %d exceeds the %d destination limit", len(dests), matrixBatchSize)
	}

	coords := make([]string, 0, len(dests)+1)
	coords = append(coords, fmt.Sprintf("%f,%f", origin.Lng, origin.Lat))

	destIdx := make([]string, 0, len(dests))

	for i, d := range dests {
		coords = append(coords, fmt.Sprintf("%f,%f", d.Lng, d.Lat))
		destIdx = append(destIdx, strconv.Itoa(i+1))
	}

	params := url.Values{}
	params.Set("sources", "0")
	params.Set("destinations", strings.Join(destIdx, ";"))
	params.Set("annotations", "distance,duration")
	params.Set("access_token", r.token)

	reqURL := fmt.Sprintf("%s/directions-matrix/v1/mapbox/driving/%s?%s",
		r.baseURL, strings.Join(coords, ";"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating matrix request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPStatus(resp.StatusCode)
	}

	var matrix mapboxMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&matrix); err != nil {
		return nil, fmt.Errorf("decoding matrix response: %w", err)
	}

	if matrix.Code != "Ok" {
		return nil, fmt.Errorf("matrix status %s: %s", matrix.Code, matrix.Message)
	}

	if len(matrix.Distances) == 0 || len(matrix.Durations) == 0 {
		return nil, fmt.Errorf("matrix response missing annotations")
	}

	legs := make([]RouteLeg, len(dests))

	for i := range dests {
		var dist, dur *float64
		if i < len(matrix.Distances[0]) {
			dist = matrix.Distances[0][i]
		}

		if i < len(matrix.Durations[0]) {
			dur = matrix.Durations[0][i]
		}

		// A null cell means the destination is unreachable by road.
		if dist == nil || dur == nil {
			legs[i] = RouteLeg{OK: false}

			continue
		}

		legs[i] = RouteLeg{
			DistanceKm:  *dist / 1000,
			DurationMin: *dur / 60,
			OK:          true,
		}
	}

	return legs, nil
}
