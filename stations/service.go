// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/aduamah/firefinder/spatial"
	"github.com/aduamah/firefinder/utils/httputils"
)

// Defaults applied by the orchestrator when the caller passes zero values.
const (
	DefaultRadiusMeters = 20000.0
	DefaultLimit        = 20
)

// Config assembles a Service. Only the API keys are required for live use;
// absent keys degrade per backend (providers yield nothing, routing falls
// back to straight-line distances).
type Config struct {
	GoogleAPIKey   string
	GeoapifyAPIKey string
	MapboxToken    string

	// Regions and ServiceAreas default to the built-in Ghana tables.
	Regions      *RegionTable
	ServiceAreas *ServiceAreaTable

	// HTTPClient is shared by every backend client when set.
	HTTPClient *http.Client

	// UserAgent is sent with every backend request built by NewService.
	UserAgent string

	// EnableHTTPTrace dumps requests/responses to stderr.
	EnableHTTPTrace bool
}

// Service is the discovery and ranking engine. It holds only read-only
// tables and clients; invocations share no mutable state, so concurrent
// searches are safe (the caller is responsible for discarding stale
// results of superseded searches).
type Service struct {
	providers    []Provider
	router       Router
	phones       PhoneDirectory
	regions      *RegionTable
	serviceAreas *ServiceAreaTable
	sleep        func(time.Duration)
}

// NewService wires the providers, router and phone directory from the
// configuration.
func NewService(cfg Config) *Service {
	regions := cfg.Regions
	if regions == nil {
		regions = DefaultRegionTable()
	}

	areas := cfg.ServiceAreas
	if areas == nil {
		areas = DefaultServiceAreas()
	}

	client := cfg.HTTPClient
	if client == nil {
		transport := http.DefaultTransport
		if cfg.UserAgent != "" {
			transport = &httputils.AppendRequestHeadersRoundTripper{
				Transport: transport,
				Headers:   map[string]string{"User-Agent": cfg.UserAgent},
			}
		}

		if cfg.EnableHTTPTrace {
			transport = &httputils.LoggingRoundTripper{
				Transport: transport,
				Writer:    os.Stderr,
			}
		}

		client = &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		}
	}

	google := NewGooglePlacesProvider(cfg.GoogleAPIKey, regions, client)

	return &Service{
		providers: []Provider{
			google,
			NewGeoapifyProvider(cfg.GeoapifyAPIKey, regions, client),
		},
		router:       NewMapboxRouter(cfg.MapboxToken, client),
		phones:       google,
		regions:      regions,
		serviceAreas: areas,
		sleep:        time.Sleep,
	}
}

// SearchMetrics tracks counters for one pipeline run.
type SearchMetrics struct {
	ProviderCandidates    int
	ProviderFailures      int
	ServiceAreaCandidates int
	UniqueCandidates      int
	WithinRadius          int
}

// Merge combines another run's counters into this one.
func (m *SearchMetrics) Merge(o *SearchMetrics) *SearchMetrics {
	m.ProviderCandidates += o.ProviderCandidates
	m.ProviderFailures += o.ProviderFailures
	m.ServiceAreaCandidates += o.ServiceAreaCandidates
	m.UniqueCandidates += o.UniqueCandidates
	m.WithinRadius += o.WithinRadius

	return m
}

// FetchNearbyFireStations runs the full pipeline and returns the ranked,
// capped station list. It never fails: any unexpected panic anywhere in
// the pipeline is recovered here and surfaced as an empty slice, so
// callers always get a (possibly empty) list. An empty result means "no
// stations found", not "error".
func (s *Service) FetchNearbyFireStations(ctx context.Context, lat, lng, radiusMeters float64, limit int, region string) []RankedStation {
	ranked, _ := s.FetchNearbyFireStationsWithMetrics(ctx, lat, lng, radiusMeters, limit, region)

	return ranked
}

// FetchNearbyFireStationsWithMetrics is FetchNearbyFireStations plus the
// run's diagnostic counters.
func (s *Service) FetchNearbyFireStationsWithMetrics(ctx context.Context, lat, lng, radiusMeters float64, limit int, region string) (result []RankedStation, metrics SearchMetrics) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("station search recovered: %v", r)

			result = []RankedStation{}
		}
	}()

	origin := spatial.Point{Lat: lat, Lng: lng}
	if !origin.Valid() {
		return []RankedStation{}, metrics
	}

	radiusKm := radiusMeters / 1000
	if radiusKm <= 0 || radiusKm > MaxRadiusKm {
		radiusKm = MaxRadiusKm
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	// Providers run sequentially on purpose: parallelizing them trips the
	// upstream rate limits.
	var pool []Candidate

	for _, p := range s.providers {
		candidates, err := p.Search(ctx, origin, radiusKm, region)
		if err != nil {
			metrics.ProviderFailures++

			switch {
			case IsRateLimitError(err) || IsQuotaExceededError(err):
				log.Printf("provider %s throttled: %v", p.Name(), err)
			case IsTimeoutError(err):
				log.Printf("provider %s timed out: %v", p.Name(), err)
			default:
				log.Printf("provider %s failed: %v", p.Name(), err)
			}

			continue
		}

		pool = append(pool, candidates...)
	}

	metrics.ProviderCandidates = len(pool)

	fallback := s.serviceAreas.StationsFor(origin, pool, s.regions)
	metrics.ServiceAreaCandidates = len(fallback)
	pool = append(pool, fallback...)

	unique := Dedupe(pool)
	metrics.UniqueCandidates = len(unique)

	ranked := augmentWithRoutes(ctx, s.router, origin, unique, s.sleep)

	ranked = FilterByRadius(ranked, radiusKm)
	metrics.WithinRadius = len(ranked)

	for i := range ranked {
		ranked[i].ProximityScore = ProximityScore(&ranked[i])
		ranked[i].ProximityRank = RankLabel(ranked[i].ProximityScore)
	}

	ranked = enrichPhones(ctx, s.phones, ranked, s.sleep)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ProximityScore < ranked[j].ProximityScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if ranked == nil {
		ranked = []RankedStation{}
	}

	log.Printf("station search: %d from providers (%d failures), %d fallback, %d unique, %d within %.0f km",
		metrics.ProviderCandidates, metrics.ProviderFailures,
		metrics.ServiceAreaCandidates, metrics.UniqueCandidates,
		metrics.WithinRadius, radiusKm)

	return ranked, metrics
}
