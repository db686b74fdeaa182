// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aduamah/firefinder/spatial"
	"github.com/aduamah/firefinder/utils/textutils"
)

// RegionTable holds the keyword-membership tables used to decide whether a
// candidate belongs to the target country or to a named sub-region. The
// heuristics are approximate by design: no authoritative boundary data is
// consulted, and false positives/negatives at locality edges are accepted.
//
// The table ships with Ghana defaults and can be replaced wholesale from a
// JSON file, so locale coverage can be extended without code changes.
type RegionTable struct {
	// Country keywords: major city and country-name tokens.
	Country []string `json:"country"`

	// Regions maps a recognized region name (folded) to city/neighborhood
	// keywords.
	Regions map[string][]string `json:"regions"`

	// CapitalMetro is the bounding box of the capital metro area. When the
	// search origin falls inside it, results are narrowed to candidates
	// matching the capital or port-city keyword sets.
	CapitalMetro spatial.BoundingBox `json:"capital_metro"`

	CapitalKeywords []string `json:"capital_keywords"`
	PortKeywords    []string `json:"port_keywords"`

	// Exclusions are tokens of known false positives that share naming
	// patterns with genuine stations (radio stations, TV stations, filling
	// stations and the like).
	Exclusions []string `json:"exclusions"`

	// FireKeywords identify a hit as a fire station when the backend's
	// category tags are absent or inconclusive.
	FireKeywords []string `json:"fire_keywords"`
}

// DefaultRegionTable returns the built-in Ghana tables.
func DefaultRegionTable() *RegionTable {
	return &RegionTable{
		Country: []string{
			"ghana", "accra", "tema", "kumasi", "takoradi", "sekondi",
			"tamale", "cape coast", "koforidua", "sunyani", "ho", "wa",
			"bolgatanga", "techiman", "ashaiman", "obuasi",
		},
		Regions: map[string][]string{
			"greater accra": {
				"accra", "tema", "madina", "adenta", "ashaiman", "teshie",
				"nungua", "dansoman", "achimota", "kaneshie", "osu", "labadi",
				"lapaz", "weija", "gbawe", "amasaman", "dodowa", "prampram",
			},
			"ashanti": {
				"kumasi", "obuasi", "ejisu", "asokwa", "suame", "bantama",
				"tafo", "mampong", "konongo",
			},
			"western": {
				"takoradi", "sekondi", "tarkwa", "axim", "shama",
			},
			"central": {
				"cape coast", "kasoa", "winneba", "mankessim", "swedru",
			},
			"eastern": {
				"koforidua", "nsawam", "nkawkaw", "akosombo", "suhum",
			},
			"northern": {
				"tamale", "yendi", "savelugu",
			},
			"volta": {
				"ho", "keta", "hohoe", "aflao",
			},
		},
		// Accra metro, roughly Weija to Prampram.
		CapitalMetro: spatial.BoundingBox{
			MinLat: 5.45, MaxLat: 5.80,
			MinLng: -0.35, MaxLng: 0.15,
		},
		CapitalKeywords: []string{
			"accra", "osu", "labadi", "dansoman", "kaneshie", "achimota",
			"madina", "adenta", "lapaz", "weija", "gbawe", "teshie", "nungua",
		},
		PortKeywords: []string{
			"tema", "ashaiman", "community 1", "community 4", "prampram",
		},
		Exclusions: []string{
			"radio", "television", " tv ", "broadcast", "media", "studio",
			"entertainment", "club", "lounge", "restaurant", "hotel",
			"filling station", "petrol", "gas station", "bank", "insurance",
			"mall",
		},
		FireKeywords: []string{
			"fire station", "fire service", "fire brigade", "gnfs",
			"fire and rescue", "fire & rescue", "fire post",
		},
	}
}

// LoadRegionTable reads a RegionTable from a JSON file. Region names and
// keywords are folded on load so lookups stay case and accent insensitive.
func LoadRegionTable(filepath string) (*RegionTable, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return nil, fmt.Errorf("reading region table: %w", err)
	}

	var table RegionTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing region table JSON: %w", err)
	}

	folded := make(map[string][]string, len(table.Regions))
	for name, keywords := range table.Regions {
		folded[textutils.LowerASCIIFolding(name)] = foldAll(keywords)
	}

	table.Regions = folded
	table.Country = foldAll(table.Country)
	table.CapitalKeywords = foldAll(table.CapitalKeywords)
	table.PortKeywords = foldAll(table.PortKeywords)
	table.Exclusions = foldAll(table.Exclusions)
	table.FireKeywords = foldAll(table.FireKeywords)

	return &table, nil
}

func foldAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = textutils.LowerASCIIFolding(kw)
	}

	return out
}

// searchText is the haystack the keyword filters run over.
func searchText(c *Candidate) string {
	return c.Name + " " + c.Address
}

// IsInCountry reports whether the candidate looks like it belongs to the
// target country.
func (t *RegionTable) IsInCountry(c *Candidate) bool {
	return textutils.ContainsAnyKeyword(searchText(c), t.Country)
}

// IsInRegion reports whether the candidate matches the named region's
// keyword set. An empty or unrecognized region name is vacuously true:
// we only narrow when we actually know the region.
func (t *RegionTable) IsInRegion(c *Candidate, region string) bool {
	if region == "" {
		return true
	}

	keywords, ok := t.Regions[textutils.LowerASCIIFolding(region)]
	if !ok {
		return true
	}

	return textutils.ContainsAnyKeyword(searchText(c), keywords)
}

// InCapitalMetro reports whether the origin falls inside the capital metro
// bounding box.
func (t *RegionTable) InCapitalMetro(origin spatial.Point) bool {
	return t.CapitalMetro.Contains(origin)
}

// MatchesCapitalOrPort reports whether the candidate matches the capital or
// the port-city keyword sets. Used to narrow results when the origin is in
// the capital metro.
func (t *RegionTable) MatchesCapitalOrPort(c *Candidate) bool {
	text := searchText(c)

	return textutils.ContainsAnyKeyword(text, t.CapitalKeywords) ||
		textutils.ContainsAnyKeyword(text, t.PortKeywords)
}

// AcceptForSearch is the provider-level locale filter: the candidate must
// look in-country, match the requested region (when one is recognized),
// and, for origins inside the capital metro, match the capital or port-city
// keyword sets.
func (t *RegionTable) AcceptForSearch(origin spatial.Point, region string, c *Candidate) bool {
	if !t.IsInCountry(c) {
		return false
	}

	if !t.IsInRegion(c, region) {
		return false
	}

	if t.InCapitalMetro(origin) && !t.MatchesCapitalOrPort(c) {
		return false
	}

	return true
}

// HasExcludedWord reports whether the text trips the false-positive
// exclusion list.
func (t *RegionTable) HasExcludedWord(text string) bool {
	return textutils.ContainsAnyKeyword(text, t.Exclusions)
}

// LooksLikeFireStation classifies a raw hit: either the backend tagged it
// with a fire-station category, or the name/address carries a fire or
// service-brand token. Exclusion words veto the match either way.
func (t *RegionTable) LooksLikeFireStation(name, address string, categoryTags []string) bool {
	text := name + " " + address
	if t.HasExcludedWord(text) {
		return false
	}

	for _, tag := range categoryTags {
		tag = strings.ToLower(tag)
		if strings.Contains(tag, "fire_station") || strings.Contains(tag, "fire") {
			return true
		}
	}

	return textutils.ContainsAnyKeyword(text, t.FireKeywords)
}
