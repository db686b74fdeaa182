// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"fmt"
	"strings"
	"time"
)

// dedupKey is the primary identity used to collapse duplicates: the
// provider place id when present, then the provider id, then a raw
// name+coordinates concatenation.
func dedupKey(c *Candidate) string {
	if c.PlaceID != "" {
		return c.PlaceID
	}

	if c.ID != "" {
		return c.ID
	}

	return fmt.Sprintf("%s_%v_%v", c.Name, c.Point.Lat, c.Point.Lng)
}

// proximityKey is a secondary identity: the folded name plus coordinates
// rounded to 4 decimal places (~11 m). It catches the same physical
// station reported with a place id by one provider and without one by
// another.
func proximityKey(c *Candidate) string {
	return fmt.Sprintf("%s|%.4f|%.4f",
		strings.TrimSpace(strings.ToLower(c.Name)), c.Point.Lat, c.Point.Lng)
}

// Dedupe collapses duplicate candidates, preserving order; the first
// occurrence wins and keeps all of its fields. Survivors get a fresh
// synthetic tracking key for list rendering.
func Dedupe(candidates []Candidate) []Candidate {
	byKey := make(map[string]bool, len(candidates))
	byProximity := make(map[string]bool, len(candidates))

	out := make([]Candidate, 0, len(candidates))
	stamp := time.Now().UnixNano()

	for i := range candidates {
		c := candidates[i]

		key := dedupKey(&c)
		if byKey[key] {
			continue
		}

		near := proximityKey(&c)
		if byProximity[near] {
			continue
		}

		byKey[key] = true
		byProximity[near] = true

		c.Key = fmt.Sprintf("station-%d-%d", len(out), stamp)
		out = append(out, c)
	}

	return out
}
