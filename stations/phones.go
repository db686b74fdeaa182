// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aduamah/firefinder/utils/textutils"
)

// phoneLookupDelay is the fixed pause after each station that actually
// required a lookup. Enrichment is deliberately sequential to respect the
// backend's rate limits; do not parallelize it.
const phoneLookupDelay = 200 * time.Millisecond

// enrichPhones attaches a contact number to stations that lack one. A
// present phone is always preserved and costs no lookup. Otherwise the
// place-details lookup by place id is tried first, then a text search by
// name whose top result feeds a second details lookup. Every failure
// leaves the phone empty; nothing propagates.
func enrichPhones(ctx context.Context, dir PhoneDirectory, stations []RankedStation, sleep func(time.Duration)) []RankedStation {
	if dir == nil {
		return stations
	}

	for i := range stations {
		if stations[i].Phone != "" {
			continue
		}

		stations[i].Phone = lookupPhone(ctx, dir, &stations[i])

		sleep(phoneLookupDelay)
	}

	return stations
}

func lookupPhone(ctx context.Context, dir PhoneDirectory, s *RankedStation) string {
	if s.PlaceID != "" {
		phone, err := dir.PhoneForPlace(ctx, s.PlaceID)
		if err != nil {
			log.Printf("phone lookup for %q: %v", s.Name, err)
		} else if phone != "" {
			return phone
		}
	}

	placeID, matchedName, err := dir.FindPlaceID(ctx, s.Name)
	if err != nil {
		log.Printf("phone search for %q: %v", s.Name, err)

		return ""
	}

	// The text search has no real disambiguation, so only trust the top
	// result when its name shares a token with ours.
	if !namesOverlap(s.Name, matchedName) {
		return ""
	}

	phone, err := dir.PhoneForPlace(ctx, placeID)
	if err != nil {
		log.Printf("phone lookup for %q (via search): %v", s.Name, err)

		return ""
	}

	return phone
}

// genericNameTokens are too common to count as an identity match on their
// own.
var genericNameTokens = map[string]bool{
	"fire": true, "station": true, "service": true, "ghana": true,
	"national": true, "the": true, "of": true,
}

func namesOverlap(a, b string) bool {
	tokens := make(map[string]bool)

	for _, tok := range strings.Fields(textutils.LowerASCIIFolding(a)) {
		if !genericNameTokens[tok] {
			tokens[tok] = true
		}
	}

	for _, tok := range strings.Fields(textutils.LowerASCIIFolding(b)) {
		if tokens[tok] {
			return true
		}
	}

	return false
}
