// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

// Scoring policy constants. These are empirical product constants carried
// over unchanged; they are not derived from any model.
const (
	// MaxRadiusKm is the hard cutoff on effective distance.
	MaxRadiusKm = 20.0

	// distanceNormKm caps the distance component of the score.
	distanceNormKm = 50.0

	// timeNormMin caps the time component of the score.
	timeNormMin = 60.0

	// fallbackSpeedKmh estimates travel time when routing gave none.
	fallbackSpeedKmh = 40.0

	timeWeight     = 0.4
	distanceWeight = 0.6
)

// effectiveDistanceKm prefers the routed distance and falls back to the
// straight line.
func effectiveDistanceKm(s *RankedStation) float64 {
	if s.RouteDistanceKm > 0 {
		return s.RouteDistanceKm
	}

	return s.StraightLineKm
}

// FilterByRadius keeps stations whose effective distance is within maxKm.
// It runs after route augmentation so the cutoff reflects real driving
// distance when available.
func FilterByRadius(stations []RankedStation, maxKm float64) []RankedStation {
	out := make([]RankedStation, 0, len(stations))

	for i := range stations {
		if effectiveDistanceKm(&stations[i]) <= maxKm {
			out = append(out, stations[i])
		}
	}

	return out
}

// ProximityScore blends normalized travel time and distance into a 0-100
// composite where lower means closer.
func ProximityScore(s *RankedStation) float64 {
	distance := effectiveDistanceKm(s)

	distanceScore := distance / distanceNormKm * 100
	if distanceScore > 100 {
		distanceScore = 100
	}

	var minutes float64
	if s.TravelTimeMinutes != nil {
		minutes = *s.TravelTimeMinutes
	} else {
		minutes = distance / fallbackSpeedKmh * 60
	}

	timeScore := minutes / timeNormMin * 100
	if timeScore > 100 {
		timeScore = 100
	}

	return timeWeight*timeScore + distanceWeight*distanceScore
}

// RankLabel buckets a proximity score into the human-facing rank.
func RankLabel(score float64) string {
	switch {
	case score <= 20:
		return RankExcellent
	case score <= 40:
		return RankVeryGood
	case score <= 60:
		return RankGood
	case score <= 80:
		return RankFair
	default:
		return RankDistant
	}
}
