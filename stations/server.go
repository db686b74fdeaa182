// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Server exposes the search engine over HTTP.
type Server struct {
	svc *Service
}

// NewServer wraps a Service for the HTTP API.
func NewServer(svc *Service) *Server {
	return &Server{svc: svc}
}

// RegisterRoutes mounts the station endpoints.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/v1/stations/nearby", s.nearbyStations)
}

// nearbyStations handles GET /api/v1/stations/nearby?lat=..&lng=..
// [&radius_m=..][&limit=..][&region=..]. The engine never fails, so the
// handler only validates the coordinates; an empty array means no stations
// were found.
func (s *Server) nearbyStations(ctx *gin.Context) {
	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat query parameter is required and must be a number"})

		return
	}

	lng, err := strconv.ParseFloat(ctx.Query("lng"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lng query parameter is required and must be a number"})

		return
	}

	radiusMeters := DefaultRadiusMeters
	if raw := ctx.Query("radius_m"); raw != "" {
		if radiusMeters, err = strconv.ParseFloat(raw, 64); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "radius_m must be a number"})

			return
		}
	}

	limit := DefaultLimit
	if raw := ctx.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})

			return
		}
	}

	result := s.svc.FetchNearbyFireStations(ctx.Request.Context(), lat, lng, radiusMeters, limit, ctx.Query("region"))

	ctx.JSON(http.StatusOK, gin.H{
		"stations": result,
		"count":    len(result),
	})
}
