// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package incidents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aduamah/firefinder/spatial"
)

// Server exposes the incident log over HTTP.
type Server struct {
	repo Repository
}

// NewServer wraps a Repository for the HTTP API.
func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

// RegisterRoutes mounts the incident endpoints.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/v1/incidents", s.reportIncident)
	r.GET("/api/v1/incidents", s.listIncidents)
	r.GET("/api/v1/incidents/hotspots", s.hotspots)
	r.GET("/api/v1/incidents/:id", s.getIncident)
	r.POST("/api/v1/incidents/:id/status", s.updateStatus)
}

// Lat and Lng carry no "required" binding: the Greenwich meridian crosses
// Ghana, so lng 0 is a legitimate value. Missing coordinates fail the
// country-bounds validation instead.
type reportRequest struct {
	Description     string  `json:"description" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	Severity        string  `json:"severity" binding:"required"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	Region          string  `json:"region"`
	ReporterContact string  `json:"reporter_contact"`
}

func (s *Server) reportIncident(ctx *gin.Context) {
	var req reportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	inc := &Incident{
		Description:     req.Description,
		Category:        req.Category,
		Severity:        req.Severity,
		Point:           spatial.Point{Lat: req.Lat, Lng: req.Lng},
		Region:          req.Region,
		ReporterContact: req.ReporterContact,
	}

	if err := s.repo.Save(inc); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusCreated, inc)
}

func (s *Server) listIncidents(ctx *gin.Context) {
	var status *string
	if raw := ctx.Query("status"); raw != "" {
		if !validStatuses[raw] {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter: " + raw})

			return
		}

		status = &raw
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	incidents, err := s.repo.List(status, limit, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if incidents == nil {
		incidents = []*Incident{}
	}

	ctx.JSON(http.StatusOK, gin.H{"incidents": incidents, "count": len(incidents)})
}

func (s *Server) getIncident(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})

		return
	}

	inc, err := s.repo.Get(id)
	if errors.Is(err, ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})

		return
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, inc)
}

type statusRequest struct {
	Status     string `json:"status" binding:"required"`
	StationKey string `json:"station_key"`
}

func (s *Server) updateStatus(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})

		return
	}

	var req statusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	err = s.repo.UpdateStatus(id, req.Status, req.StationKey)
	if errors.Is(err, ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})

		return
	}

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	inc, err := s.repo.Get(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, inc)
}

func (s *Server) hotspots(ctx *gin.Context) {
	resolution, err := strconv.Atoi(ctx.DefaultQuery("resolution", "7"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "resolution must be an integer"})

		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	hotspots, err := s.repo.Hotspots(resolution, limit)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if hotspots == nil {
		hotspots = []*Hotspot{}
	}

	ctx.JSON(http.StatusOK, gin.H{"hotspots": hotspots, "count": len(hotspots)})
}
