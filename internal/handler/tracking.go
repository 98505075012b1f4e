package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"xtracker/internal/repository"
	"xtracker/internal/service"
)

type TrackingHandler struct {
	Query *service.TrackingQueryService
}

func (h *TrackingHandler) Register(r *gin.Engine) {
	group := r.Group("/api")
	group.GET("/trackings", h.listTrackings)
	group.GET("/trackings/:id", h.getTracking)
	group.GET("/trackings/:id/stats", h.getStats)
	group.GET("/trackings/:id/hourly", h.getHourly)
	group.GET("/stats/summary", h.getSummary)
	group.GET("/check-updates", h.checkUpdates)
	group.GET("/latest-data", h.latestData)
}

// @Summary List all trackings with summary
// @Tags trackings
// @Success 200 {object} handler.apiResponse
// @Router /api/trackings [get]
func (h *TrackingHandler) listTrackings(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	snap, err := h.Query.GetSnapshot(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, snap, nil)
}

// @Summary Get one tracking with its stats
// @Tags trackings
// @Param id path string true "tracking id"
// @Success 200 {object} handler.apiResponse
// @Failure 404 {object} handler.apiResponse
// @Router /api/trackings/{id} [get]
func (h *TrackingHandler) getTracking(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id is required", nil)
		return
	}
	item, stats, err := h.Query.GetTracking(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "tracking not found", nil)
		return
	}
	Ok(c, gin.H{"tracking": item, "stats": stats}, nil)
}

// @Summary Get the stats row of one tracking
// @Tags trackings
// @Param id path string true "tracking id"
// @Success 200 {object} handler.apiResponse
// @Failure 404 {object} handler.apiResponse
// @Router /api/trackings/{id}/stats [get]
func (h *TrackingHandler) getStats(c *gin.Context) {
	if h.Query == nil || h.Query.Store == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id is required", nil)
		return
	}
	stats, err := h.Query.Store.GetStats(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if stats == nil {
		Error(c, http.StatusNotFound, "stats not found", nil)
		return
	}
	Ok(c, stats, nil)
}

// @Summary Get the hourly history of one tracking
// @Tags trackings
// @Param id path string true "tracking id"
// @Success 200 {object} handler.apiResponse
// @Router /api/trackings/{id}/hourly [get]
func (h *TrackingHandler) getHourly(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id is required", nil)
		return
	}
	points, err := h.Query.GetHistory(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, points, map[string]any{"count": len(points)})
}

// @Summary Current summary counters
// @Tags trackings
// @Success 200 {object} handler.apiResponse
// @Router /api/stats/summary [get]
func (h *TrackingHandler) getSummary(c *gin.Context) {
	if h.Query == nil || h.Query.Store == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	summary, err := h.Query.Store.SummaryCounts(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, summary, nil)
}

// @Summary Timestamp of the last broadcast update
// @Tags trackings
// @Success 200 {object} handler.apiResponse
// @Router /api/check-updates [get]
func (h *TrackingHandler) checkUpdates(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	var lastUpdate *float64
	if h.Query.Hub != nil {
		if last := h.Query.Hub.LastUpdate(); last != nil {
			lastUpdate = &last.LastUpdate
		}
	}
	Ok(c, gin.H{"last_update": lastUpdate}, nil)
}

// @Summary Poll the full dataset plus a coarse changed-since diff
// @Tags trackings
// @Param total query int false "last seen total"
// @Param active query int false "last seen active"
// @Param inactive query int false "last seen inactive"
// @Param count query int false "last seen row count"
// @Success 200 {object} handler.apiResponse
// @Router /api/latest-data [get]
func (h *TrackingHandler) latestData(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	var lastSeen *repository.Summary
	total := int64Query(c, "total")
	active := int64Query(c, "active")
	inactive := int64Query(c, "inactive")
	if total != nil && active != nil && inactive != nil {
		lastSeen = &repository.Summary{Total: *total, Active: *active, Inactive: *inactive}
	}
	result, err := h.Query.PollSince(c.Request.Context(), lastSeen, int64Query(c, "count"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}
