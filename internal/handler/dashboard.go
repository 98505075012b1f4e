package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the static single-page dashboard.
type DashboardHandler struct {
	StaticDir string
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	if h.StaticDir == "" {
		return
	}
	r.StaticFile("/", filepath.Join(h.StaticDir, "index.html"))
	r.Static("/static", h.StaticDir)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})
}
