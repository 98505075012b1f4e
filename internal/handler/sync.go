package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"xtracker/internal/repository"
	"xtracker/internal/service"
)

type SyncHandler struct {
	Reconciler *service.ReconcileService
	Repo       repository.Repository
}

func (h *SyncHandler) Register(r *gin.Engine) {
	group := r.Group("/api")
	group.POST("/sync", h.triggerSync)
	group.GET("/sync-state", h.syncState)
}

// @Summary Trigger a reconcile cycle now
// @Tags sync
// @Success 200 {object} handler.apiResponse
// @Failure 409 {object} handler.apiResponse
// @Router /api/sync [post]
func (h *SyncHandler) triggerSync(c *gin.Context) {
	if h.Reconciler == nil {
		Error(c, http.StatusInternalServerError, "reconciler unavailable", nil)
		return
	}
	result, err := h.Reconciler.RunOnce(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCycleInProgress) {
			Error(c, http.StatusConflict, err.Error(), nil)
			return
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Sync bookkeeping per scope
// @Tags sync
// @Success 200 {object} handler.apiResponse
// @Router /api/sync-state [get]
func (h *SyncHandler) syncState(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	states, err := h.Repo.ListSyncStates(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, states, nil)
}
