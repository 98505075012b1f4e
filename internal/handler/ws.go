package handler

import (
	"github.com/gin-gonic/gin"

	"xtracker/internal/notify"
)

type WSHandler struct {
	Hub *notify.Hub
}

func (h *WSHandler) Register(r *gin.Engine) {
	r.GET("/ws", gin.WrapF(h.Hub.ServeWS))
}
