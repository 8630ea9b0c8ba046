package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/careerbridge/careerbridge-backend/internal/gateway"
)

// SocketHandler bridges gin routing to the websocket gateway. The gateway
// does its own handshake authentication, so this route stays outside the
// RequireAuth group.
type SocketHandler struct {
	gw *gateway.Gateway
}

func NewSocketHandler(gw *gateway.Gateway) *SocketHandler {
	return &SocketHandler{gw: gw}
}

func (h *SocketHandler) Stream(c *gin.Context) {
	h.gw.ServeHTTP(c.Writer, c.Request)
}
