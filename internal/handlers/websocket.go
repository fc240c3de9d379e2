package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/automac/dealership-backend/internal/services"
)

// WebSocketHandler attaches an authenticated owner dashboard to the event
// hub.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetUint("userId")
		hub.HandleWebSocket(c.Writer, c.Request, ownerID)
	}
}
