package signaling

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the socket.io endpoint.
func RegisterRoutes(rg *gin.RouterGroup, hub *Hub) {
	handler := gin.WrapH(hub.Handler())
	rg.Any("/socket.io", handler)
	rg.Any("/socket.io/*any", handler)
}
