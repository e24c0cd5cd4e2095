package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/food-kiosk-api/kds"
)

// KioskFeedHandler -> endpoint WebSocket untuk layar kiosk dan papan pickup
func KioskFeedHandler(hub *kds.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	}
}
