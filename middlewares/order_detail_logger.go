package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/food-kiosk-api/utils"
)

// OrderDetailAuditMiddleware records every write against an order's line items.
func OrderDetailAuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" {
			c.Next()
			return
		}

		fields := logrus.Fields{
			"request_id": c.GetString("request_id"),
			"order_id":   c.Param("orderId"),
			"detail_id":  c.Param("detailId"),
			"method":     c.Request.Method,
		}
		// Sebelum request
		utils.InfoLogger.WithFields(fields).Info("Order detail change requested")

		c.Next()

		// Setelah request
		fields["status"] = c.Writer.Status()
		switch status := c.Writer.Status(); {
		case status < 300:
			utils.InfoLogger.WithFields(fields).Info("Order detail change applied")
		case status < 500:
			utils.InfoLogger.WithFields(fields).Warn("Order detail change rejected")
		default:
			utils.ErrorLogger.WithFields(fields).Error("Order detail change failed")
		}
	}
}
