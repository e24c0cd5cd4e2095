package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/utils"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Health -> liveness + ping ke database
func (hc *HealthController) Health(c *gin.Context) {
	sqlDB, err := hc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		utils.ErrorLogger.Printf("Health check failed: %v", err)
		utils.RespondJSON(c, http.StatusServiceUnavailable, "database unreachable", gin.H{"alive": true, "database": false})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "ok", gin.H{"alive": true, "database": true})
}
