package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/services"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrInternal     = &CustomError{"internal server error"}
	ErrEmptyPayload = &CustomError{"At least one field must be provided for update."}
)

// respondServiceError maps a service failure to its HTTP status. Internal
// details are logged and never sent to the client.
func respondServiceError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindValidation, services.KindBusinessRule:
		utils.RespondError(c, http.StatusBadRequest, err)
	case services.KindNotFound:
		utils.RespondError(c, http.StatusNotFound, err)
	case services.KindConflict:
		utils.RespondError(c, http.StatusConflict, err)
	default:
		respondInternal(c, err)
	}
}

func respondInternal(c *gin.Context, err error) {
	utils.ErrorLogger.WithFields(map[string]interface{}{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	}).Error(err)
	utils.RespondError(c, http.StatusInternalServerError, ErrInternal)
}

// respondLookupError handles reads done straight on gorm by the thin CRUD controllers.
func respondLookupError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, &CustomError{notFound})
		return
	}
	respondInternal(c, err)
}

// pathID reads a positive numeric path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseID(c.Param(name), name)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}
