package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/food-kiosk-api/services"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

// OrderDetailController serves the line items of one order. Every write goes
// through the ledger so stock and totals move with the line.
type OrderDetailController struct {
	Ledger *services.Ledger
}

func NewOrderDetailController(ledger *services.Ledger) *OrderDetailController {
	return &OrderDetailController{Ledger: ledger}
}

type lineRequest struct {
	FoodID   uint `json:"food_id" binding:"required,gt=0"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

func (odc *OrderDetailController) AddDetail(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := odc.Ledger.AddLine(c.Request.Context(), orderID, req.FoodID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated,
		fmt.Sprintf("%d x %s added to order %d", req.Quantity, res.FoodName, orderID), res)
}

func (odc *OrderDetailController) GetDetails(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	details, err := odc.Ledger.ListLines(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Order details for order %d", orderID), details)
}

func (odc *OrderDetailController) GetDetailByID(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	detailID, ok := pathID(c, "detailId")
	if !ok {
		return
	}

	detail, err := odc.Ledger.GetLine(c.Request.Context(), orderID, detailID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", detail)
}

func (odc *OrderDetailController) UpdateDetail(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	detailID, ok := pathID(c, "detailId")
	if !ok {
		return
	}

	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := odc.Ledger.UpdateLine(c.Request.Context(), orderID, detailID, req.FoodID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Order detail %d updated", detailID), res)
}

// RemoveDetail answers 200 with the removed line so the kiosk can show the refund.
func (odc *OrderDetailController) RemoveDetail(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	detailID, ok := pathID(c, "detailId")
	if !ok {
		return
	}

	res, err := odc.Ledger.RemoveLine(c.Request.Context(), orderID, detailID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK,
		fmt.Sprintf("%d x %s removed from order %d", res.Detail.Quantity, res.FoodName, orderID), res)
}
