package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/food-kiosk-api/services"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

type OrderController struct {
	Orders *services.OrderStore
}

func NewOrderController(orders *services.OrderStore) *OrderController {
	return &OrderController{Orders: orders}
}

// GetAllOrders -> list orders, terbaru dulu
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> buat order kosong (status PENDING, total 0)
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		CustomerID *uint   `json:"customer_id" binding:"omitempty,gt=0"`
		TicketName *string `json:"ticket_name" binding:"omitempty,kiosk_name"`
	}
	// an empty body is a walk-in order
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	order, err := oc.Orders.Create(c.Request.Context(), body.CustomerID, body.TicketName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order beserta line item
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.SetStatus(c.Request.Context(), id, strings.ToUpper(body.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated to "+order.Status, order)
}

// DeleteOrder -> hapus order beserta detailnya; stok order PENDING dikembalikan
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}
