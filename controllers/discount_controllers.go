package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/food-kiosk-api/services"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

type DiscountController struct {
	Book *services.DiscountBook
}

func NewDiscountController(book *services.DiscountBook) *DiscountController {
	return &DiscountController{Book: book}
}

func (dc *DiscountController) GetAllDiscounts(c *gin.Context) {
	discounts, err := dc.Book.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All discounts retrieved successfully.", discounts)
}

func (dc *DiscountController) CreateDiscount(c *gin.Context) {
	var body struct {
		Code       string           `json:"code" binding:"required,discount_code"`
		Percentage *decimal.Decimal `json:"percentage" binding:"required"`
		UsageLimit *int             `json:"usage_limit" binding:"omitempty,gte=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	discount, err := dc.Book.Create(c.Request.Context(), body.Code, *body.Percentage, body.UsageLimit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Discount created successfully.", discount)
}

// ApplyDiscount -> GET /discounts/apply?code=... cek kode tanpa memakai kuota
func (dc *DiscountController) ApplyDiscount(c *gin.Context) {
	discount, err := dc.Book.GetByCode(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Discount successfully applied.", discount)
}

// RedeemDiscount -> memakai satu kuota kode diskon
func (dc *DiscountController) RedeemDiscount(c *gin.Context) {
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	discount, err := dc.Book.Redeem(c.Request.Context(), body.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Discount code '%s' redeemed.", discount.Code), discount)
}

func (dc *DiscountController) GetDiscountUsage(c *gin.Context) {
	id, ok := pathID(c, "discountId")
	if !ok {
		return
	}

	usage, err := dc.Book.Usage(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Discount usage for ID %d retrieved.", id), usage)
}

func (dc *DiscountController) UpdateDiscount(c *gin.Context) {
	id, ok := pathID(c, "discountId")
	if !ok {
		return
	}

	var body struct {
		Code       *string          `json:"code" binding:"omitempty,discount_code"`
		Percentage *decimal.Decimal `json:"percentage"`
		UsageLimit *int             `json:"usage_limit" binding:"omitempty,gte=0"`
		IsActive   *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	discount, err := dc.Book.Update(c.Request.Context(), id, services.DiscountPatch{
		Code:       body.Code,
		Percentage: body.Percentage,
		UsageLimit: body.UsageLimit,
		IsActive:   body.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Discount with ID %d updated successfully.", id), discount)
}

func (dc *DiscountController) DeleteDiscount(c *gin.Context) {
	id, ok := pathID(c, "discountId")
	if !ok {
		return
	}

	if err := dc.Book.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}
