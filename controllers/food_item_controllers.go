package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/food-kiosk-api/services"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

type FoodItemController struct {
	Catalog *services.FoodCatalog
}

func NewFoodItemController(catalog *services.FoodCatalog) *FoodItemController {
	return &FoodItemController{Catalog: catalog}
}

type foodItemRequest struct {
	Name        string           `json:"name" binding:"required,kiosk_name"`
	CategoryID  uint             `json:"category_id" binding:"required,gt=0"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Stock       *int             `json:"stock" binding:"required,gte=0"`
	IsAvailable *bool            `json:"is_available"`
}

func (r foodItemRequest) input() services.FoodInput {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return services.FoodInput{
		Name:        r.Name,
		CategoryID:  r.CategoryID,
		Price:       *r.Price,
		Stock:       *r.Stock,
		IsAvailable: available,
	}
}

// GetAllFoodItems -> ?available=true hanya menu yang bisa dipesan, ?category_id= per kategori
func (fc *FoodItemController) GetAllFoodItems(c *gin.Context) {
	var filter services.FoodFilter
	filter.AvailableOnly = c.Query("available") == "true"
	if raw := c.Query("category_id"); raw != "" {
		id, err := utils.ParseID(raw, "category_id")
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.CategoryID = id
	}

	foods, err := fc.Catalog.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of food items", foods)
}

func (fc *FoodItemController) GetFoodItemByID(c *gin.Context) {
	id, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	food, err := fc.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food item detail", food)
}

func (fc *FoodItemController) CreateFoodItem(c *gin.Context) {
	var req foodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	food, err := fc.Catalog.Create(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Food item created", food)
}

// UpdateFoodItem -> full update; stock 0 selalu membuat item tidak tersedia
func (fc *FoodItemController) UpdateFoodItem(c *gin.Context) {
	id, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	var req foodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	food, err := fc.Catalog.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food item updated", food)
}

func (fc *FoodItemController) UpdateStock(c *gin.Context) {
	id, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	var body struct {
		Stock *int `json:"stock" binding:"required,gte=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	food, err := fc.Catalog.SetStock(c.Request.Context(), id, *body.Stock)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food stock updated", food)
}

func (fc *FoodItemController) UpdateAvailability(c *gin.Context) {
	id, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	var body struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	food, err := fc.Catalog.ToggleAvailability(c.Request.Context(), id, *body.IsAvailable)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food availability updated", food)
}

func (fc *FoodItemController) DeleteFoodItem(c *gin.Context) {
	id, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	if err := fc.Catalog.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}
