package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

type categoryRequest struct {
	Name     string `json:"category_name" binding:"required,kiosk_name"`
	IsActive *bool  `json:"is_active"`
}

// GetAllCategories -> ?active=true hanya kategori aktif
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	q := cc.DB.WithContext(c.Request.Context()).Order("category_name ASC")
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	categories := []models.Category{}
	if err := q.Find(&categories).Error; err != nil {
		respondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var body categoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.Category{
		Name:     strings.TrimSpace(body.Name),
		IsActive: body.IsActive == nil || *body.IsActive,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		cc.respondWriteError(c, err, category.Name)
		return
	}

	utils.InfoLogger.Printf("New category created (ID=%d) %s", category.ID, category.Name)
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *CategoryController) GetCategoryByID(c *gin.Context) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	var category models.Category
	if err := cc.DB.WithContext(c.Request.Context()).First(&category, id).Error; err != nil {
		respondLookupError(c, err, fmt.Sprintf("Category ID %d not found", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	var body categoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		respondLookupError(c, err, fmt.Sprintf("Category ID %d not found", id))
		return
	}

	category.Name = strings.TrimSpace(body.Name)
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}
	if err := db.Save(&category).Error; err != nil {
		cc.respondWriteError(c, err, category.Name)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory -> ditolak (409) selama masih ada food item di kategori ini
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	var inUse int64
	err := cc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.FoodItem{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return nil
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		respondLookupError(c, err, fmt.Sprintf("Category ID %d not found", id))
		return
	}
	if inUse > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("Category ID %d cannot be deleted: it still has %d food item(s)", id, inUse))
		return
	}
	utils.RespondNoContent(c)
}

func (cc *CategoryController) respondWriteError(c *gin.Context, err error, name string) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("Category '%s' already exists", name))
		return
	}
	respondInternal(c, err)
}
