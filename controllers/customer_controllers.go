package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

var ErrInvalidContact = &CustomError{"Invalid contact. Use a phone number or an e-mail address."}

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetAllCustomers -> Mendapatkan semua customer
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	customers := []models.Customer{}
	if err := cc.DB.WithContext(c.Request.Context()).Order("customer_id ASC").Find(&customers).Error; err != nil {
		respondInternal(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// CreateCustomer -> Membuat record Customer baru (misal saat kiosk meminta nama)
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		Name    string  `json:"customer_name" binding:"required,kiosk_name"`
		Contact *string `json:"contact"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	contact, ok := normalizeContact(req.Contact)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidContact)
		return
	}

	customer := models.Customer{
		Name:     strings.TrimSpace(req.Name),
		Contact:  contact,
		IsActive: true,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&customer).Error; err != nil {
		respondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d)", customer.ID)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	var customer models.Customer
	if err := cc.DB.WithContext(c.Request.Context()).First(&customer, id).Error; err != nil {
		respondLookupError(c, err, fmt.Sprintf("Customer ID %d not found", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

// UpdateCustomer -> partial update; field yang tidak dikirim tidak diubah
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"customer_name" binding:"omitempty,kiosk_name"`
		Contact  *string `json:"contact"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil && req.Contact == nil && req.IsActive == nil {
		utils.RespondError(c, http.StatusBadRequest, ErrEmptyPayload)
		return
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["customer_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Contact != nil {
		contact, ok := normalizeContact(req.Contact)
		if !ok {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidContact)
			return
		}
		changes["contact"] = contact
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}

	db := cc.DB.WithContext(c.Request.Context())
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		respondLookupError(c, err, fmt.Sprintf("Customer ID %d not found", id))
		return
	}
	if err := db.Model(&customer).Updates(changes).Error; err != nil {
		respondInternal(c, err)
		return
	}
	if err := db.First(&customer, id).Error; err != nil {
		respondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

// DeleteCustomer -> ditolak (409) jika customer masih punya order
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	var orders int64
	err := cc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return nil
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		respondLookupError(c, err, fmt.Sprintf("Customer ID %d not found", id))
		return
	}
	if orders > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("Customer ID %d cannot be deleted: it still has %d order(s)", id, orders))
		return
	}
	utils.RespondNoContent(c)
}

// normalizeContact treats an empty string as "no contact".
func normalizeContact(raw *string) (*string, bool) {
	if raw == nil {
		return nil, true
	}
	contact := strings.TrimSpace(*raw)
	if contact == "" {
		return nil, true
	}
	if !utils.ValidContact(contact) {
		return nil, false
	}
	return &contact, true
}
