package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/services"
)

func TestOrderDetailLifecycle(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	category := seedCategory(t, db, "Mains")
	food := seedFood(t, db, category.ID, "Nasi Goreng", "50.00", 10, true)
	order := seedOrder(t, db)
	base := fmt.Sprintf("/api/orders/%d/details", order.ID)

	// tambah 3 porsi
	w, env := doJSON(t, r, http.MethodPost, base, map[string]interface{}{"food_id": food.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var added services.LineResult
	decode(t, env, &added)
	assert.Equal(t, "Nasi Goreng", added.FoodName)
	assert.True(t, added.Detail.LineTotal.Equal(decimal.RequireFromString("150")))
	assert.True(t, added.NewTotalAmount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, 7, reloadFood(t, db, food.ID).Stock)

	// list & get
	w, env = doJSON(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lines []models.OrderDetail
	decode(t, env, &lines)
	require.Len(t, lines, 1)

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("%s/%d", base, added.Detail.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// ubah 3 -> 1
	w, env = doJSON(t, r, http.MethodPut, fmt.Sprintf("%s/%d", base, added.Detail.ID),
		map[string]interface{}{"food_id": food.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated services.LineResult
	decode(t, env, &updated)
	assert.True(t, updated.Detail.LineTotal.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, 9, reloadFood(t, db, food.ID).Stock)

	// hapus -> stok kembali
	w, env = doJSON(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", base, added.Detail.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var removed services.LineResult
	decode(t, env, &removed)
	assert.Equal(t, 1, removed.Detail.Quantity)
	assert.True(t, removed.NewTotalAmount.IsZero())
	assert.Equal(t, 10, reloadFood(t, db, food.ID).Stock)
	assert.True(t, reloadOrder(t, db, order.ID).TotalAmount.IsZero())

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("%s/%d", base, added.Detail.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddDetailFailures(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	category := seedCategory(t, db, "Snacks")
	low := seedFood(t, db, category.ID, "Risoles", "5.00", 2, true)
	off := seedFood(t, db, category.ID, "Pastel", "5.00", 20, false)
	order := seedOrder(t, db)
	base := fmt.Sprintf("/api/orders/%d/details", order.ID)

	tests := []struct {
		name string
		path string
		body interface{}
		code int
	}{
		{"insufficient stock", base, map[string]interface{}{"food_id": low.ID, "quantity": 5}, http.StatusBadRequest},
		{"unavailable", base, map[string]interface{}{"food_id": off.ID, "quantity": 1}, http.StatusBadRequest},
		{"zero quantity", base, map[string]interface{}{"food_id": low.ID, "quantity": 0}, http.StatusBadRequest},
		{"non numeric quantity", base, map[string]interface{}{"food_id": low.ID, "quantity": "two"}, http.StatusBadRequest},
		{"missing food", base, map[string]interface{}{"food_id": 999, "quantity": 1}, http.StatusNotFound},
		{"missing order", "/api/orders/999/details", map[string]interface{}{"food_id": low.ID, "quantity": 1}, http.StatusNotFound},
		{"bad order id", "/api/orders/abc/details", map[string]interface{}{"food_id": low.ID, "quantity": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}

	assert.Equal(t, 2, reloadFood(t, db, low.ID).Stock)
	assert.Equal(t, 20, reloadFood(t, db, off.ID).Stock)
	var count int64
	db.Model(&models.OrderDetail{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateDetailRejectsFoodChange(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	category := seedCategory(t, db, "Drinks")
	tea := seedFood(t, db, category.ID, "Es Teh", "3.00", 10, true)
	coffee := seedFood(t, db, category.ID, "Kopi Susu", "6.00", 10, true)
	order := seedOrder(t, db)
	base := fmt.Sprintf("/api/orders/%d/details", order.ID)

	w, env := doJSON(t, r, http.MethodPost, base, map[string]interface{}{"food_id": tea.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	var added services.LineResult
	decode(t, env, &added)

	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("%s/%d", base, added.Detail.ID),
		map[string]interface{}{"food_id": coffee.ID, "quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10, reloadFood(t, db, coffee.ID).Stock)
}

func TestDetailsOfClosedOrderAreFrozen(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	category := seedCategory(t, db, "Mains")
	food := seedFood(t, db, category.ID, "Ayam Geprek", "18.00", 10, true)
	order := seedOrder(t, db)
	base := fmt.Sprintf("/api/orders/%d/details", order.ID)

	w, _ := doJSON(t, r, http.MethodPost, base, map[string]interface{}{"food_id": food.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", order.ID), map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, base, map[string]interface{}{"food_id": food.ID, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 9, reloadFood(t, db, food.ID).Stock)
}
