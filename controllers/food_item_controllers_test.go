package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/food-kiosk-api/models"
)

func TestCreateAndListFoodItems(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	mains := seedCategory(t, db, "Mains")
	drinks := seedCategory(t, db, "Drinks")

	w, env := doJSON(t, r, http.MethodPost, "/api/fooditems", map[string]interface{}{
		"name": "Nasi Campur", "category_id": mains.ID, "price": 27.5, "stock": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.FoodItem
	decode(t, env, &created)
	assert.True(t, created.IsAvailable)

	seedFood(t, db, drinks.ID, "Jus Alpukat", "9.00", 0, false)

	w, env = doJSON(t, r, http.MethodGet, "/api/fooditems", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.FoodItem
	decode(t, env, &all)
	assert.Len(t, all, 2)

	w, env = doJSON(t, r, http.MethodGet, "/api/fooditems?available=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var available []models.FoodItem
	decode(t, env, &available)
	require.Len(t, available, 1)
	assert.Equal(t, "Nasi Campur", available[0].Name)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/fooditems?category_id=%d", drinks.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byCategory []models.FoodItem
	decode(t, env, &byCategory)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Jus Alpukat", byCategory[0].Name)
}

func TestCreateFoodItemValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	category := seedCategory(t, db, "Mains")

	bodies := []map[string]interface{}{
		{"name": "Nasi <b>", "category_id": category.ID, "price": 1, "stock": 1},
		{"name": "Nasi", "category_id": category.ID, "price": -1, "stock": 1},
		{"name": "Nasi", "category_id": category.ID, "price": 1, "stock": -1},
		{"name": "Nasi", "category_id": category.ID, "stock": 1},
	}
	for i, body := range bodies {
		w, _ := doJSON(t, r, http.MethodPost, "/api/fooditems", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d: %s", i, w.Body.String())
	}

	w, _ := doJSON(t, r, http.MethodPost, "/api/fooditems", map[string]interface{}{
		"name": "Nasi", "category_id": 999, "price": 1, "stock": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFoodStockAndAvailabilityEndpoints(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	category := seedCategory(t, db, "Mains")
	food := seedFood(t, db, category.ID, "Soto Betawi", "22.00", 3, true)
	path := fmt.Sprintf("/api/fooditems/%d", food.ID)

	w, _ := doJSON(t, r, http.MethodPatch, path+"/stock", map[string]int{"stock": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, reloadFood(t, db, food.ID).IsAvailable)

	w, _ = doJSON(t, r, http.MethodPatch, path+"/availability", map[string]bool{"is_available": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, path+"/stock", map[string]int{"stock": 5})
	require.Equal(t, http.StatusOK, w.Code)
	got := reloadFood(t, db, food.ID)
	assert.Equal(t, 5, got.Stock)
	assert.True(t, got.IsAvailable)

	w, _ = doJSON(t, r, http.MethodPatch, path+"/availability", map[string]bool{"is_available": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, reloadFood(t, db, food.ID).IsAvailable)

	w, _ = doJSON(t, r, http.MethodPatch, path+"/stock", map[string]int{"stock": -4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/api/fooditems/999/stock", map[string]int{"stock": 4})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndDeleteFoodItem(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	category := seedCategory(t, db, "Mains")
	food := seedFood(t, db, category.ID, "Gudeg", "20.00", 5, true)
	used := seedFood(t, db, category.ID, "Opor", "21.00", 5, true)
	order := seedOrder(t, db)

	w, _ := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/fooditems/%d", food.ID), map[string]interface{}{
		"name": "Gudeg Jogja", "category_id": category.ID, "price": 23, "stock": 5, "is_available": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Gudeg Jogja", reloadFood(t, db, food.ID).Name)

	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/details", order.ID),
		map[string]interface{}{"food_id": used.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/fooditems/%d", used.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/fooditems/%d", food.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/fooditems/%d", food.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
