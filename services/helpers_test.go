package services_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/services"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type recordingNotifier struct {
	mu     sync.Mutex
	foods  []models.FoodItem
	orders []models.Order
}

func (r *recordingNotifier) FoodChanged(food models.FoodItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.foods = append(r.foods, food)
}

func (r *recordingNotifier) OrderChanged(order models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
}

func (r *recordingNotifier) lastFood() models.FoodItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.foods[len(r.foods)-1]
}

func (r *recordingNotifier) lastOrder() models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[len(r.orders)-1]
}

type fixture struct {
	db       *gorm.DB
	notifier *recordingNotifier
	catalog  *services.FoodCatalog
	orders   *services.OrderStore
	ledger   *services.Ledger
	category models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	n := &recordingNotifier{}

	catalog := services.NewFoodCatalog(db, n)
	orders := services.NewOrderStore(db, catalog, n)
	f := &fixture{
		db:       db,
		notifier: n,
		catalog:  catalog,
		orders:   orders,
		ledger:   services.NewLedger(db, catalog, orders, n),
		category: models.Category{Name: "Mains", IsActive: true},
	}
	require.NoError(t, db.Create(&f.category).Error)
	return f
}

func (f *fixture) seedFood(t *testing.T, name, price string, stock int, available bool) models.FoodItem {
	t.Helper()
	food := models.FoodItem{
		Name:        name,
		CategoryID:  f.category.ID,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		IsAvailable: available,
	}
	require.NoError(t, f.db.Create(&food).Error)
	return food
}

func (f *fixture) food(t *testing.T, id uint) models.FoodItem {
	t.Helper()
	var food models.FoodItem
	require.NoError(t, f.db.First(&food, id).Error)
	return food
}

func (f *fixture) order(t *testing.T, id uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, f.db.First(&order, id).Error)
	return order
}

func (f *fixture) countLines(t *testing.T, orderID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.OrderDetail{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireKind(t *testing.T, err error, kind services.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, services.KindOf(err), "unexpected error: %v", err)
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, money(want).Equal(got), "want %s, got %s", want, got)
}
