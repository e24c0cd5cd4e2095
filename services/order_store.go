package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

// allowed status moves; anything else is rejected.
var orderTransitions = map[string][]string{
	models.OrderStatusPending: {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:    {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

type OrderStore struct {
	DB       *gorm.DB
	Catalog  *FoodCatalog
	notifier Notifier
	log      *logrus.Entry
}

func NewOrderStore(db *gorm.DB, catalog *FoodCatalog, notifier Notifier) *OrderStore {
	return &OrderStore{
		DB:       db,
		Catalog:  catalog,
		notifier: orNop(notifier),
		log:      utils.Component("order_store"),
	}
}

func (s *OrderStore) GetByID(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, id).Error; err != nil {
		return nil, lookupError(err, "Order", id)
	}
	return &order, nil
}

// GetForUpdate reads the order with SELECT ... FOR UPDATE so that mutations of
// the same order queue up behind each other. It must be the first read of the
// transaction: on MySQL the snapshot used by later reads (the total SUM) is only
// taken after the lock is granted. sqlite has no row locks and drops the clause.
func (s *OrderStore) GetForUpdate(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := lockForUpdate(tx).First(&order, id).Error; err != nil {
		return nil, lookupError(err, "Order", id)
	}
	return &order, nil
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// RecomputeTotal sums the order's current line totals and stores the result.
func (s *OrderStore) RecomputeTotal(tx *gorm.DB, id uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := tx.Model(&models.OrderDetail{}).
		Select("COALESCE(SUM(line_total), 0)").
		Where("order_id = ?", id).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, internal(err, "failed to sum order details")
	}
	total = total.Round(2)

	if err := tx.Model(&models.Order{}).Where("order_id = ?", id).Update("total_amount", total).Error; err != nil {
		return decimal.Zero, internal(err, "failed to update order total")
	}
	return total, nil
}

func (s *OrderStore) Create(ctx context.Context, customerID *uint, ticketName *string) (*models.Order, error) {
	if ticketName != nil && *ticketName != "" && !utils.ValidName(*ticketName) {
		return nil, validationError("Invalid ticket_name. Use letters, digits, spaces and basic punctuation.")
	}

	order := models.Order{
		CustomerID:  customerID,
		TicketName:  ticketName,
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.Zero,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if customerID != nil {
			var customer models.Customer
			if err := tx.Select("customer_id").First(&customer, *customerID).Error; err != nil {
				return lookupError(err, "Customer", *customerID)
			}
		}
		if err := tx.Create(&order).Error; err != nil {
			return internal(err, "failed to create order")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to create order")
	}

	s.log.WithField("order_id", order.ID).Info("Order created")
	s.notifier.OrderChanged(order)
	return &order, nil
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.WithContext(ctx).Order("created_at DESC, order_id DESC").Find(&orders).Error; err != nil {
		return nil, internal(err, "failed to list orders")
	}
	return orders, nil
}

// Get returns the order with its lines, newest first.
func (s *OrderStore) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, order_detail_id DESC")
		}).
		First(&order, id).Error
	if err != nil {
		return nil, lookupError(err, "Order", id)
	}
	return &order, nil
}

// SetStatus moves an order along its lifecycle. Cancelling a pending order
// puts its reserved stock back; a paid order keeps its stock consumed.
func (s *OrderStore) SetStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, validationError("Invalid status %q. Use PENDING, PAID, CANCELLED or COMPLETED.", status)
	}

	var (
		order    *models.Order
		restored []uint
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.GetForUpdate(tx, id)
		if err != nil {
			return err
		}
		if current.Status == status {
			order = current
			return nil
		}
		if !canTransition(current.Status, status) {
			return ruleViolation(ErrInvalidTransition, "Order ID %d cannot move from %s to %s", id, current.Status, status)
		}

		if current.Status == models.OrderStatusPending && status == models.OrderStatusCancelled {
			if restored, err = s.restock(tx, id); err != nil {
				return err
			}
		}

		if err := tx.Model(current).Update("status", status).Error; err != nil {
			return internal(err, "failed to update order status")
		}
		current.Status = status
		order = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update order status")
	}

	s.log.WithField("order_id", id).Infof("Order status is now %s", order.Status)
	s.notifyFoods(restored)
	s.notifier.OrderChanged(*order)
	return order, nil
}

// Delete removes an order and its lines in one transaction, lines first.
func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	var restored []uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.GetForUpdate(tx, id)
		if err != nil {
			return err
		}
		if current.Status == models.OrderStatusPending {
			if restored, err = s.restock(tx, id); err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
			return internal(err, "failed to delete order details")
		}
		if err := tx.Delete(&models.Order{}, id).Error; err != nil {
			return internal(err, "failed to delete order")
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "failed to delete order")
	}

	s.log.WithField("order_id", id).Info("Order deleted")
	s.notifyFoods(restored)
	return nil
}

// restock returns every line's quantity to the catalog.
func (s *OrderStore) restock(tx *gorm.DB, orderID uint) ([]uint, error) {
	var lines []models.OrderDetail
	if err := tx.Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		return nil, internal(err, "failed to load order details")
	}

	foods := make([]uint, 0, len(lines))
	for _, line := range lines {
		if err := s.Catalog.AdjustStock(tx, line.FoodID, line.Quantity); err != nil {
			return nil, err
		}
		foods = append(foods, line.FoodID)
	}
	return foods, nil
}

func (s *OrderStore) notifyFoods(ids []uint) {
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if food, err := s.Catalog.GetByID(s.DB, id); err == nil {
			s.notifier.FoodChanged(*food)
		}
	}
}

func canTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
