package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

// LineResult is what a line mutation hands back: the line as written (or as it
// was before removal), the food it points at and the order's new total.
type LineResult struct {
	Detail         models.OrderDetail `json:"detail"`
	FoodName       string             `json:"food_name"`
	NewTotalAmount decimal.Decimal    `json:"new_total_amount"`
}

// Ledger keeps order lines, food stock and order totals consistent. Every
// mutation runs as one transaction: read order and food, write the line,
// adjust stock relatively, apply the sold-out rule, recompute the total.
type Ledger struct {
	DB       *gorm.DB
	Catalog  *FoodCatalog
	Orders   *OrderStore
	notifier Notifier
	log      *logrus.Entry
}

func NewLedger(db *gorm.DB, catalog *FoodCatalog, orders *OrderStore, notifier Notifier) *Ledger {
	return &Ledger{
		DB:       db,
		Catalog:  catalog,
		Orders:   orders,
		notifier: orNop(notifier),
		log:      utils.Component("order_ledger"),
	}
}

// AddLine puts quantity units of a food on an open order at the food's current price.
func (l *Ledger) AddLine(ctx context.Context, orderID, foodID uint, quantity int) (*LineResult, error) {
	if quantity <= 0 {
		return nil, validationError("Invalid quantity. Quantity must be a positive integer.")
	}

	var (
		result LineResult
		food   *models.FoodItem
		order  *models.Order
	)
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = l.openOrder(tx, orderID); err != nil {
			return err
		}
		if food, err = l.Catalog.GetByID(tx, foodID); err != nil {
			return err
		}
		if !food.IsAvailable {
			return ruleViolation(ErrNotAvailable, "Food item '%s' is not available", food.Name)
		}
		if food.Stock < quantity {
			return ruleViolation(ErrInsufficientStock, "Insufficient stock for '%s': requested %d, available %d", food.Name, quantity, food.Stock)
		}

		detail := models.OrderDetail{
			OrderID:   orderID,
			FoodID:    foodID,
			Quantity:  quantity,
			UnitPrice: food.Price,
			LineTotal: utils.LineTotal(food.Price, quantity),
		}
		if err := tx.Create(&detail).Error; err != nil {
			return internal(err, "failed to create order detail")
		}

		if err := l.Catalog.AdjustStock(tx, foodID, -quantity); err != nil {
			return err
		}
		if food, err = l.settleFood(tx, foodID); err != nil {
			return err
		}

		total, err := l.Orders.RecomputeTotal(tx, orderID)
		if err != nil {
			return err
		}

		order.TotalAmount = total
		result = LineResult{Detail: detail, FoodName: food.Name, NewTotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to add item to order")
	}

	l.log.WithFields(logrus.Fields{
		"order_id":  orderID,
		"detail_id": result.Detail.ID,
		"food_id":   foodID,
	}).Infof("Added %d x %s, order total %s", quantity, food.Name, utils.FormatAmount(result.NewTotalAmount))
	l.publish(food, order)
	return &result, nil
}

// UpdateLine changes the quantity of an existing line. The food on a line is
// fixed; the unit price is refreshed from the catalog.
func (l *Ledger) UpdateLine(ctx context.Context, orderID, detailID, foodID uint, quantity int) (*LineResult, error) {
	if quantity <= 0 {
		return nil, validationError("Invalid quantity. Quantity must be a positive integer.")
	}

	var (
		result LineResult
		food   *models.FoodItem
		order  *models.Order
	)
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = l.openOrder(tx, orderID); err != nil {
			return err
		}
		detail, err := l.lineOf(tx, orderID, detailID)
		if err != nil {
			return err
		}
		if detail.FoodID != foodID {
			return ruleViolation(ErrFoodMismatch, "Order detail ID %d is for food ID %d; remove it and add food ID %d instead", detailID, detail.FoodID, foodID)
		}
		if food, err = l.Catalog.GetByID(tx, foodID); err != nil {
			return err
		}

		// positive: units go back to the catalog, negative: more are consumed
		adjustment := detail.Quantity - quantity
		if adjustment < 0 && !food.IsAvailable {
			return ruleViolation(ErrNotAvailable, "Food item '%s' is not available", food.Name)
		}
		if err := l.Catalog.AdjustStock(tx, foodID, adjustment); err != nil {
			return err
		}

		detail.Quantity = quantity
		detail.UnitPrice = food.Price
		detail.LineTotal = utils.LineTotal(food.Price, quantity)
		detail.UpdatedAt = time.Now()
		if err := tx.Model(detail).Select("quantity", "unit_price", "line_total", "updated_at").Updates(detail).Error; err != nil {
			return internal(err, "failed to update order detail")
		}

		if food, err = l.settleFood(tx, foodID); err != nil {
			return err
		}
		total, err := l.Orders.RecomputeTotal(tx, orderID)
		if err != nil {
			return err
		}

		order.TotalAmount = total
		result = LineResult{Detail: *detail, FoodName: food.Name, NewTotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update order detail")
	}

	l.log.WithFields(logrus.Fields{
		"order_id":  orderID,
		"detail_id": detailID,
		"food_id":   foodID,
	}).Infof("Line quantity set to %d, order total %s", quantity, utils.FormatAmount(result.NewTotalAmount))
	l.publish(food, order)
	return &result, nil
}

// RemoveLine deletes a line and returns its units to stock. Availability is
// left as it is; re-enabling a sold-out item is a catalog decision.
func (l *Ledger) RemoveLine(ctx context.Context, orderID, detailID uint) (*LineResult, error) {
	var (
		result LineResult
		food   *models.FoodItem
		order  *models.Order
	)
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = l.openOrder(tx, orderID); err != nil {
			return err
		}
		detail, err := l.lineOf(tx, orderID, detailID)
		if err != nil {
			return err
		}

		if err := tx.Delete(detail).Error; err != nil {
			return internal(err, "failed to delete order detail")
		}
		if err := l.Catalog.AdjustStock(tx, detail.FoodID, detail.Quantity); err != nil {
			return err
		}
		if food, err = l.Catalog.GetByID(tx, detail.FoodID); err != nil {
			return err
		}

		total, err := l.Orders.RecomputeTotal(tx, orderID)
		if err != nil {
			return err
		}

		order.TotalAmount = total
		result = LineResult{Detail: *detail, FoodName: food.Name, NewTotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to remove order detail")
	}

	l.log.WithFields(logrus.Fields{
		"order_id":  orderID,
		"detail_id": detailID,
	}).Infof("Removed %d x %s, order total %s", result.Detail.Quantity, result.FoodName, utils.FormatAmount(result.NewTotalAmount))
	l.publish(food, order)
	return &result, nil
}

func (l *Ledger) GetLine(ctx context.Context, orderID, detailID uint) (*models.OrderDetail, error) {
	detail, err := l.lineOf(l.DB.WithContext(ctx), orderID, detailID)
	if err != nil {
		return nil, passThrough(err, "failed to retrieve order detail")
	}
	return detail, nil
}

// ListLines returns the order's lines newest first.
func (l *Ledger) ListLines(ctx context.Context, orderID uint) ([]models.OrderDetail, error) {
	db := l.DB.WithContext(ctx)
	if _, err := l.Orders.GetByID(db, orderID); err != nil {
		return nil, err
	}

	details := []models.OrderDetail{}
	if err := db.Where("order_id = ?", orderID).
		Order("created_at DESC, order_detail_id DESC").
		Find(&details).Error; err != nil {
		return nil, internal(err, "failed to list order details")
	}
	return details, nil
}

func (l *Ledger) openOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	order, err := l.Orders.GetForUpdate(tx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, ruleViolation(ErrOrderClosed, "Order ID %d is %s; its items can no longer change", orderID, order.Status)
	}
	return order, nil
}

func (l *Ledger) lineOf(tx *gorm.DB, orderID, detailID uint) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	err := tx.Where("order_id = ? AND order_detail_id = ?", orderID, detailID).First(&detail).Error
	if err != nil {
		return nil, lookupError(err, "Order detail", detailID)
	}
	return &detail, nil
}

// settleFood applies the sold-out rule and returns the food as committed.
func (l *Ledger) settleFood(tx *gorm.DB, foodID uint) (*models.FoodItem, error) {
	soldOut, err := l.Catalog.MarkSoldOutIfEmpty(tx, foodID)
	if err != nil {
		return nil, err
	}
	if soldOut {
		l.log.WithField("food_id", foodID).Info("Food item sold out, marked unavailable")
	}
	return l.Catalog.GetByID(tx, foodID)
}

func (l *Ledger) publish(food *models.FoodItem, order *models.Order) {
	if food != nil {
		l.notifier.FoodChanged(*food)
	}
	if order != nil {
		l.notifier.OrderChanged(*order)
	}
}
