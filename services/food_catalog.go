package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

// FoodInput is the full set of writable food item fields.
type FoodInput struct {
	Name        string
	CategoryID  uint
	Price       decimal.Decimal
	Stock       int
	IsAvailable bool
}

// FoodFilter narrows List. Zero values mean "no filter".
type FoodFilter struct {
	AvailableOnly bool
	CategoryID    uint
}

// FoodCatalog owns food_items. The tx-scoped methods (GetByID, AdjustStock,
// SetAvailability, MarkSoldOutIfEmpty) are the narrow contract the ledger uses;
// the context-scoped ones back the catalog endpoints.
type FoodCatalog struct {
	DB       *gorm.DB
	notifier Notifier
	log      *logrus.Entry
}

func NewFoodCatalog(db *gorm.DB, notifier Notifier) *FoodCatalog {
	return &FoodCatalog{
		DB:       db,
		notifier: orNop(notifier),
		log:      utils.Component("food_catalog"),
	}
}

func (fc *FoodCatalog) GetByID(tx *gorm.DB, id uint) (*models.FoodItem, error) {
	var food models.FoodItem
	if err := tx.First(&food, id).Error; err != nil {
		return nil, lookupError(err, "Food item", id)
	}
	return &food, nil
}

// getForUpdate locks the row so absolute stock writes and the ledger's relative
// adjustments are applied one after the other.
func (fc *FoodCatalog) getForUpdate(tx *gorm.DB, id uint) (*models.FoodItem, error) {
	var food models.FoodItem
	if err := lockForUpdate(tx).First(&food, id).Error; err != nil {
		return nil, lookupError(err, "Food item", id)
	}
	return &food, nil
}

// AdjustStock applies stock = stock + delta in a single statement. The guard in
// the WHERE clause keeps stock non-negative even under concurrent writers.
func (fc *FoodCatalog) AdjustStock(tx *gorm.DB, id uint, delta int) error {
	if delta == 0 {
		return nil
	}
	res := tx.Model(&models.FoodItem{}).
		Where("food_id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return internal(res.Error, "failed to adjust food stock")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.FoodItem{}).Where("food_id = ?", id).Count(&count).Error; err != nil {
			return internal(err, "failed to adjust food stock")
		}
		if count == 0 {
			return notFound("Food item ID %d not found", id)
		}
		return ruleViolation(ErrInsufficientStock, "Insufficient stock for food item ID %d", id)
	}
	return nil
}

func (fc *FoodCatalog) SetAvailability(tx *gorm.DB, id uint, available bool) error {
	res := tx.Model(&models.FoodItem{}).Where("food_id = ?", id).Update("is_available", available)
	if res.Error != nil {
		return internal(res.Error, "failed to update food availability")
	}
	if res.RowsAffected == 0 {
		return notFound("Food item ID %d not found", id)
	}
	return nil
}

// MarkSoldOutIfEmpty switches an available food off once its stock hits zero.
// It never switches anything back on.
func (fc *FoodCatalog) MarkSoldOutIfEmpty(tx *gorm.DB, id uint) (bool, error) {
	res := tx.Model(&models.FoodItem{}).
		Where("food_id = ? AND stock = 0 AND is_available = ?", id, true).
		Update("is_available", false)
	if res.Error != nil {
		return false, internal(res.Error, "failed to update food availability")
	}
	return res.RowsAffected > 0, nil
}

func (fc *FoodCatalog) List(ctx context.Context, filter FoodFilter) ([]models.FoodItem, error) {
	q := fc.DB.WithContext(ctx).Order("food_id ASC")
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	var foods []models.FoodItem
	if err := q.Find(&foods).Error; err != nil {
		return nil, internal(err, "failed to list food items")
	}
	return foods, nil
}

func (fc *FoodCatalog) Get(ctx context.Context, id uint) (*models.FoodItem, error) {
	return fc.GetByID(fc.DB.WithContext(ctx), id)
}

func (fc *FoodCatalog) Create(ctx context.Context, in FoodInput) (*models.FoodItem, error) {
	if err := validateFoodInput(in); err != nil {
		return nil, err
	}

	food := models.FoodItem{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		IsAvailable: in.IsAvailable && in.Stock > 0,
	}
	err := fc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := categoryExists(tx, in.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(&food).Error; err != nil {
			return internal(err, "failed to create food item")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to create food item")
	}

	fc.log.WithField("food_id", food.ID).Infof("Food item created: %s", food.Name)
	fc.notifier.FoodChanged(food)
	return &food, nil
}

// Update replaces every writable field. Stock is written as an absolute count,
// the same stock-take override as SetStock: units the ledger consumed before the
// row lock is granted are replaced by the caller's number. Zero stock always
// forces the item unavailable; otherwise the caller's flag wins.
func (fc *FoodCatalog) Update(ctx context.Context, id uint, in FoodInput) (*models.FoodItem, error) {
	if err := validateFoodInput(in); err != nil {
		return nil, err
	}

	var food *models.FoodItem
	err := fc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := fc.getForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := categoryExists(tx, in.CategoryID); err != nil {
			return err
		}

		current.Name = in.Name
		current.CategoryID = in.CategoryID
		current.Price = in.Price.Round(2)
		current.Stock = in.Stock
		current.IsAvailable = in.IsAvailable && in.Stock > 0
		if err := tx.Save(current).Error; err != nil {
			return internal(err, "failed to update food item")
		}
		food = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update food item")
	}

	fc.notifier.FoodChanged(*food)
	return food, nil
}

// SetStock overwrites the stock count from a stock take. Reaching zero marks the
// item unavailable; restocking an item that was sold out makes it available again.
func (fc *FoodCatalog) SetStock(ctx context.Context, id uint, stock int) (*models.FoodItem, error) {
	if stock < 0 {
		return nil, validationError("Invalid stock value. Stock must be a non-negative integer.")
	}

	var food *models.FoodItem
	err := fc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := fc.getForUpdate(tx, id)
		if err != nil {
			return err
		}

		available := current.IsAvailable
		switch {
		case stock == 0:
			available = false
		case current.Stock == 0 && !current.IsAvailable:
			available = true
		}

		if err := tx.Model(current).Updates(map[string]interface{}{
			"stock":        stock,
			"is_available": available,
		}).Error; err != nil {
			return internal(err, "failed to update food stock")
		}
		current.Stock = stock
		current.IsAvailable = available
		food = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update food stock")
	}

	fc.log.WithField("food_id", id).Infof("Stock set to %d (available=%t)", food.Stock, food.IsAvailable)
	fc.notifier.FoodChanged(*food)
	return food, nil
}

// ToggleAvailability is the manual switch. An item without stock cannot be
// switched on.
func (fc *FoodCatalog) ToggleAvailability(ctx context.Context, id uint, available bool) (*models.FoodItem, error) {
	var food *models.FoodItem
	err := fc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := fc.GetByID(tx, id)
		if err != nil {
			return err
		}
		if available && current.Stock == 0 {
			return ruleViolation(ErrOutOfStock, "Food item ID %d has no stock and cannot be made available", id)
		}
		if err := fc.SetAvailability(tx, id, available); err != nil {
			return err
		}
		current.IsAvailable = available
		food = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update food availability")
	}

	fc.notifier.FoodChanged(*food)
	return food, nil
}

// Delete refuses to remove food that order lines still point at.
func (fc *FoodCatalog) Delete(ctx context.Context, id uint) error {
	err := fc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fc.GetByID(tx, id); err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.OrderDetail{}).Where("food_id = ?", id).Count(&refs).Error; err != nil {
			return internal(err, "failed to check food references")
		}
		if refs > 0 {
			return conflict("Food item ID %d cannot be deleted: it is referenced by %d order detail(s)", id, refs)
		}

		if err := tx.Delete(&models.FoodItem{}, id).Error; err != nil {
			return internal(err, "failed to delete food item")
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "failed to delete food item")
	}

	fc.log.WithField("food_id", id).Info("Food item deleted")
	return nil
}

func validateFoodInput(in FoodInput) error {
	if !utils.ValidName(in.Name) {
		return validationError("Invalid name. Use letters, digits, spaces and basic punctuation.")
	}
	if in.CategoryID == 0 {
		return validationError("Invalid category_id. Please input valid category_id.")
	}
	if in.Price.IsNegative() {
		return validationError("Invalid price number. Price must not be negative.")
	}
	if in.Stock < 0 {
		return validationError("Invalid stock value. Stock must be a non-negative integer.")
	}
	return nil
}

func categoryExists(tx *gorm.DB, id uint) error {
	var category models.Category
	if err := tx.Select("category_id").First(&category, id).Error; err != nil {
		return lookupError(err, "Category", id)
	}
	return nil
}
