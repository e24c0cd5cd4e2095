package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

var maxPercentage = decimal.NewFromInt(100)

// DiscountPatch carries the fields of a partial update; nil means unchanged.
type DiscountPatch struct {
	Code       *string
	Percentage *decimal.Decimal
	UsageLimit *int
	IsActive   *bool
}

func (p DiscountPatch) empty() bool {
	return p.Code == nil && p.Percentage == nil && p.UsageLimit == nil && p.IsActive == nil
}

// DiscountUsage is the usage counter view of a code.
type DiscountUsage struct {
	DiscountID uint `json:"discount_id"`
	UsageLimit *int `json:"usage_limit"`
	UsageCount int  `json:"usage_count"`
	Remaining  *int `json:"remaining"`
}

type DiscountBook struct {
	DB  *gorm.DB
	log *logrus.Entry
}

func NewDiscountBook(db *gorm.DB) *DiscountBook {
	return &DiscountBook{DB: db, log: utils.Component("discount_book")}
}

func (b *DiscountBook) Create(ctx context.Context, code string, percentage decimal.Decimal, usageLimit *int) (*models.Discount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateDiscount(&code, &percentage, usageLimit); err != nil {
		return nil, err
	}

	discount := models.Discount{
		Code:       code,
		Percentage: percentage.Round(2),
		UsageLimit: usageLimit,
		IsActive:   true,
	}
	err := b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := codeAvailable(tx, code, 0); err != nil {
			return err
		}
		if err := tx.Create(&discount).Error; err != nil {
			return writeError(err, code, "failed to create discount")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to create discount")
	}

	b.log.WithField("discount_id", discount.ID).Infof("Discount %s created", discount.Code)
	return &discount, nil
}

func (b *DiscountBook) List(ctx context.Context) ([]models.Discount, error) {
	var discounts []models.Discount
	if err := b.DB.WithContext(ctx).Order("code ASC").Find(&discounts).Error; err != nil {
		return nil, internal(err, "failed to list discounts")
	}
	return discounts, nil
}

// GetByCode looks up an active code that still has uses left.
func (b *DiscountBook) GetByCode(ctx context.Context, code string) (*models.Discount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, validationError("Discount code query parameter is required.")
	}

	discount, err := activeDiscount(b.DB.WithContext(ctx), code)
	if err != nil {
		return nil, err
	}
	if discount.Exhausted() {
		return nil, ruleViolation(ErrDiscountExhausted, "Discount code '%s' has reached its usage limit.", code)
	}
	return discount, nil
}

func (b *DiscountBook) Usage(ctx context.Context, id uint) (*DiscountUsage, error) {
	var discount models.Discount
	if err := b.DB.WithContext(ctx).First(&discount, id).Error; err != nil {
		return nil, lookupError(err, "Discount", id)
	}

	usage := &DiscountUsage{
		DiscountID: discount.ID,
		UsageLimit: discount.UsageLimit,
		UsageCount: discount.UsageCount,
	}
	if discount.UsageLimit != nil {
		left := *discount.UsageLimit - discount.UsageCount
		if left < 0 {
			left = 0
		}
		usage.Remaining = &left
	}
	return usage, nil
}

func (b *DiscountBook) Update(ctx context.Context, id uint, patch DiscountPatch) (*models.Discount, error) {
	if patch.empty() {
		return nil, validationError("At least one field must be provided for update.")
	}
	if patch.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*patch.Code))
		patch.Code = &code
	}
	if err := validateDiscount(patch.Code, patch.Percentage, patch.UsageLimit); err != nil {
		return nil, err
	}

	var discount models.Discount
	err := b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&discount, id).Error; err != nil {
			return lookupError(err, "Discount", id)
		}

		changes := map[string]interface{}{}
		if patch.Code != nil {
			if err := codeAvailable(tx, *patch.Code, id); err != nil {
				return err
			}
			changes["code"] = *patch.Code
		}
		if patch.Percentage != nil {
			changes["percentage"] = patch.Percentage.Round(2)
		}
		if patch.UsageLimit != nil {
			changes["usage_limit"] = *patch.UsageLimit
		}
		if patch.IsActive != nil {
			changes["is_active"] = *patch.IsActive
		}

		if err := tx.Model(&discount).Updates(changes).Error; err != nil {
			return writeError(err, discount.Code, "failed to update discount")
		}
		return tx.First(&discount, id).Error
	})
	if err != nil {
		return nil, passThrough(err, "failed to update discount")
	}

	b.log.WithField("discount_id", id).Info("Discount updated")
	return &discount, nil
}

func (b *DiscountBook) Delete(ctx context.Context, id uint) error {
	res := b.DB.WithContext(ctx).Delete(&models.Discount{}, id)
	if res.Error != nil {
		return internal(res.Error, "failed to delete discount")
	}
	if res.RowsAffected == 0 {
		return notFound("Discount ID %d not found", id)
	}
	b.log.WithField("discount_id", id).Info("Discount deleted")
	return nil
}

// Redeem consumes one use of an active code. The counter moves in a single
// guarded UPDATE so two kiosks cannot both take the last use.
func (b *DiscountBook) Redeem(ctx context.Context, code string) (*models.Discount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !utils.ValidDiscountCode(code) {
		return nil, validationError("Invalid discount code.")
	}

	var discount *models.Discount
	err := b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := activeDiscount(tx, code)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Discount{}).
			Where("discount_id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", current.ID).
			Update("usage_count", gorm.Expr("usage_count + 1"))
		if res.Error != nil {
			return internal(res.Error, "failed to redeem discount")
		}
		if res.RowsAffected == 0 {
			return ruleViolation(ErrDiscountExhausted, "Discount code '%s' has reached its usage limit.", code)
		}

		current.UsageCount++
		discount = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to redeem discount")
	}

	b.log.WithField("discount_id", discount.ID).Infof("Discount %s redeemed (%d used)", discount.Code, discount.UsageCount)
	return discount, nil
}

func activeDiscount(tx *gorm.DB, code string) (*models.Discount, error) {
	var discount models.Discount
	err := tx.Where("code = ? AND is_active = ?", code, true).First(&discount).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Discount code '%s' is invalid or inactive.", code)
	}
	if err != nil {
		return nil, internal(err, "failed to load discount")
	}
	return &discount, nil
}

func codeAvailable(tx *gorm.DB, code string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.Discount{}).
		Where("code = ? AND discount_id <> ?", code, exceptID).
		Count(&count).Error; err != nil {
		return internal(err, "failed to check discount code")
	}
	if count > 0 {
		return conflict("Discount code '%s' already exists.", code)
	}
	return nil
}

func writeError(err error, code, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict("Discount code '%s' already exists.", code)
	}
	return internal(err, op)
}

func validateDiscount(code *string, percentage *decimal.Decimal, usageLimit *int) error {
	if code != nil && !utils.ValidDiscountCode(*code) {
		return validationError("Invalid code. Use 3-32 upper-case letters, digits, '-' or '_'.")
	}
	if percentage != nil && (percentage.IsNegative() || percentage.GreaterThan(maxPercentage)) {
		return validationError("Percentage must be between 0 and 100.")
	}
	if usageLimit != nil && *usageLimit < 0 {
		return validationError("usage_limit must not be negative.")
	}
	return nil
}
