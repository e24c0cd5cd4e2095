package services

import "github.com/yeremiapane/food-kiosk-api/models"

// Notifier receives committed catalog and order changes. The kiosk display hub
// implements it; every call happens after the owning transaction commits.
type Notifier interface {
	FoodChanged(food models.FoodItem)
	OrderChanged(order models.Order)
}

type nopNotifier struct{}

func (nopNotifier) FoodChanged(models.FoodItem) {}
func (nopNotifier) OrderChanged(models.Order)   {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
