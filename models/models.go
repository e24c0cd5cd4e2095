package models

import "github.com/shopspring/decimal"

func init() {
	// Money renders as JSON numbers for the kiosk front-end.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&FoodItem{},
		&Customer{},
		&Order{},
		&OrderDetail{},
		&Discount{},
	}
}
