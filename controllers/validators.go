package controllers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yeremiapane/food-kiosk-api/utils"
)

var registerOnce sync.Once

// RegisterValidators adds the kiosk binding tags to gin's validator:
//
//	kiosk_name     letters, digits, spaces and menu-board punctuation
//	discount_code  3-32 upper-case letters, digits, '-' or '_'
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("kiosk_name", func(fl validator.FieldLevel) bool {
			return utils.ValidName(fl.Field().String())
		})
		v.RegisterValidation("discount_code", func(fl validator.FieldLevel) bool {
			return utils.ValidDiscountCode(fl.Field().String())
		})
	})
}
