package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-kiosk-api/config"
	"github.com/yeremiapane/food-kiosk-api/controllers"
	"github.com/yeremiapane/food-kiosk-api/kds"
	"github.com/yeremiapane/food-kiosk-api/middlewares"
	"github.com/yeremiapane/food-kiosk-api/services"
)

func SetupRouter(db *gorm.DB, hub *kds.Hub, cfg config.Config) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	// Apply middlewares
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	if cfg.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}

	// Stores dan ledger berbagi satu pool dan satu hub
	var notifier services.Notifier
	if hub != nil {
		notifier = hub
	}
	catalog := services.NewFoodCatalog(db, notifier)
	orders := services.NewOrderStore(db, catalog, notifier)
	ledger := services.NewLedger(db, catalog, orders, notifier)
	discounts := services.NewDiscountBook(db)

	// Inisialisasi controller
	healthCtrl := controllers.NewHealthController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	customerCtrl := controllers.NewCustomerController(db)
	foodCtrl := controllers.NewFoodItemController(catalog)
	orderCtrl := controllers.NewOrderController(orders)
	detailCtrl := controllers.NewOrderDetailController(ledger)
	discountCtrl := controllers.NewDiscountController(discounts)

	r.GET("/health", healthCtrl.Health)
	if hub != nil {
		r.GET("/ws/kiosk", controllers.KioskFeedHandler(hub))
	}

	api := r.Group("/api")

	// CATEGORIES
	api.GET("/categories", categoryCtrl.GetAllCategories)
	api.POST("/categories", categoryCtrl.CreateCategory)
	api.GET("/categories/:categoryId", categoryCtrl.GetCategoryByID)
	api.PUT("/categories/:categoryId", categoryCtrl.UpdateCategory)
	api.DELETE("/categories/:categoryId", categoryCtrl.DeleteCategory)

	// FOOD ITEMS
	api.GET("/fooditems", foodCtrl.GetAllFoodItems)
	api.POST("/fooditems", foodCtrl.CreateFoodItem)
	api.GET("/fooditems/:foodId", foodCtrl.GetFoodItemByID)
	api.PUT("/fooditems/:foodId", foodCtrl.UpdateFoodItem)
	api.PATCH("/fooditems/:foodId/stock", foodCtrl.UpdateStock)
	api.PATCH("/fooditems/:foodId/availability", foodCtrl.UpdateAvailability)
	api.DELETE("/fooditems/:foodId", foodCtrl.DeleteFoodItem)

	// CUSTOMERS
	api.GET("/customers", customerCtrl.GetAllCustomers)
	api.POST("/customers", customerCtrl.CreateCustomer)
	api.GET("/customers/:customerId", customerCtrl.GetCustomerByID)
	api.PUT("/customers/:customerId", customerCtrl.UpdateCustomer)
	api.DELETE("/customers/:customerId", customerCtrl.DeleteCustomer)

	// ORDERS
	api.GET("/orders", orderCtrl.GetAllOrders)
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/:orderId", orderCtrl.GetOrderByID)
	api.PUT("/orders/:orderId/status", orderCtrl.UpdateOrderStatus)
	api.DELETE("/orders/:orderId", orderCtrl.DeleteOrder)

	// ORDER DETAILS dengan audit logger
	details := api.Group("/orders/:orderId/details")
	details.Use(middlewares.OrderDetailAuditMiddleware())
	{
		details.POST("", detailCtrl.AddDetail)
		details.GET("", detailCtrl.GetDetails)
		details.GET("/:detailId", detailCtrl.GetDetailByID)
		details.PUT("/:detailId", detailCtrl.UpdateDetail)
		details.DELETE("/:detailId", detailCtrl.RemoveDetail)
	}

	// DISCOUNTS
	api.GET("/discounts", discountCtrl.GetAllDiscounts)
	api.POST("/discounts", discountCtrl.CreateDiscount)
	api.GET("/discounts/apply", discountCtrl.ApplyDiscount)
	api.POST("/discounts/redeem", discountCtrl.RedeemDiscount)
	api.GET("/discounts/usage/:discountId", discountCtrl.GetDiscountUsage)
	api.PUT("/discounts/:discountId", discountCtrl.UpdateDiscount)
	api.DELETE("/discounts/:discountId", discountCtrl.DeleteDiscount)

	return r
}
