package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/amanymoammer22/backend/controllers/order"
	"github.com/amanymoammer22/backend/middleware"
)

// SetupOrderRoutes registers all "/orders/*" endpoints. Session required.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.ValidateToken(db))
	{
		orderGroup.POST("", orderControllers.Checkout(db))
		orderGroup.GET("/my", orderControllers.GetMyOrders(db))
	}
}
