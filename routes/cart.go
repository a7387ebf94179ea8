package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/amanymoammer22/backend/controllers/cart"
	"github.com/amanymoammer22/backend/middleware"
)

// SetupCartRoutes registers all "/cart/*" endpoints. Session required.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken(db))
	{
		cartGroup.POST("", cartControllers.AddProductToCart(db))
		cartGroup.GET("", cartControllers.GetMyCart(db))
		cartGroup.PUT("/:itemId", cartControllers.UpdateCartItemQuantity(db))
		cartGroup.DELETE("/:itemId", cartControllers.RemoveCartItem(db))
		cartGroup.DELETE("", cartControllers.ClearCart(db))
	}
}
