package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/amanymoammer22/backend/controllers/product"
	"github.com/amanymoammer22/backend/email"
	"github.com/amanymoammer22/backend/middleware"
	"github.com/amanymoammer22/backend/models"
)

// SetupProductRoutes registers "/products/*" and "/categories/*". Reads are
// public; mutations are admin/manager.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB, mailer email.Sender) {
	productGroup := r.Group("/products")
	{
		productGroup.GET("", productControllers.GetProducts(db))
		productGroup.GET("/:id", productControllers.GetProduct(db))

		productAdmin := productGroup.Group("")
		productAdmin.Use(middleware.ValidateToken(db), middleware.AllowedTo(models.RoleAdmin, models.RoleManager))
		{
			productAdmin.POST("", productControllers.CreateProduct(db, mailer))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(db))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(db))
		}
	}

	categoryGroup := r.Group("/categories")
	{
		categoryGroup.GET("", productControllers.GetCategories(db))
		categoryGroup.GET("/:id", productControllers.GetCategory(db))

		categoryAdmin := categoryGroup.Group("")
		categoryAdmin.Use(middleware.ValidateToken(db), middleware.AllowedTo(models.RoleAdmin, models.RoleManager))
		{
			categoryAdmin.POST("", productControllers.CreateCategory(db))
			categoryAdmin.PUT("/:id", productControllers.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", productControllers.DeleteCategory(db))
		}
	}
}
