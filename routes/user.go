package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/amanymoammer22/backend/controllers/user"
	"github.com/amanymoammer22/backend/middleware"
	"github.com/amanymoammer22/backend/models"
)

// SetupUserRoutes registers all "/users/*" endpoints. Self-service routes
// need only a valid session; management routes are admin/manager.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/users")
	userGroup.Use(middleware.ValidateToken(db))
	{
		userGroup.GET("/getMe", userControllers.GetMe(db))
		userGroup.PUT("/updateMe", userControllers.UpdateMe(db))
		userGroup.PUT("/changeMyPassword", userControllers.ChangeMyPassword(db))
		userGroup.DELETE("/deleteMe", userControllers.DeleteMe(db))

		adminOnly := userGroup.Group("")
		adminOnly.Use(middleware.AllowedTo(models.RoleAdmin, models.RoleManager))
		{
			adminOnly.GET("", userControllers.GetUsers(db))
			adminOnly.POST("", userControllers.CreateUser(db))
			adminOnly.PUT("/changePassword/:id", userControllers.ChangeUserPassword(db))
			adminOnly.GET("/:id", userControllers.GetUser(db))
			adminOnly.PUT("/:id", userControllers.UpdateUser(db))
			adminOnly.DELETE("/:id", userControllers.DeleteUser(db))
		}
	}
}
