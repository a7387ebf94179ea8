package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminControllers "github.com/amanymoammer22/backend/controllers/admin"
	orderControllers "github.com/amanymoammer22/backend/controllers/order"
	"github.com/amanymoammer22/backend/middleware"
	"github.com/amanymoammer22/backend/models"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Admin role only.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(db), middleware.AllowedTo(models.RoleAdmin))
	{
		adminGroup.GET("/stats", adminControllers.GetStats(db))
		adminGroup.GET("/dashboard", adminControllers.GetDashboard(db))

		orderMgmt := adminGroup.Group("/orders")
		{
			orderMgmt.GET("", adminControllers.GetOrders(db))
			orderMgmt.PATCH("/:id/status", adminControllers.UpdateOrderStatus(db))
			orderMgmt.GET("/export-excel", adminControllers.ExportOrdersToExcel(db))
			orderMgmt.GET("/ws", orderControllers.OrderFeed)
		}
	}
}
