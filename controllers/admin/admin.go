package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/apifeatures"
	"github.com/amanymoammer22/backend/controllers/factory"
	"github.com/amanymoammer22/backend/models"
)

// OrderSchema drives the /admin/orders listing: keyword search matches the
// embedded customer snapshot.
var OrderSchema = apifeatures.Schema{
	SearchFields: []string{"customer_name", "customer_email", "customer_phone"},
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// GET /admin/stats
func GetStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products, orders, pending int64
		if err := db.Model(&models.Product{}).Count(&products).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		if err := db.Model(&models.Order{}).Count(&orders).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		if err := db.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusPending).
			Count(&pending).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		var revenue float64
		if err := db.Model(&models.Order{}).
			Select("COALESCE(SUM(total), 0)").
			Scan(&revenue).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products":      products,
			"totalOrders":   orders,
			"pendingOrders": pending,
			"revenue":       revenue,
		})
	}
}

// GET /admin/orders
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return factory.GetAll[models.Order](db, OrderSchema, "Items")
}

// PATCH /admin/orders/:id/status
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}
		if !models.ValidOrderStatus(input.Status) {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Invalid status"))
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "Order not found"))
			return
		}

		if err := db.Model(&order).Update("status", input.Status).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": order})
	}
}

// GET /admin/dashboard
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products, users, orders, pending int64
		var revenue float64

		if err := db.Model(&models.Product{}).Count(&products).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		if err := db.Model(&models.Order{}).Count(&orders).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		if err := db.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusPending).
			Count(&pending).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		if err := db.Model(&models.Order{}).
			Select("COALESCE(SUM(total), 0)").
			Scan(&revenue).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totalProducts": products,
			"totalUsers":    users,
			"totalOrders":   orders,
			"pendingOrders": pending,
			"totalRevenue":  revenue,
		})
	}
}
