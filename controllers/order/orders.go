package orderControllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/middleware"
	"github.com/amanymoammer22/backend/models"
)

type CheckoutInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// POST /orders
//
// Checks out the caller's cart: locks and decrements product stock, creates
// the order with a customer snapshot, and deletes the cart, all in one
// transaction. The fresh order is broadcast to websocket listeners.
func Checkout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		// Body is optional; an empty request falls back to the session
		// user's own contact details.
		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "Cart not found"))
			return
		}
		if len(cart.Items) == 0 {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Cart is empty"))
			return
		}

		customerName := input.Name
		if customerName == "" {
			customerName = user.Name
		}
		customerPhone := input.Phone
		if customerPhone == "" {
			customerPhone = user.Phone
		}

		order := models.Order{
			Customer: models.Customer{
				Name:   customerName,
				Email:  user.Email,
				Phone:  customerPhone,
				UserID: &user.ID,
			},
			Status: models.OrderStatusPending,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, item := range cart.Items {
				var product models.Product
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&product, "id = ?", item.ProductID).Error; err != nil {
					return apierrors.New(apierrors.NotFound, "Product no longer exists: "+item.Title)
				}
				if product.Quantity < item.Quantity {
					return apierrors.New(apierrors.Validation, "Insufficient stock for product: "+item.Title)
				}
				product.Quantity -= item.Quantity
				if err := tx.Save(&product).Error; err != nil {
					return err
				}

				order.Items = append(order.Items, models.OrderItem{
					ProductID: item.ProductID,
					Title:     item.Title,
					Price:     item.Price,
					Quantity:  item.Quantity,
				})
			}

			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&cart).Error
		})
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		BroadcastOrder(order)

		c.JSON(http.StatusCreated, gin.H{"status": "success", "data": order})
	}
}

// GET /orders/my
func GetMyOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var orders []models.Order
		if err := db.Preload("Items").
			Where("customer_user_id = ?", user.ID).
			Order("created_at DESC, id DESC").
			Find(&orders).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": len(orders), "data": orders})
	}
}
