package cartControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/middleware"
	"github.com/amanymoammer22/backend/models"
)

type AddItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// POST /cart
//
// Lazily creates the user's cart on first add. Adding a product already in
// the cart bumps its quantity instead of creating a second line item.
func AddProductToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "Product not found"))
			return
		}

		var cart models.Cart
		err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: user.ID}
			if err := db.Create(&cart).Error; err != nil {
				apierrors.Respond(c, err)
				return
			}
		} else if err != nil {
			apierrors.Respond(c, err)
			return
		}

		found := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == product.ID {
				cart.Items[i].Quantity++
				cart.Items[i].Title = product.Title
				cart.Items[i].ImageCover = product.ImageCover
				if err := db.Save(&cart.Items[i]).Error; err != nil {
					apierrors.Respond(c, err)
					return
				}
				found = true
				break
			}
		}
		if !found {
			item := models.CartItem{
				CartID:     cart.ID,
				ProductID:  product.ID,
				Title:      product.Title,
				ImageCover: product.ImageCover,
				Price:      product.Price,
				Quantity:   1,
			}
			if err := db.Create(&item).Error; err != nil {
				apierrors.Respond(c, err)
				return
			}
			cart.Items = append(cart.Items, item)
		}

		if err := saveTotal(db, &cart); err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "success",
			"message":        "Product added to cart successfully",
			"numOfCartItems": len(cart.Items),
			"data":           cart,
		})
	}
}

// GET /cart
func GetMyCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.Status(http.StatusNoContent)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "success",
			"numOfCartItems": len(cart.Items),
			"data":           cart,
		})
	}
}

// PUT /cart/:itemId
func UpdateCartItemQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		itemID := c.Param("itemId")

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.Status(http.StatusNoContent)
			return
		}

		found := false
		for i := range cart.Items {
			if itemID == itemParam(cart.Items[i].ID) {
				cart.Items[i].Quantity = input.Quantity
				if err := db.Save(&cart.Items[i]).Error; err != nil {
					apierrors.Respond(c, err)
					return
				}
				found = true
				break
			}
		}
		if !found {
			c.Status(http.StatusNoContent)
			return
		}

		if err := saveTotal(db, &cart); err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "success",
			"numOfCartItems": len(cart.Items),
			"data":           cart,
		})
	}
}

// DELETE /cart/:itemId
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		itemID := c.Param("itemId")

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "Cart not found"))
			return
		}

		remaining := cart.Items[:0]
		for _, item := range cart.Items {
			if itemParam(item.ID) == itemID {
				if err := db.Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
					apierrors.Respond(c, err)
					return
				}
				continue
			}
			remaining = append(remaining, item)
		}
		cart.Items = remaining

		if err := saveTotal(db, &cart); err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "success",
			"numOfCartItems": len(cart.Items),
			"data":           cart,
		})
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err == nil {
			db.Delete(&models.CartItem{}, "cart_id = ?", cart.ID)
			db.Delete(&cart)
		}
		c.Status(http.StatusNoContent)
	}
}

// saveTotal recomputes and persists the derived cart total. The total is
// never accepted from a client.
func saveTotal(db *gorm.DB, cart *models.Cart) error {
	cart.RecalcTotal()
	return db.Model(cart).Update("total_cart_price", cart.TotalCartPrice).Error
}

func itemParam(id uint) string {
	return fmt.Sprint(id)
}
