package productControllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/apifeatures"
	"github.com/amanymoammer22/backend/controllers/factory"
	"github.com/amanymoammer22/backend/email"
	"github.com/amanymoammer22/backend/models"
)

// Schema drives the /products listing pipeline. Keyword search matches
// title and description; category filters must carry a numeric id.
var Schema = apifeatures.Schema{
	SearchFields: []string{"title", "description"},
	ReferenceFields: map[string]bool{
		"category_id": true,
	},
	Renames: map[string]string{
		"category": "category_id",
	},
}

type ProductInput struct {
	Title              string   `json:"title" binding:"required,min=3,max=100"`
	Description        string   `json:"description" binding:"required,min=20"`
	Quantity           int      `json:"quantity" binding:"required,min=0"`
	Price              float64  `json:"price" binding:"required,gt=0"`
	PriceAfterDiscount *float64 `json:"priceAfterDiscount"`
	ImageCover         string   `json:"imageCover"`
	CategoryID         uint     `json:"categoryId" binding:"required"`
}

type UpdateProductInput struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Quantity           *int     `json:"quantity"`
	Price              *float64 `json:"price"`
	PriceAfterDiscount *float64 `json:"priceAfterDiscount"`
	ImageCover         *string  `json:"imageCover"`
	CategoryID         *uint    `json:"categoryId"`
}

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return factory.GetAll[models.Product](db, Schema, "Category")
}

// GET /products/:id
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return factory.GetOne[models.Product](db, "Category")
}

// DELETE /products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return factory.DeleteOne[models.Product](db)
}

// POST /products
func CreateProduct(db *gorm.DB, mailer email.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}
		if input.Price > models.MaxProductPrice {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Too long product price"))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", input.CategoryID).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Product must belong to an existing category"))
			return
		}

		product := models.Product{
			Title:              input.Title,
			Slug:               slug.Make(input.Title),
			Description:        input.Description,
			Quantity:           input.Quantity,
			Price:              input.Price,
			PriceAfterDiscount: input.PriceAfterDiscount,
			ImageCover:         input.ImageCover,
			CategoryID:         input.CategoryID,
		}
		if err := db.Create(&product).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		product.Category = category

		notifySubscribers(db, mailer, product)

		c.JSON(http.StatusCreated, gin.H{"data": product})
	}
}

// PUT /products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "No document for this id "+id))
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Title != nil {
			if len(*input.Title) < 3 || len(*input.Title) > 100 {
				apierrors.Respond(c, apierrors.New(apierrors.Validation, "Product title must be between 3 and 100 characters"))
				return
			}
			updates["title"] = *input.Title
			updates["slug"] = slug.Make(*input.Title)
		}
		if input.Description != nil {
			if len(*input.Description) < 20 {
				apierrors.Respond(c, apierrors.New(apierrors.Validation, "Too short product description"))
				return
			}
			updates["description"] = *input.Description
		}
		if input.Quantity != nil {
			updates["quantity"] = *input.Quantity
		}
		if input.Price != nil {
			if *input.Price <= 0 || *input.Price > models.MaxProductPrice {
				apierrors.Respond(c, apierrors.New(apierrors.Validation, "Invalid product price"))
				return
			}
			updates["price"] = *input.Price
		}
		if input.PriceAfterDiscount != nil {
			updates["price_after_discount"] = *input.PriceAfterDiscount
		}
		if input.ImageCover != nil {
			updates["image_cover"] = *input.ImageCover
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, "id = ?", *input.CategoryID).Error; err != nil {
				apierrors.Respond(c, apierrors.New(apierrors.Validation, "Product must belong to an existing category"))
				return
			}
			updates["category_id"] = *input.CategoryID
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				apierrors.Respond(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": product})
	}
}

// notifySubscribers mails every subscriber about a new product. Dispatch
// failures are logged; the product is already persisted and the create
// must not fail because of them.
func notifySubscribers(db *gorm.DB, mailer email.Sender, product models.Product) {
	if mailer == nil {
		return
	}
	var subscribers []models.Subscriber
	if err := db.Find(&subscribers).Error; err != nil {
		log.Println("failed to load subscribers for notification:", err)
		return
	}
	for _, sub := range subscribers {
		name := sub.Name
		if name == "" {
			name = "there"
		}
		body := fmt.Sprintf(
			"Hi %s,\n\nWe just added a new product: %q!\n\nPrice: $%.2f\n\nVisit our shop to check it out.\n\nHappy shopping!",
			name, product.Title, product.Price,
		)
		if err := mailer.Send(sub.Email, "New Product: "+product.Title, body); err != nil {
			log.Println("failed to notify subscriber", sub.Email, ":", err)
		}
	}
}
