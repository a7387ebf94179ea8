package subscriberControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/apifeatures"
	authControllers "github.com/amanymoammer22/backend/controllers/auth"
	"github.com/amanymoammer22/backend/controllers/factory"
	"github.com/amanymoammer22/backend/models"
)

var Schema = apifeatures.Schema{
	SearchFields: []string{"name"},
}

type SubscribeInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message"`
}

// POST /subscribe
func CreateSubscription(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SubscribeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		address := authControllers.NormalizeEmail(input.Email)
		var existing models.Subscriber
		if err := db.Where("email = ?", address).First(&existing).Error; err == nil {
			apierrors.Respond(c, apierrors.New(apierrors.Conflict, "You are already subscribed!"))
			return
		}

		subscriber := models.Subscriber{
			Name:    input.Name,
			Email:   address,
			Message: input.Message,
		}
		if err := db.Create(&subscriber).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "data": subscriber})
	}
}

// GET /subscribe
func GetSubscribers(db *gorm.DB) gin.HandlerFunc {
	return factory.GetAll[models.Subscriber](db, Schema)
}
