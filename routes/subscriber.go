package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	subscriberControllers "github.com/amanymoammer22/backend/controllers/subscriber"
)

// SetupSubscriberRoutes registers the "/subscribe" endpoints.
func SetupSubscriberRoutes(r *gin.Engine, db *gorm.DB) {
	subscribeGroup := r.Group("/subscribe")
	{
		subscribeGroup.POST("", subscriberControllers.CreateSubscription(db))
		subscribeGroup.GET("", subscriberControllers.GetSubscribers(db))
	}
}
