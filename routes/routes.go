package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/email"
)

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, mailer email.Sender) {
	SetupAuthRoutes(r, db, mailer)
	SetupUserRoutes(r, db)
	SetupProductRoutes(r, db, mailer)
	SetupCartRoutes(r, db)
	SetupOrderRoutes(r, db)
	SetupAdminRoutes(r, db)
	SetupSubscriberRoutes(r, db)
}
