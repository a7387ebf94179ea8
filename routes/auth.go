package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authControllers "github.com/amanymoammer22/backend/controllers/auth"
	"github.com/amanymoammer22/backend/email"
)

// SetupAuthRoutes registers all "/auth/*" endpoints. All public.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, mailer email.Sender) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authControllers.Signup(db))
		authGroup.POST("/login", authControllers.Login(db))
		authGroup.POST("/forgotPassword", authControllers.ForgotPassword(db, mailer))
		authGroup.POST("/verifyResetCode", authControllers.VerifyResetCode(db))
		authGroup.POST("/resetPassword", authControllers.ResetPassword(db))
	}
}
