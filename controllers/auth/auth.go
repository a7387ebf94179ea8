package authControllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/email"
	"github.com/amanymoammer22/backend/models"
)

const bcryptCost = 12

type SignupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeInput struct {
	Email     string `json:"email" binding:"required,email"`
	ResetCode string `json:"resetCode" binding:"required"`
}

type ResetPasswordInput struct {
	Email           string  `json:"email" binding:"required,email"`
	NewPassword     string  `json:"newPassword" binding:"required,min=6"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

// NormalizeEmail lowercases and trims an address; emails are stored and
// compared in this form everywhere.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// POST /auth/signup
func Signup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SignupInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		address := NormalizeEmail(input.Email)
		var existing models.User
		if err := db.Where("email = ?", address).First(&existing).Error; err == nil {
			apierrors.Respond(c, apierrors.New(apierrors.Conflict, "E-mail already in use"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		user := models.User{
			ID:       uuid.NewString(),
			Name:     input.Name,
			Email:    address,
			Password: string(hash),
			Role:     models.RoleUser,
			Active:   true,
		}
		if err := db.Create(&user).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		token, err := CreateToken(user.ID)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": user, "token": token})
	}
}

// POST /auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		// Unknown email and wrong password collapse to one message so
		// callers cannot enumerate accounts.
		var user models.User
		err := db.Where("email = ?", NormalizeEmail(input.Email)).First(&user).Error
		if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Authentication, "Incorrect email or password"))
			return
		}

		token, err := CreateToken(user.ID)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": user, "token": token})
	}
}

// POST /auth/forgotPassword
func ForgotPassword(db *gorm.DB, mailer email.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ForgotPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		address := NormalizeEmail(input.Email)
		var user models.User
		if err := db.Where("email = ?", address).First(&user).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "There is no user with that email "+address))
			return
		}

		resetCode := generateResetCode()
		expires := time.Now().Add(10 * time.Minute)
		updates := map[string]interface{}{
			"password_reset_code":     hashResetCode(resetCode),
			"password_reset_expires":  expires,
			"password_reset_verified": false,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		displayName := user.Name
		if displayName == "" {
			displayName = user.Email
		}
		body := fmt.Sprintf(
			"Hi %s,\nWe received a request to reset the password on your E-shop account.\n%s\nEnter this code to complete the reset.\nThis code will expire in 10 minutes.\nThe E-shop Team",
			displayName, resetCode,
		)

		if err := mailer.Send(user.Email, "Your password reset code (valid for 10 min)", body); err != nil {
			// Roll the reset state back so no dangling unusable code
			// persists when the mail never went out.
			db.Model(&user).Updates(map[string]interface{}{
				"password_reset_code":     "",
				"password_reset_expires":  nil,
				"password_reset_verified": false,
			})
			apierrors.Respond(c, apierrors.New(apierrors.Delivery, "There is an error in sending email"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Reset code sent to email"})
	}
}

// POST /auth/verifyResetCode
func VerifyResetCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyResetCodeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		var user models.User
		err := db.Where(
			"email = ? AND password_reset_code = ? AND password_reset_expires > ?",
			NormalizeEmail(input.Email),
			hashResetCode(strings.TrimSpace(input.ResetCode)),
			time.Now(),
		).First(&user).Error
		if err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Reset code invalid or expired"))
			return
		}

		if err := db.Model(&user).Update("password_reset_verified", true).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Code verified"})
	}
}

// POST /auth/resetPassword
func ResetPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}
		if input.PasswordConfirm != nil && *input.PasswordConfirm != input.NewPassword {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Password confirmation incorrect"))
			return
		}

		address := NormalizeEmail(input.Email)
		var user models.User
		if err := db.Where("email = ?", address).First(&user).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "There is no user with email "+address))
			return
		}

		if !user.PasswordResetVerified || user.PasswordResetExpires == nil || user.PasswordResetExpires.Before(time.Now()) {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Reset code not verified or expired"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		// Stamping password_changed_at invalidates every previously issued
		// token; the consumed code is cleared so it can never replay.
		now := time.Now()
		updates := map[string]interface{}{
			"password":                string(hash),
			"password_changed_at":     now,
			"password_reset_code":     "",
			"password_reset_expires":  nil,
			"password_reset_verified": false,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		token, err := CreateToken(user.ID)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "token": token})
	}
}
