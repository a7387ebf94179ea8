package userControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/apifeatures"
	authControllers "github.com/amanymoammer22/backend/controllers/auth"
	"github.com/amanymoammer22/backend/controllers/factory"
	"github.com/amanymoammer22/backend/middleware"
	"github.com/amanymoammer22/backend/models"
)

const bcryptCost = 12

// Schema drives the /users listing pipeline: keyword matches the name
// column and no filterable field is reference-typed.
var Schema = apifeatures.Schema{
	SearchFields: []string{"name"},
}

type CreateUserInput struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role"`
}

type UpdateUserInput struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email"`
	Phone *string      `json:"phone"`
	Role  *models.Role `json:"role"`
}

type UpdateMeInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string  `json:"currentPassword"`
	Password        string  `json:"password" binding:"required,min=6"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

// GET /users
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return factory.GetAll[models.User](db, Schema)
}

// GET /users/:id
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return factory.GetOne[models.User](db)
}

// DELETE /users/:id
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return factory.DeleteOne[models.User](db)
}

// POST /users
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		role := input.Role
		if role == "" {
			role = models.RoleUser
		}
		if role != models.RoleUser && role != models.RoleManager && role != models.RoleAdmin {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Invalid role"))
			return
		}

		address := normalizeEmail(input.Email)
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
			Phone:    input.Phone,
			Password: string(hash),
			Role:     role,
			Active:   true,
		}
		if err := db.Create(&user).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": user})
	}
}

// PUT /users/:id
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "No document for this id "+id))
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Email != nil {
			address := normalizeEmail(*input.Email)
			if taken, err := emailInUse(db, address, user.ID); err != nil {
				apierrors.Respond(c, err)
				return
			} else if taken {
				apierrors.Respond(c, apierrors.New(apierrors.Conflict, "E-mail already in use"))
				return
			}
			updates["email"] = address
		}
		if input.Role != nil {
			role := *input.Role
			if role != models.RoleUser && role != models.RoleManager && role != models.RoleAdmin {
				apierrors.Respond(c, apierrors.New(apierrors.Validation, "Invalid role"))
				return
			}
			updates["role"] = role
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				apierrors.Respond(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": user})
	}
}

// PUT /users/changePassword/:id
func ChangeUserPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "No document for this id "+id))
			return
		}

		var input ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		if err := setPassword(db, &user, input.Password); err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": user})
	}
}

// GET /users/getMe
func GetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"data": user})
	}
}

// PUT /users/updateMe
//
// Sensitive fields (password, role) are not reachable through this route.
func UpdateMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input UpdateMeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Email != nil {
			address := normalizeEmail(*input.Email)
			if taken, err := emailInUse(db, address, user.ID); err != nil {
				apierrors.Respond(c, err)
				return
			} else if taken {
				apierrors.Respond(c, apierrors.New(apierrors.Conflict, "E-mail already in use"))
				return
			}
			updates["email"] = address
		}

		if len(updates) > 0 {
			if err := db.Model(user).Updates(updates).Error; err != nil {
				apierrors.Respond(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": user})
	}
}

// PUT /users/changeMyPassword
func ChangeMyPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}
		if input.PasswordConfirm != nil && *input.PasswordConfirm != input.Password {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, "Password confirmation incorrect"))
			return
		}
		if input.CurrentPassword != "" {
			if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)) != nil {
				apierrors.Respond(c, apierrors.New(apierrors.Validation, "Incorrect current password"))
				return
			}
		}

		if err := setPassword(db, user, input.Password); err != nil {
			apierrors.Respond(c, err)
			return
		}

		// The password change just invalidated the caller's token; hand
		// back a fresh one so they stay logged in.
		token, err := authControllers.CreateToken(user.ID)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": user, "token": token})
	}
}

// DELETE /users/deleteMe
//
// Soft delete: the record stays, only the active flag flips.
func DeleteMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if err := db.Model(user).Update("active", false).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func setPassword(db *gorm.DB, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	return db.Model(user).Updates(map[string]interface{}{
		"password":            string(hash),
		"password_changed_at": time.Now(),
	}).Error
}

func emailInUse(db *gorm.DB, address, exceptUserID string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("email = ? AND id <> ?", address, exceptUserID).
		Count(&count).Error
	return count > 0, err
}

func normalizeEmail(raw string) string {
	return authControllers.NormalizeEmail(raw)
}
