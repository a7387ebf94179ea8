package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/models"
)

// ContextUserKey is where ValidateToken stores the resolved user.
const ContextUserKey = "user"

// ValidateToken guards a route group with bearer-token authentication.
// It verifies the token signature and expiry, resolves the carried user id
// to a live record, and rejects tokens issued before the user's last
// password change.
func ValidateToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "You are not logged in, please login to get access to this route"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid token signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token claims"})
			return
		}
		userID, ok := claims["user_id"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token claims"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "The user belonging to this token no longer exists"})
			return
		}

		// A password change invalidates every token issued before it.
		if user.PasswordChangedAt != nil {
			issuedAt, ok := claims["iat"].(float64)
			if !ok || user.PasswordChangedAt.Unix() > int64(issuedAt) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User recently changed password, please login again"})
				return
			}
		}

		c.Set(ContextUserKey, &user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// AllowedTo gates a route by role. It must run after ValidateToken.
func AllowedTo(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "You are not logged in, please login to get access to this route"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You are not allowed to access this route"})
	}
}

// CurrentUser returns the user resolved by ValidateToken, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
