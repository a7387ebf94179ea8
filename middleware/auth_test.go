package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authControllers "github.com/amanymoammer22/backend/controllers/auth"
	"github.com/amanymoammer22/backend/middleware"
	"github.com/amanymoammer22/backend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:middleware?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.User{}))
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.ValidateToken(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.CurrentUser(c).ID})
	})
	r.GET("/admin-only", middleware.ValidateToken(db), middleware.AllowedTo(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.NewString(),
		Name:     "Test User",
		Email:    uuid.NewString() + "@example.com",
		Password: "irrelevant-hash",
		Role:     role,
		Active:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, models.RoleUser)

	token, err := authControllers.CreateToken(user.ID)
	require.NoError(t, err)

	// Valid token resolves the user.
	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)

	// Missing header.
	w = get(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = get(r, "/me", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token whose user no longer exists.
	ghost, err := authControllers.CreateToken(uuid.NewString())
	require.NoError(t, err)
	w = get(r, "/me", ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenInvalidatedByPasswordChange(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, models.RoleUser)

	oldToken, err := authControllers.CreateToken(user.ID)
	require.NoError(t, err)

	w := get(r, "/me", oldToken)
	require.Equal(t, http.StatusOK, w.Code)

	// Simulate a password change after the token was issued.
	changed := time.Now().Add(2 * time.Second)
	require.NoError(t, db.Model(user).Update("password_changed_at", changed).Error)

	w = get(r, "/me", oldToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A token minted after the change keeps working. Its iat must be at or
	// past the change instant, so wait out the stamp above.
	time.Sleep(2100 * time.Millisecond)
	freshToken, err := authControllers.CreateToken(user.ID)
	require.NoError(t, err)
	w = get(r, "/me", freshToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAllowedTo(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupTestDB(t)
	r := setupRouter(db)

	regular := createUser(t, db, models.RoleUser)
	admin := createUser(t, db, models.RoleAdmin)

	regularToken, err := authControllers.CreateToken(regular.ID)
	require.NoError(t, err)
	adminToken, err := authControllers.CreateToken(admin.ID)
	require.NoError(t, err)

	w := get(r, "/admin-only", regularToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, "/admin-only", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
