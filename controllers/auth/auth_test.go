package authControllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authControllers "github.com/amanymoammer22/backend/controllers/auth"
	"github.com/amanymoammer22/backend/models"
)

type fakeSender struct {
	fail   bool
	to     string
	bodies []string
}

func (f *fakeSender) Send(to, subject, body string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.to = to
	f.bodies = append(f.bodies, body)
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (f *fakeSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.bodies)
	code := codePattern.FindString(f.bodies[len(f.bodies)-1])
	require.NotEmpty(t, code)
	return code
}

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:auth?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.User{}))
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func setupAuthRouter(db *gorm.DB, mailer *fakeSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/signup", authControllers.Signup(db))
	r.POST("/auth/login", authControllers.Login(db))
	r.POST("/auth/forgotPassword", authControllers.ForgotPassword(db, mailer))
	r.POST("/auth/verifyResetCode", authControllers.VerifyResetCode(db))
	r.POST("/auth/resetPassword", authControllers.ResetPassword(db))
	return r
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, r *gin.Engine, email, password string) {
	t.Helper()
	w := postJSON(r, "/auth/signup", gin.H{
		"name":     "Amany",
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupAuthDB(t)
	r := setupAuthRouter(db, &fakeSender{})

	signup(t, r, "Amany@Example.com", "secret123")

	// The address is stored normalized.
	var user models.User
	require.NoError(t, db.Where("email = ?", "amany@example.com").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Active)

	// Duplicate signup conflicts regardless of casing.
	w := postJSON(r, "/auth/signup", gin.H{
		"name":     "Amany",
		"email":    "AMANY@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the original casing works and returns a token.
	w = postJSON(r, "/auth/login", gin.H{"email": "Amany@Example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// The hash never leaks in the response body.
	assert.NotContains(t, w.Body.String(), user.Password)
}

func TestLoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupAuthDB(t)
	r := setupAuthRouter(db, &fakeSender{})
	signup(t, r, "known@example.com", "secret123")

	wrongPassword := postJSON(r, "/auth/login", gin.H{"email": "known@example.com", "password": "nope-nope"})
	unknownEmail := postJSON(r, "/auth/login", gin.H{"email": "nobody@example.com", "password": "secret123"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestPasswordResetFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupAuthDB(t)
	mailer := &fakeSender{}
	r := setupAuthRouter(db, mailer)
	signup(t, r, "reset@example.com", "oldpassword")

	w := postJSON(r, "/auth/forgotPassword", gin.H{"email": "reset@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "reset@example.com", mailer.to)
	code := mailer.lastCode(t)

	// The code is stored hashed, never in the clear.
	var user models.User
	require.NoError(t, db.Where("email = ?", "reset@example.com").First(&user).Error)
	assert.NotEmpty(t, user.PasswordResetCode)
	assert.NotEqual(t, code, user.PasswordResetCode)

	// Resetting before verification is refused.
	w = postJSON(r, "/auth/resetPassword", gin.H{"email": "reset@example.com", "newPassword": "newpassword"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A wrong code does not verify.
	w = postJSON(r, "/auth/verifyResetCode", gin.H{"email": "reset@example.com", "resetCode": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/auth/verifyResetCode", gin.H{"email": "reset@example.com", "resetCode": code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postJSON(r, "/auth/resetPassword", gin.H{
		"email":           "reset@example.com",
		"newPassword":     "newpassword",
		"passwordConfirm": "newpassword",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "token")

	// Old credentials are dead, new ones work.
	w = postJSON(r, "/auth/login", gin.H{"email": "reset@example.com", "password": "oldpassword"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(r, "/auth/login", gin.H{"email": "reset@example.com", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, w.Code)

	// The consumed code cannot replay.
	w = postJSON(r, "/auth/verifyResetCode", gin.H{"email": "reset@example.com", "resetCode": code})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = postJSON(r, "/auth/resetPassword", gin.H{"email": "reset@example.com", "newPassword": "another-one"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordResetMismatchedConfirmation(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupAuthDB(t)
	mailer := &fakeSender{}
	r := setupAuthRouter(db, mailer)
	signup(t, r, "confirm@example.com", "oldpassword")

	require.Equal(t, http.StatusOK, postJSON(r, "/auth/forgotPassword", gin.H{"email": "confirm@example.com"}).Code)
	code := mailer.lastCode(t)
	require.Equal(t, http.StatusOK, postJSON(r, "/auth/verifyResetCode", gin.H{"email": "confirm@example.com", "resetCode": code}).Code)

	w := postJSON(r, "/auth/resetPassword", gin.H{
		"email":           "confirm@example.com",
		"newPassword":     "newpassword",
		"passwordConfirm": "different",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpiredResetCode(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupAuthDB(t)
	mailer := &fakeSender{}
	r := setupAuthRouter(db, mailer)
	signup(t, r, "expired@example.com", "oldpassword")

	require.Equal(t, http.StatusOK, postJSON(r, "/auth/forgotPassword", gin.H{"email": "expired@example.com"}).Code)
	code := mailer.lastCode(t)

	// Backdate the expiry past the window.
	stale := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "expired@example.com").
		Update("password_reset_expires", stale).Error)

	w := postJSON(r, "/auth/verifyResetCode", gin.H{"email": "expired@example.com", "resetCode": code})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForgotPasswordMailFailureRollsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupAuthDB(t)
	mailer := &fakeSender{fail: true}
	r := setupAuthRouter(db, mailer)
	signup(t, r, "unreachable@example.com", "secret123")

	w := postJSON(r, "/auth/forgotPassword", gin.H{"email": "unreachable@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// No dangling reset state survives the failed send.
	var user models.User
	require.NoError(t, db.Where("email = ?", "unreachable@example.com").First(&user).Error)
	assert.Empty(t, user.PasswordResetCode)
	assert.Nil(t, user.PasswordResetExpires)
	assert.False(t, user.PasswordResetVerified)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	db := setupAuthDB(t)
	r := setupAuthRouter(db, &fakeSender{})

	w := postJSON(r, "/auth/forgotPassword", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
