package authControllers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amanymoammer22/backend/config"
)

// CreateToken issues a signed, time-limited bearer token carrying the
// user's identifier and issue time.
func CreateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(config.Load().JWTExpiresIn).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// generateResetCode returns a random 6-digit one-time code.
func generateResetCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process is in no state to mint
		// secrets at all.
		panic(err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}

// hashResetCode is the one-way form under which reset codes are stored.
func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
