package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// apiSecret The HMAC key used to sign session tokens. Read once from the
// environment so a missing key fails loudly at first use, not at startup.
func apiSecret() []byte {
	return []byte(os.Getenv("API_SECRET"))
}

// GenerateToken Issue a signed token for the given user id.
func GenerateToken(userID string, lifespan time.Duration) (string, error) {
	if len(apiSecret()) == 0 {
		return "", errors.New("API_SECRET is not set")
	}

	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["user_id"] = userID
	claims["exp"] = time.Now().Add(lifespan).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(apiSecret())
}

// ExtractToken Pull the bearer token from the request, either from the
// "token" query parameter or the Authorization header.
func ExtractToken(c *gin.Context) string {
	token := c.Query("token")
	if token != "" {
		return token
	}
	bearerToken := c.Request.Header.Get("Authorization")
	if len(strings.Split(bearerToken, " ")) == 2 {
		return strings.Split(bearerToken, " ")[1]
	}
	return ""
}

func parseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return apiSecret(), nil
	})
}

// TokenValid Check the request carries a valid, unexpired token.
func TokenValid(c *gin.Context) error {
	_, err := parseToken(ExtractToken(c))
	return err
}

// ExtractTokenID Return the user id a valid request token was issued for.
func ExtractTokenID(c *gin.Context) (string, error) {
	token, err := parseToken(ExtractToken(c))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token has no user id")
	}
	return userID, nil
}
