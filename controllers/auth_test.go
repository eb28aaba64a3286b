package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenlens/models"
	"greenlens/utils"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	config := &utils.Config{}
	config.Auth.TokenLifespanHours = 1
	r.POST("/register", Register)
	r.POST("/login", Login(config))
	return r
}

func validRegistration() gin.H {
	return gin.H{
		"username": "asha",
		"email":    "asha@example.com",
		"password": "secret123",
		"role":     "user",
		"aadhaar":  "123456789012",
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	setupTestDB(t)
	w := postJSON(t, authRouter(), "/register", validRegistration())
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, models.DB.Where("email = ?", "asha@example.com").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsAdmin)
	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "secret123", user.Password)
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	cases := map[string]gin.H{
		"short username": {"username": "ab", "email": "a@example.com", "password": "secret123", "role": "user", "aadhaar": "123456789012"},
		"bad email":      {"username": "asha", "email": "not-an-email", "password": "secret123", "role": "user", "aadhaar": "123456789012"},
		"short password": {"username": "asha", "email": "a@example.com", "password": "short", "role": "user", "aadhaar": "123456789012"},
		"bad role":       {"username": "asha", "email": "a@example.com", "password": "secret123", "role": "manager", "aadhaar": "123456789012"},
		"short aadhaar":  {"username": "asha", "email": "a@example.com", "password": "secret123", "role": "user", "aadhaar": "12345"},
		"aadhaar letters": {"username": "asha", "email": "a@example.com", "password": "secret123", "role": "user", "aadhaar": "12345678901a"},
	}

	for name, body := range cases {
		w := postJSON(t, r, "/register", body)
		assert.Equalf(t, http.StatusBadRequest, w.Code, "case %q", name)
	}

	var count int64
	require.NoError(t, models.DB.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/register", validRegistration())
	require.Equal(t, http.StatusOK, w.Code)

	duplicate := validRegistration()
	duplicate["username"] = "ashb"
	w = postJSON(t, r, "/register", duplicate)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongCredentials(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/register", validRegistration())
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/login", gin.H{"email": "asha@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/login", gin.H{"email": "nobody@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginReturnsToken(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")
	setupTestDB(t)
	r := authRouter()

	w := postJSON(t, r, "/register", validRegistration())
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/login", gin.H{"email": "asha@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}
