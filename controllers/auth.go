package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"greenlens/middlewares"
	"greenlens/models"
	"greenlens/utils"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Aadhaar  string `json:"aadhaar" binding:"required,len=12,numeric"`
}

// Register Create a new account. The role must be one of the known
// sign-up roles; the admin flag is never granted here.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(input.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be 'user' or 'collector'"})
		return
	}

	var existing models.User
	if err := models.DB.Where("email = ? OR username = ?", input.Email, input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or username already in use"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     role,
		Aadhaar:  input.Aadhaar,
	}

	if err := models.DB.Create(&user).Error; err != nil {
		log.Warn("could not create user: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login Exchange email and password for a session token. Unknown email and
// wrong password produce the same response.
func Login(config *utils.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := models.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		lifespan := time.Duration(config.Auth.TokenLifespanHours) * time.Hour
		token, err := utils.GenerateToken(user.ID, lifespan)
		if err != nil {
			log.Error("token generation failed: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token, "user": user}})
	}
}

// CurrentUser Return the authenticated caller's profile.
func CurrentUser(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"data": user})
}
