package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/fracas-dev/fracas/db"
	"github.com/fracas-dev/fracas/internal/auth"
	"github.com/fracas-dev/fracas/internal/models"
	"github.com/fracas-dev/fracas/internal/types"
	"github.com/fracas-dev/fracas/internal/utils"
	"github.com/fracas-dev/fracas/internal/validation"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(ctx *gin.Context) {
	var body validation.RegisterInput

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	clean, fieldErrors := validation.Register(db.DB, body)

	if fieldErrors != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(clean.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		Username:     clean.Username,
		FirstName:    clean.FirstName,
		LastName:     clean.LastName,
		Email:        clean.Email,
		PasswordHash: string(passwordHash),
		IsStaff:      clean.IsStaff,
		IsAdmin:      clean.IsAdmin,
		TeamID:       clean.TeamID,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		// The loser of a concurrent registration race lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": "Email taken: choose another email."}})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if newUser.TeamID != nil {
		if err := db.DB.Preload("Team").First(&newUser, newUser.ID).Error; err != nil {
			log.Printf("Failed to reload user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": types.NewUserResponse(&newUser)})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	email := strings.TrimSpace(body.Email)

	var user models.User

	err := db.DB.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  types.NewUserResponse(&user),
	})
}

func Logout(ctx *gin.Context) {
	// Tokens are stateless; logout is the client discarding its copy.
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.Preload("Team").First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(&user)})
}
