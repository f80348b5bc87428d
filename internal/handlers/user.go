package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/fracas-dev/fracas/db"
	"github.com/fracas-dev/fracas/internal/models"
	"github.com/fracas-dev/fracas/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
	Team      string `json:"team"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	Team      *string `json:"team"`
}

var userQuery = querySpec{
	filters: map[string]string{
		"user_id": "users.id",
		"email":   "users.email",
		"team":    "teams.name",
	},
	search:       []string{"users.username", "users.email", "users.first_name", "users.last_name"},
	ordering:     map[string]string{"user_id": "users.id"},
	defaultOrder: "users.id",
}

func ListUsers(ctx *gin.Context) {
	tx := db.DB.Model(&models.User{}).
		Joins("LEFT JOIN teams ON teams.id = users.team_id").
		Preload("Team")

	var users []models.User

	if err := applyQuery(ctx, userQuery, tx).Find(&users).Error; err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for i := range users {
		response = append(response, types.NewUserResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetUser(ctx *gin.Context) {
	var user models.User

	if err := db.DB.Preload("Team").Where("id = ?", ctx.Param("user_id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(&user))
}

func CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	teamID, ok := resolveTeamName(ctx, body.Team)

	if !ok {
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(body.Username),
		Email:        strings.TrimSpace(body.Email),
		FirstName:    strings.TrimSpace(body.FirstName),
		LastName:     strings.TrimSpace(body.LastName),
		PasswordHash: string(passwordHash),
		TeamID:       teamID,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if user.TeamID != nil {
		db.DB.Preload("Team").First(&user, user.ID)
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(&user))
}

func UpdateUser(ctx *gin.Context) {
	var user models.User

	if err := db.DB.Where("id = ?", ctx.Param("user_id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	var body UpdateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Username != nil {
		updates["username"] = strings.TrimSpace(*body.Username)
	}

	if body.Email != nil {
		updates["email"] = strings.TrimSpace(*body.Email)
	}

	if body.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*body.FirstName)
	}

	if body.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*body.LastName)
	}

	if body.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		updates["password_hash"] = string(passwordHash)
	}

	if body.Team != nil {
		if *body.Team == "" {
			updates["team_id"] = nil
		} else {
			teamID, ok := resolveTeamName(ctx, *body.Team)
			if !ok {
				return
			}
			updates["team_id"] = teamID
		}
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Preload("Team").First(&user, user.ID).Error; err != nil {
		log.Printf("Failed to reload user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(&user))
}

func DeleteUser(ctx *gin.Context) {
	var user models.User

	if err := db.DB.Where("id = ?", ctx.Param("user_id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// lead_id carries no database constraint, so the set-null is done here.
		if err := tx.Model(&models.Team{}).Where("lead_id = ?", user.ID).Update("lead_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})

	if err != nil {
		log.Printf("Failed to delete user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// resolveTeamName maps a team name to its id for direct user create/update
// calls. Unlike registration, an unknown name here is an error. Writes the
// 400 response itself and reports success via the second return.
func resolveTeamName(ctx *gin.Context, name string) (*uint, bool) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, true
	}

	var team models.Team

	if err := db.DB.Where("name = ?", name).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Team not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team"})
		}
		return nil, false
	}

	return &team.ID, true
}
