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
	"gorm.io/gorm"
)

type CreateSubsystemRequest struct {
	Name       string `json:"subsystem_name" binding:"required"`
	ParentTeam string `json:"parent_team"`
}

type UpdateSubsystemRequest struct {
	Name       *string `json:"subsystem_name"`
	ParentTeam *string `json:"parent_team"`
}

var subsystemQuery = querySpec{
	filters: map[string]string{
		"subsystem_name": "subsystems.name",
		"parent_team":    "teams.name",
	},
	search:       []string{"subsystems.name"},
	ordering:     map[string]string{"subsystem_name": "subsystems.name"},
	defaultOrder: "subsystems.name",
}

func ListSubsystems(ctx *gin.Context) {
	tx := db.DB.Model(&models.Subsystem{}).
		Joins("LEFT JOIN teams ON teams.id = subsystems.team_id").
		Preload("Team")

	var subsystems []models.Subsystem

	if err := applyQuery(ctx, subsystemQuery, tx).Find(&subsystems).Error; err != nil {
		log.Printf("Failed to list subsystems: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subsystems"})
		return
	}

	response := make([]types.SubsystemResponse, 0, len(subsystems))

	for i := range subsystems {
		response = append(response, types.NewSubsystemResponse(&subsystems[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetSubsystem(ctx *gin.Context) {
	subsystem, ok := findSubsystem(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.NewSubsystemResponse(subsystem))
}

func CreateSubsystem(ctx *gin.Context) {
	var body CreateSubsystemRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	teamID, ok := resolveTeamName(ctx, body.ParentTeam)

	if !ok {
		return
	}

	subsystem := models.Subsystem{
		Name:   strings.TrimSpace(body.Name),
		TeamID: teamID,
	}

	if err := db.DB.Create(&subsystem).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Subsystem name already exists"})
			return
		}
		log.Printf("Failed to create subsystem: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if subsystem.TeamID != nil {
		db.DB.Preload("Team").First(&subsystem, subsystem.ID)
	}

	ctx.JSON(http.StatusCreated, types.NewSubsystemResponse(&subsystem))
}

func UpdateSubsystem(ctx *gin.Context) {
	subsystem, ok := findSubsystem(ctx)

	if !ok {
		return
	}

	var body UpdateSubsystemRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
	}

	if body.ParentTeam != nil {
		if *body.ParentTeam == "" {
			updates["team_id"] = nil
		} else {
			teamID, ok := resolveTeamName(ctx, *body.ParentTeam)
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

	if err := db.DB.Model(subsystem).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Subsystem name already exists"})
			return
		}
		log.Printf("Failed to update subsystem: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Preload("Team").First(subsystem, subsystem.ID).Error; err != nil {
		log.Printf("Failed to reload subsystem: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewSubsystemResponse(subsystem))
}

func DeleteSubsystem(ctx *gin.Context) {
	subsystem, ok := findSubsystem(ctx)

	if !ok {
		return
	}

	// Records referencing this subsystem survive with the reference nulled.
	if err := db.DB.Delete(subsystem).Error; err != nil {
		log.Printf("Failed to delete subsystem: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func SubsystemParent(ctx *gin.Context) {
	subsystem, ok := findSubsystem(ctx)

	if !ok {
		return
	}

	if subsystem.Team == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Subsystem has no parent team"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewTeamResponse(subsystem.Team))
}

func findSubsystem(ctx *gin.Context) (*models.Subsystem, bool) {
	var subsystem models.Subsystem

	err := db.DB.Preload("Team").
		Where("name = ?", ctx.Param("subsystem_name")).
		First(&subsystem).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Subsystem not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subsystem"})
		}
		return nil, false
	}

	return &subsystem, true
}
