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

type CreateTeamRequest struct {
	Name   string `json:"team_name" binding:"required"`
	LeadID *uint  `json:"team_lead"`
}

type UpdateTeamRequest struct {
	Name   *string `json:"team_name"`
	LeadID *uint   `json:"team_lead"`
}

var teamQuery = querySpec{
	filters: map[string]string{
		"team_name": "teams.name",
		"team_lead": "teams.lead_id",
	},
	search:       []string{"teams.name"},
	ordering:     map[string]string{"team_name": "teams.name"},
	defaultOrder: "teams.name",
}

func ListTeams(ctx *gin.Context) {
	var teams []models.Team

	if err := applyQuery(ctx, teamQuery, db.DB.Model(&models.Team{})).Find(&teams).Error; err != nil {
		log.Printf("Failed to list teams: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve teams"})
		return
	}

	response := make([]types.TeamResponse, 0, len(teams))

	for i := range teams {
		response = append(response, types.NewTeamResponse(&teams[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTeam(ctx *gin.Context) {
	team, ok := findTeam(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.NewTeamResponse(team))
}

func CreateTeam(ctx *gin.Context) {
	var body CreateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.LeadID != nil && !userExists(ctx, *body.LeadID) {
		return
	}

	team := models.Team{
		Name:   strings.TrimSpace(body.Name),
		LeadID: body.LeadID,
	}

	if err := db.DB.Create(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Team name already exists"})
			return
		}
		log.Printf("Failed to create team: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, types.NewTeamResponse(&team))
}

func UpdateTeam(ctx *gin.Context) {
	team, ok := findTeam(ctx)

	if !ok {
		return
	}

	var body UpdateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
	}

	if body.LeadID != nil {
		if !userExists(ctx, *body.LeadID) {
			return
		}
		updates["lead_id"] = *body.LeadID
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	// Subsystem and member references use the team id, so a rename never
	// breaks them.
	if err := db.DB.Model(team).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Team name already exists"})
			return
		}
		log.Printf("Failed to update team: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.First(team, team.ID).Error; err != nil {
		log.Printf("Failed to reload team: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewTeamResponse(team))
}

func DeleteTeam(ctx *gin.Context) {
	team, ok := findTeam(ctx)

	if !ok {
		return
	}

	// Subsystems cascade, members go to no-team, both via the store's
	// constraints.
	if err := db.DB.Delete(team).Error; err != nil {
		log.Printf("Failed to delete team: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func TeamMembers(ctx *gin.Context) {
	team, ok := findTeam(ctx)

	if !ok {
		return
	}

	var members []models.User

	if err := db.DB.Preload("Team").Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		log.Printf("Failed to list team members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]types.UserResponse, 0, len(members))

	for i := range members {
		response = append(response, types.NewUserResponse(&members[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// TeamLead returns the designated lead wrapped as a single-element list, or
// an empty list when no lead is set.
func TeamLead(ctx *gin.Context) {
	team, ok := findTeam(ctx)

	if !ok {
		return
	}

	response := make([]types.UserResponse, 0, 1)

	if team.LeadID != nil {
		var lead models.User

		if err := db.DB.Preload("Team").First(&lead, *team.LeadID).Error; err != nil {
			log.Printf("Failed to fetch team lead: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve lead"})
			return
		}

		response = append(response, types.NewUserResponse(&lead))
	}

	ctx.JSON(http.StatusOK, response)
}

func TeamSubsystems(ctx *gin.Context) {
	team, ok := findTeam(ctx)

	if !ok {
		return
	}

	var subsystems []models.Subsystem

	err := db.DB.Preload("Team").
		Where("team_id = ?", team.ID).
		Order("name").
		Find(&subsystems).Error

	if err != nil {
		log.Printf("Failed to list team subsystems: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subsystems"})
		return
	}

	response := make([]types.SubsystemResponse, 0, len(subsystems))

	for i := range subsystems {
		response = append(response, types.NewSubsystemResponse(&subsystems[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func findTeam(ctx *gin.Context) (*models.Team, bool) {
	var team models.Team

	if err := db.DB.Where("name = ?", ctx.Param("team_name")).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team"})
		}
		return nil, false
	}

	return &team, true
}

func userExists(ctx *gin.Context, id uint) bool {
	var user models.User

	if err := db.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return false
	}

	return true
}
