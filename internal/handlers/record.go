package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fracas-dev/fracas/db"
	"github.com/fracas-dev/fracas/internal/models"
	"github.com/fracas-dev/fracas/internal/types"
	"github.com/fracas-dev/fracas/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateRecordRequest struct {
	Status               string     `json:"status"`
	Owner                *uint      `json:"record_owner"`
	Team                 string     `json:"team"`
	Subsystem            string     `json:"subsystem"`
	CarYear              string     `json:"car_year"`
	FailureTime          *time.Time `json:"failure_time"`
	FailureTitle         string     `json:"failure_title"`
	FailureDescription   string     `json:"failure_description"`
	FailureImpact        string     `json:"failure_impact"`
	FailureCause         string     `json:"failure_cause"`
	FailureMechanism     string     `json:"failure_mechanism"`
	CorrectiveActionPlan string     `json:"corrective_action_plan"`
	TeamLead             string     `json:"team_lead"`
	DueDate              *time.Time `json:"due_date"`
	ResolutionStatus     string     `json:"resolution_status"`
}

type UpdateRecordRequest struct {
	Status                *string    `json:"status"`
	Owner                 *uint      `json:"record_owner"`
	Team                  *string    `json:"team"`
	Subsystem             *string    `json:"subsystem"`
	CarYear               *string    `json:"car_year"`
	FailureTime           *time.Time `json:"failure_time"`
	FailureTitle          *string    `json:"failure_title"`
	FailureDescription    *string    `json:"failure_description"`
	FailureImpact         *string    `json:"failure_impact"`
	FailureCause          *string    `json:"failure_cause"`
	FailureMechanism      *string    `json:"failure_mechanism"`
	CorrectiveActionPlan  *string    `json:"corrective_action_plan"`
	TeamLead              *string    `json:"team_lead"`
	DueDate               *time.Time `json:"due_date"`
	ResolveDate           *time.Time `json:"resolve_date"`
	ReviewDate            *time.Time `json:"review_date"`
	ResolutionStatus      *string    `json:"resolution_status"`
	IsDeleted             *bool      `json:"is_deleted"`
	IsResolved            *bool      `json:"is_resolved"`
	IsRecordValidated     *bool      `json:"is_record_validated"`
	IsAnalysisValidated   *bool      `json:"is_analysis_validated"`
	IsCorrectionValidated *bool      `json:"is_correction_validated"`
	IsReviewed            *bool      `json:"is_reviewed"`
}

var recordQuery = querySpec{
	filters: map[string]string{
		"record_id":      "records.id",
		"status":         "records.status",
		"car_year":       "records.car_year",
		"team":           "records.team_name",
		"subsystem":      "subsystems.name",
		"record_creator": "records.creator_id",
		"record_owner":   "records.owner_id",
	},
	search: []string{
		"records.status",
		"records.team_name",
		"records.team_lead",
		"records.car_year",
		"records.failure_title",
		"records.failure_description",
		"records.failure_impact",
		"records.failure_cause",
		"records.failure_mechanism",
		"records.corrective_action_plan",
	},
	ordering:     map[string]string{"record_creation_time": "records.record_creation_time"},
	defaultOrder: "records.record_creation_time",
}

func ListRecords(ctx *gin.Context) {
	tx := db.DB.Model(&models.Record{}).
		Joins("LEFT JOIN subsystems ON subsystems.id = records.subsystem_id").
		Preload("Subsystem")

	var records []models.Record

	if err := applyQuery(ctx, recordQuery, tx).Find(&records).Error; err != nil {
		log.Printf("Failed to list records: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}

	response := make([]types.RecordResponse, 0, len(records))

	for i := range records {
		response = append(response, types.NewRecordResponse(&records[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetRecord(ctx *gin.Context) {
	record, ok := findRecord(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.NewRecordResponse(record))
}

func CreateRecord(ctx *gin.Context) {
	var body CreateRecordRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subsystemID, ok := resolveSubsystemName(ctx, body.Subsystem)

	if !ok {
		return
	}

	if body.Owner != nil && !userExists(ctx, *body.Owner) {
		return
	}

	record := models.Record{
		Status:               body.Status,
		CreatorID:            &userID,
		OwnerID:              body.Owner,
		TeamName:             body.Team,
		SubsystemID:          subsystemID,
		CarYear:              body.CarYear,
		FailureTime:          body.FailureTime,
		FailureTitle:         body.FailureTitle,
		FailureDescription:   body.FailureDescription,
		FailureImpact:        body.FailureImpact,
		FailureCause:         body.FailureCause,
		FailureMechanism:     body.FailureMechanism,
		CorrectiveActionPlan: body.CorrectiveActionPlan,
		TeamLead:             body.TeamLead,
		RecordCreationTime:   time.Now(),
		DueDate:              body.DueDate,
		ResolutionStatus:     body.ResolutionStatus,
	}

	if err := db.DB.Create(&record).Error; err != nil {
		log.Printf("Failed to create record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if record.SubsystemID != nil {
		db.DB.Preload("Subsystem").First(&record, record.ID)
	}

	ctx.JSON(http.StatusCreated, types.NewRecordResponse(&record))
}

func UpdateRecord(ctx *gin.Context) {
	record, ok := findRecord(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Only the original creator may mutate a record.
	if record.CreatorID == nil || *record.CreatorID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this record"})
		return
	}

	var body UpdateRecordRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Status != nil {
		updates["status"] = *body.Status
	}

	if body.Owner != nil {
		if !userExists(ctx, *body.Owner) {
			return
		}
		updates["owner_id"] = *body.Owner
	}

	if body.Team != nil {
		updates["team_name"] = *body.Team
	}

	if body.Subsystem != nil {
		if *body.Subsystem == "" {
			updates["subsystem_id"] = nil
		} else {
			subsystemID, ok := resolveSubsystemName(ctx, *body.Subsystem)
			if !ok {
				return
			}
			updates["subsystem_id"] = subsystemID
		}
	}

	if body.CarYear != nil {
		updates["car_year"] = *body.CarYear
	}

	if body.FailureTime != nil {
		updates["failure_time"] = *body.FailureTime
	}

	if body.FailureTitle != nil {
		updates["failure_title"] = *body.FailureTitle
	}

	if body.FailureDescription != nil {
		updates["failure_description"] = *body.FailureDescription
	}

	if body.FailureImpact != nil {
		updates["failure_impact"] = *body.FailureImpact
	}

	if body.FailureCause != nil {
		updates["failure_cause"] = *body.FailureCause
	}

	if body.FailureMechanism != nil {
		updates["failure_mechanism"] = *body.FailureMechanism
	}

	if body.CorrectiveActionPlan != nil {
		updates["corrective_action_plan"] = *body.CorrectiveActionPlan
	}

	if body.TeamLead != nil {
		updates["team_lead"] = *body.TeamLead
	}

	if body.DueDate != nil {
		updates["due_date"] = *body.DueDate
	}

	if body.ResolveDate != nil {
		updates["resolve_date"] = *body.ResolveDate
	}

	if body.ReviewDate != nil {
		updates["review_date"] = *body.ReviewDate
	}

	if body.ResolutionStatus != nil {
		updates["resolution_status"] = *body.ResolutionStatus
	}

	if body.IsDeleted != nil {
		updates["is_deleted"] = *body.IsDeleted
	}

	if body.IsResolved != nil {
		updates["is_resolved"] = *body.IsResolved
	}

	if body.IsRecordValidated != nil {
		updates["is_record_validated"] = *body.IsRecordValidated
	}

	if body.IsAnalysisValidated != nil {
		updates["is_analysis_validated"] = *body.IsAnalysisValidated
	}

	if body.IsCorrectionValidated != nil {
		updates["is_correction_validated"] = *body.IsCorrectionValidated
	}

	if body.IsReviewed != nil {
		updates["is_reviewed"] = *body.IsReviewed
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(record).Updates(updates).Error; err != nil {
		log.Printf("Failed to update record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Preload("Subsystem").First(record, record.ID).Error; err != nil {
		log.Printf("Failed to reload record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewRecordResponse(record))
}

func DeleteRecord(ctx *gin.Context) {
	record, ok := findRecord(ctx)

	if !ok {
		return
	}

	// Comments, including nested replies, cascade with the record.
	if err := db.DB.Delete(record).Error; err != nil {
		log.Printf("Failed to delete record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func RecordComments(ctx *gin.Context) {
	record, ok := findRecord(ctx)

	if !ok {
		return
	}

	var comments []models.Comment

	err := db.DB.Where("record_id = ?", record.ID).
		Order("creation_time").
		Find(&comments).Error

	if err != nil {
		log.Printf("Failed to list record comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]types.CommentResponse, 0, len(comments))

	for i := range comments {
		response = append(response, types.NewCommentResponse(&comments[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func findRecord(ctx *gin.Context) (*models.Record, bool) {
	var record models.Record

	err := db.DB.Preload("Subsystem").
		Where("id = ?", ctx.Param("record_id")).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve record"})
		}
		return nil, false
	}

	return &record, true
}

// resolveSubsystemName maps a subsystem name to its id. Empty means no
// subsystem; an unknown name is a 400.
func resolveSubsystemName(ctx *gin.Context, name string) (*uint, bool) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, true
	}

	var subsystem models.Subsystem

	if err := db.DB.Where("name = ?", name).First(&subsystem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Subsystem not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subsystem"})
		}
		return nil, false
	}

	return &subsystem.ID, true
}
