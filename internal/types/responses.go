package types

import (
	"time"

	"github.com/fracas-dev/fracas/internal/models"
)

// Response shapes expose natural keys: a user's team is its name, a record's
// subsystem is its name, a team's lead is a user id. Constructors expect the
// relevant associations to be preloaded when present.

type UserResponse struct {
	ID        uint    `json:"user_id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Team      *string `json:"team"`
}

func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}

	if u.Team != nil {
		resp.Team = &u.Team.Name
	}

	return resp
}

type TeamResponse struct {
	Name   string `json:"team_name"`
	LeadID *uint  `json:"team_lead"`
}

func NewTeamResponse(t *models.Team) TeamResponse {
	return TeamResponse{
		Name:   t.Name,
		LeadID: t.LeadID,
	}
}

type SubsystemResponse struct {
	Name       string  `json:"subsystem_name"`
	ParentTeam *string `json:"parent_team"`
}

func NewSubsystemResponse(s *models.Subsystem) SubsystemResponse {
	resp := SubsystemResponse{Name: s.Name}

	if s.Team != nil {
		resp.ParentTeam = &s.Team.Name
	}

	return resp
}

type RecordResponse struct {
	ID                    uint       `json:"record_id"`
	Status                string     `json:"status"`
	Creator               *uint      `json:"record_creator"`
	Owner                 *uint      `json:"record_owner"`
	Team                  string     `json:"team"`
	Subsystem             *string    `json:"subsystem"`
	CarYear               string     `json:"car_year"`
	FailureTime           *time.Time `json:"failure_time"`
	FailureTitle          string     `json:"failure_title"`
	FailureDescription    string     `json:"failure_description"`
	FailureImpact         string     `json:"failure_impact"`
	FailureCause          string     `json:"failure_cause"`
	FailureMechanism      string     `json:"failure_mechanism"`
	CorrectiveActionPlan  string     `json:"corrective_action_plan"`
	TeamLead              string     `json:"team_lead"`
	RecordCreationTime    time.Time  `json:"record_creation_time"`
	DueDate               *time.Time `json:"due_date"`
	ResolveDate           *time.Time `json:"resolve_date"`
	ReviewDate            *time.Time `json:"review_date"`
	ResolutionStatus      string     `json:"resolution_status"`
	IsDeleted             bool       `json:"is_deleted"`
	IsResolved            bool       `json:"is_resolved"`
	IsRecordValidated     bool       `json:"is_record_validated"`
	IsAnalysisValidated   bool       `json:"is_analysis_validated"`
	IsCorrectionValidated bool       `json:"is_correction_validated"`
	IsReviewed            bool       `json:"is_reviewed"`
}

func NewRecordResponse(r *models.Record) RecordResponse {
	resp := RecordResponse{
		ID:                    r.ID,
		Status:                r.Status,
		Creator:               r.CreatorID,
		Owner:                 r.OwnerID,
		Team:                  r.TeamName,
		CarYear:               r.CarYear,
		FailureTime:           r.FailureTime,
		FailureTitle:          r.FailureTitle,
		FailureDescription:    r.FailureDescription,
		FailureImpact:         r.FailureImpact,
		FailureCause:          r.FailureCause,
		FailureMechanism:      r.FailureMechanism,
		CorrectiveActionPlan:  r.CorrectiveActionPlan,
		TeamLead:              r.TeamLead,
		RecordCreationTime:    r.RecordCreationTime,
		DueDate:               r.DueDate,
		ResolveDate:           r.ResolveDate,
		ReviewDate:            r.ReviewDate,
		ResolutionStatus:      r.ResolutionStatus,
		IsDeleted:             r.IsDeleted,
		IsResolved:            r.IsResolved,
		IsRecordValidated:     r.IsRecordValidated,
		IsAnalysisValidated:   r.IsAnalysisValidated,
		IsCorrectionValidated: r.IsCorrectionValidated,
		IsReviewed:            r.IsReviewed,
	}

	if r.Subsystem != nil {
		resp.Subsystem = &r.Subsystem.Name
	}

	return resp
}

type CommentResponse struct {
	ID           uint      `json:"comment_id"`
	RecordID     uint      `json:"record_id"`
	ParentID     *uint     `json:"parent_comment_id"`
	Commenter    *uint     `json:"commenter"`
	CreationTime time.Time `json:"creation_time"`
	Text         string    `json:"comment_text"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		RecordID:     c.RecordID,
		ParentID:     c.ParentID,
		Commenter:    c.CommenterID,
		CreationTime: c.CreationTime,
		Text:         c.Text,
	}
}
