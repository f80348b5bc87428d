package models

import "time"

// Record is a single failure report. Most fields are optional free text:
// reports start as loose notes and are filled in as the analysis progresses.
type Record struct {
	BaseModel

	Status      string `gorm:"size:100"`
	CreatorID   *uint  `gorm:"index"`
	OwnerID     *uint  `gorm:"index"`
	TeamName    string // free-text label, not a foreign key
	SubsystemID *uint  `gorm:"index"`
	CarYear     string

	FailureTime          *time.Time
	FailureTitle         string
	FailureDescription   string
	FailureImpact        string
	FailureCause         string
	FailureMechanism     string
	CorrectiveActionPlan string
	TeamLead             string // free-text label

	RecordCreationTime time.Time `gorm:"not null"`
	DueDate            *time.Time
	ResolveDate        *time.Time
	ReviewDate         *time.Time
	ResolutionStatus   string `gorm:"size:100"`

	IsDeleted             bool `gorm:"default:false"`
	IsResolved            bool `gorm:"default:false"`
	IsRecordValidated     bool `gorm:"default:false"`
	IsAnalysisValidated   bool `gorm:"default:false"`
	IsCorrectionValidated bool `gorm:"default:false"`
	IsReviewed            bool `gorm:"default:false"`

	// Relationships
	Creator   *User      `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Owner     *User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Subsystem *Subsystem `gorm:"foreignKey:SubsystemID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments  []Comment  `gorm:"foreignKey:RecordID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
