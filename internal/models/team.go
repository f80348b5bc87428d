package models

type Team struct {
	BaseModel

	Name string `gorm:"uniqueIndex;not null;size:100"`

	// LeadID is a plain indexed column rather than a declared association:
	// users.team_id already references teams, and a second constraint in the
	// opposite direction would make the two tables mutually dependent at
	// migration time. Lead existence is checked in the handlers instead.
	LeadID *uint `gorm:"uniqueIndex"`

	// Relationships
	Subsystems []Subsystem `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members    []User      `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
