package models

type Subsystem struct {
	BaseModel

	Name   string `gorm:"uniqueIndex;not null;size:100"`
	TeamID *uint  `gorm:"index"`

	// Relationships
	Team    *Team    `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Records []Record `gorm:"foreignKey:SubsystemID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
