package models

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null;size:50"`
	FirstName    string `gorm:"size:50"`
	LastName     string `gorm:"size:50"`
	Email        string `gorm:"uniqueIndex;not null;size:50"`
	PasswordHash string `gorm:"not null"`
	IsStaff      bool   `gorm:"default:false"`
	IsAdmin      bool   `gorm:"default:false"`
	TeamID       *uint  `gorm:"index"`

	// Relationships
	Team *Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

// DisplayName mirrors how users are labelled elsewhere: full name when both
// parts are present, username otherwise.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}
