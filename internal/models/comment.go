package models

import "time"

// Comment is a threaded note on a record. ParentID forms a tree within the
// record; deleting a parent removes the whole subtree via the self-referencing
// cascade constraint.
type Comment struct {
	BaseModel

	RecordID     uint      `gorm:"not null;index"`
	ParentID     *uint     `gorm:"index"`
	CommenterID  *uint     `gorm:"index"`
	CreationTime time.Time `gorm:"not null"`
	Text         string    `gorm:"not null"`

	// Relationships
	Record    Record    `gorm:"foreignKey:RecordID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Parent    *Comment  `gorm:"foreignKey:ParentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Commenter *User     `gorm:"foreignKey:CommenterID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Replies   []Comment `gorm:"foreignKey:ParentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
