package models

import "time"

// BaseModel is embedded by every entity. Deletes are hard deletes so that
// the database-level cascade and set-null constraints fire.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
