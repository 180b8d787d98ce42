package model

import (
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
)

// Comment annotates any entity. EntityID is not a foreign key: the pair
// (EntityType, EntityID) is checked by the application, not the store.
type Comment struct {
	BaseModel
	EntityType constant.CommentEntityType `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   uint                       `gorm:"not null" json:"entity_id"`
	UserID     uint                       `gorm:"not null" json:"user_id"`
	Content    string                     `gorm:"type:text;not null" json:"content"`
	UpdatedAt  time.Time                  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime" json:"updated_at"`

	UserFullName string `gorm:"->;-:migration" json:"user_full_name,omitempty"`
}

func (c Comment) TableName() string {
	return "comments"
}
