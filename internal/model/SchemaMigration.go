package model

import "time"

type SchemaMigration struct {
	Name      string    `gorm:"type:varchar(255);primaryKey" json:"name"`
	AppliedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"applied_at"`
}

func (sm SchemaMigration) TableName() string {
	return "schema_migrations"
}
