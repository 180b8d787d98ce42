package model

import "github.com/dsnakex/Biotech-Dashboard/internal/constant"

type User struct {
	BaseModel
	Email        string            `gorm:"type:varchar(255);unique;not null" json:"email"`
	PasswordHash string            `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string            `gorm:"type:varchar(255)" json:"full_name"`
	Role         constant.UserRole `gorm:"type:varchar(50);default:researcher" json:"role"`
}

func (u User) TableName() string {
	return "users"
}
