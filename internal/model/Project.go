package model

type Project struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"type:varchar(50);default:active" json:"status"`
	StartDate   Date   `gorm:"type:date" json:"start_date"`
	EndDate     Date   `gorm:"type:date" json:"end_date"`
	Manager     string `gorm:"type:varchar(255)" json:"manager"`
	CreatedBy   *uint  `json:"created_by"`
}

func (p Project) TableName() string {
	return "projects"
}

type SubProject struct {
	BaseModel
	ProjectID   uint   `gorm:"not null" json:"project_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"type:varchar(50);default:active" json:"status"`
	StartDate   Date   `gorm:"type:date" json:"start_date"`
	EndDate     Date   `gorm:"type:date" json:"end_date"`
	Lead        string `gorm:"type:varchar(255)" json:"lead"`
	CreatedBy   *uint  `json:"created_by"`
}

func (sp SubProject) TableName() string {
	return "sub_projects"
}

type Category struct {
	BaseModel
	SubProjectID uint   `gorm:"not null" json:"sub_project_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	Color        string `gorm:"type:varchar(7);default:'#3b82f6'" json:"color"`
	CreatedBy    *uint  `json:"created_by"`
}

func (c Category) TableName() string {
	return "categories"
}
