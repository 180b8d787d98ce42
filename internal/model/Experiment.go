package model

import "github.com/shopspring/decimal"

type Experiment struct {
	BaseModel
	Title        string `gorm:"type:varchar(500);not null" json:"title"`
	ProtocolType string `gorm:"type:varchar(255)" json:"protocol_type"`
	Assignee     string `gorm:"type:varchar(255)" json:"assignee"`
	Status       string `gorm:"type:varchar(50);default:progress" json:"status"`
	StartDate    Date   `gorm:"type:date" json:"start_date"`
	EndDate      Date   `gorm:"type:date" json:"end_date"`
	Description  string `gorm:"type:text" json:"description"`
	Results      string `gorm:"type:text" json:"results"`
	CreatedBy    *uint  `json:"created_by"`

	Priority         string              `gorm:"type:varchar(50);default:medium" json:"priority"`
	Tags             Tags                `gorm:"type:text" json:"tags"`
	ExperimentNumber string              `gorm:"type:varchar(100)" json:"experiment_number"`
	Hypothesis       string              `gorm:"type:text" json:"hypothesis"`
	Objectives       string              `gorm:"type:text" json:"objectives"`
	Observations     string              `gorm:"type:text" json:"observations"`
	Conclusion       string              `gorm:"type:text" json:"conclusion"`
	SuccessStatus    string              `gorm:"type:varchar(50)" json:"success_status"`
	NextSteps        string              `gorm:"type:text" json:"next_steps"`
	FilesLink        string              `gorm:"type:varchar(500)" json:"files_link"`
	Cost             decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"cost"`

	// Optional. Nulled when the category is deleted.
	CategoryID *uint `json:"category_id"`
}

func (e Experiment) TableName() string {
	return "experiments"
}
