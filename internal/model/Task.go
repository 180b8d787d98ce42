package model

type Task struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Assignee    string `gorm:"type:varchar(255)" json:"assignee"`
	Status      string `gorm:"type:varchar(50);default:todo" json:"status"`
	Priority    string `gorm:"type:varchar(50);default:medium" json:"priority"`
	StartDate   Date   `gorm:"type:date" json:"start_date"`
	EndDate     Date   `gorm:"type:date" json:"end_date"`
	Deadline    Date   `gorm:"type:date" json:"deadline"`
	Description string `gorm:"type:text" json:"description"`
	CreatedBy   *uint  `json:"created_by"`
}

func (t Task) TableName() string {
	return "tasks"
}

// DueDate is the deadline, or the end date when no deadline was set.
func (t Task) DueDate() Date {
	if !t.Deadline.IsZero() {
		return t.Deadline
	}
	return t.EndDate
}
