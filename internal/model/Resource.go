package model

import (
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
)

type Resource struct {
	BaseModel
	Name         string                  `gorm:"type:varchar(255);not null" json:"name"`
	Category     string                  `gorm:"type:varchar(100)" json:"category"`
	LotNumber    string                  `gorm:"type:varchar(100)" json:"lot_number"`
	InitialStock float64                 `gorm:"type:real;not null;default:0" json:"initial_stock"`
	CurrentStock float64                 `gorm:"type:real;not null;default:0" json:"current_stock"`
	Unit         string                  `gorm:"type:varchar(50)" json:"unit"`
	Status       constant.ResourceStatus `gorm:"type:varchar(50);default:available" json:"status"`
	CreatedBy    *uint                   `json:"created_by"`
	UpdatedBy    *uint                   `json:"updated_by"`
	UpdatedAt    time.Time               `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime" json:"updated_at"`
}

func (r Resource) TableName() string {
	return "resources"
}

// ResourceStatusFor derives the stock status from the current and initial stock.
func ResourceStatusFor(current, initial float64) constant.ResourceStatus {
	if current <= 0 {
		return constant.ResourceStatusEmpty
	}
	var ratio float64
	if initial > 0 {
		ratio = current / initial
	}
	switch {
	case ratio <= constant.ResourceCriticalRatio:
		return constant.ResourceStatusCritical
	case ratio <= constant.ResourceLowRatio:
		return constant.ResourceStatusLow
	default:
		return constant.ResourceStatusAvailable
	}
}

// RefreshStatus recomputes Status from the stock levels.
func (r *Resource) RefreshStatus() {
	r.Status = ResourceStatusFor(r.CurrentStock, r.InitialStock)
}

type ResourceUsage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ResourceID   uint      `gorm:"not null" json:"resource_id"`
	QuantityUsed float64   `gorm:"type:real;not null" json:"quantity_used"`
	Purpose      string    `gorm:"type:text" json:"purpose"`
	StockBefore  float64   `gorm:"type:real" json:"stock_before"`
	StockAfter   float64   `gorm:"type:real" json:"stock_after"`
	UsedBy       uint      `gorm:"not null" json:"used_by"`
	UsedAt       time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoCreateTime" json:"used_at"`

	// Filled by history queries that join users.
	UserName string `gorm:"->;-:migration" json:"user_name,omitempty"`
}

func (ru ResourceUsage) TableName() string {
	return "resource_usage"
}
