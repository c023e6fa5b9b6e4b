// internal/models/report.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductReport struct {
	BaseModel
	ProductID   uuid.UUID    `json:"product_id" gorm:"type:uuid;not null;index"`
	ReporterID  uuid.UUID    `json:"reporter_id" gorm:"type:uuid;not null;index"`
	Reason      string       `json:"reason" gorm:"size:100;not null"`
	Description string       `json:"description" gorm:"type:text"`
	Status      ReportStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AdminNotes  string       `json:"admin_notes,omitempty" gorm:"type:text"`
	ReviewedBy  *uuid.UUID   `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt  *time.Time   `json:"reviewed_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (ProductReport) TableName() string {
	return "product_reports"
}
