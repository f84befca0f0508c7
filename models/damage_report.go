package models

import "time"

const DamageReportTable = "damage_reports"

const (
	ReportPending    = "pending"
	ReportInProgress = "in_progress"
	ReportResolved   = "resolved"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type DamageReport struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID    string `gorm:"type:uuid;index;not null" json:"assetId"`
	Asset      *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	ReportedBy string `gorm:"type:uuid;index;not null" json:"reportedBy"`
	Reporter   *User  `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`

	Description string  `gorm:"size:1000;not null" json:"description"`
	Priority    string  `gorm:"size:10;not null;default:'low'" json:"priority"`
	Status      string  `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	PhotoURL    *string `gorm:"size:500" json:"photoUrl,omitempty"`
	Notes       string  `gorm:"size:500" json:"notes,omitempty"`

	AcademicYear string `gorm:"size:9" json:"academicYear"`
	Semester     string `gorm:"size:10" json:"semester"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (DamageReport) TableName() string { return DamageReportTable }
