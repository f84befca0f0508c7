package models

import "time"

const (
	AssetTable          = "assets"
	AssetConditionTable = "asset_conditions"
	StockLossTable      = "stock_losses"
)

const (
	CategoryRoom     = "room"
	CategoryFacility = "facility"
)

// Condition buckets an asset's units are tracked under. Lost is only
// ever reported at return time; it never becomes a bucket row.
const (
	ConditionGood        = "good"
	ConditionLightDamage = "light_damage"
	ConditionHeavyDamage = "heavy_damage"
	ConditionLost        = "lost"
)

func ValidReturnCondition(c string) bool {
	switch c {
	case ConditionGood, ConditionLightDamage, ConditionHeavyDamage, ConditionLost:
		return true
	}
	return false
}

type Asset struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Category    string `gorm:"size:20;index;not null" json:"category"` // room | facility
	Location    string `gorm:"size:200" json:"location"`
	Description string `gorm:"size:1000" json:"description,omitempty"`

	AcquisitionYear string `gorm:"size:9" json:"acquisitionYear,omitempty"`
	Semester        string `gorm:"size:10" json:"semester,omitempty"`

	TotalStock     int `gorm:"not null;default:0" json:"totalStock"`
	AvailableStock int `gorm:"not null;default:0" json:"availableStock"`

	Conditions []AssetCondition `gorm:"foreignKey:AssetID" json:"conditions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AssetCondition struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	AssetID   string `gorm:"type:uuid;index;not null" json:"-"`
	Condition string `gorm:"size:20;not null" json:"condition"`
	Quantity  int    `gorm:"not null;default:0" json:"quantity"`
}

// StockLoss is the audit trail for units written off as lost during
// return processing.
type StockLoss struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AssetID    string    `gorm:"type:uuid;index;not null" json:"assetId"`
	LoanID     string    `gorm:"type:uuid;index;not null" json:"loanId"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	RecordedBy string    `gorm:"type:uuid" json:"recordedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Asset) TableName() string          { return AssetTable }
func (AssetCondition) TableName() string { return AssetConditionTable }
func (StockLoss) TableName() string      { return StockLossTable }
