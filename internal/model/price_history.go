package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceHistory is a market price sample keyed by crop type, region and date.
// Samples back the historical-average price fallback.
type PriceHistory struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	CropType   CropType        `json:"crop_type" gorm:"type:varchar(20);not null;index:idx_price_lookup"`
	Region     Region          `json:"region" gorm:"type:varchar(10);not null;index:idx_price_lookup"`
	PricePerKg decimal.Decimal `json:"price_per_kg" gorm:"type:decimal(20,2);not null"`
	MarketName string          `json:"market_name,omitempty" gorm:"size:255"`
	RecordedAt time.Time       `json:"recorded_at" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *PriceHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
