package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CropType is the closed set of tradable crop types.
type CropType string

const (
	CropWheat      CropType = "Wheat"
	CropRice       CropType = "Rice"
	CropCorn       CropType = "Corn"
	CropPulses     CropType = "Pulses"
	CropVegetables CropType = "Vegetables"
	CropFruits     CropType = "Fruits"
	CropSugarcane  CropType = "Sugarcane"
	CropCotton     CropType = "Cotton"
	CropSoybean    CropType = "Soybean"
)

// QualityGrade is an enumerated crop quality tier affecting price.
type QualityGrade string

const (
	QualityPremium QualityGrade = "Premium"
	QualityGradeA  QualityGrade = "Grade_A"
	QualityGradeB  QualityGrade = "Grade_B"
	QualityGradeC  QualityGrade = "Grade_C"
)

// Region is the market region a crop is grown in.
type Region string

const (
	RegionNorth Region = "North"
	RegionSouth Region = "South"
	RegionEast  Region = "East"
	RegionWest  Region = "West"
)

// CropStatus represents the lifecycle status of a crop listing.
type CropStatus string

const (
	CropStatusAvailable CropStatus = "available"
	CropStatusReserved  CropStatus = "reserved"
	CropStatusSold      CropStatus = "sold"
)

// Crop represents a crop listing owned by a farmer.
// The owning farmer is immutable after creation.
type Crop struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FarmerID uuid.UUID `json:"farmer_id" gorm:"type:char(36);not null;index"`

	Name           string          `json:"name" gorm:"size:255;not null"`
	Type           CropType        `json:"type" gorm:"type:varchar(20);not null;index"`
	Quality        QualityGrade    `json:"quality" gorm:"type:varchar(10);not null"`
	Region         Region          `json:"region" gorm:"type:varchar(10);not null;index"`
	QuantityKg     int64           `json:"quantity_kg" gorm:"not null"`
	PricePerKg     decimal.Decimal `json:"price_per_kg" gorm:"type:decimal(20,2);not null"`
	PredictedPrice decimal.Decimal `json:"predicted_price" gorm:"type:decimal(20,2)"`
	HarvestDate    time.Time       `json:"harvest_date"`
	Description    string          `json:"description,omitempty" gorm:"type:text"`

	Status    CropStatus `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	QRPayload string     `json:"qr_payload,omitempty" gorm:"type:text"`
	Active    bool       `json:"active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Farmer User `json:"-" gorm:"foreignKey:FarmerID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Crop) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ValidCropType reports whether t is a known crop type.
func ValidCropType(t CropType) bool {
	switch t {
	case CropWheat, CropRice, CropCorn, CropPulses, CropVegetables,
		CropFruits, CropSugarcane, CropCotton, CropSoybean:
		return true
	}
	return false
}

// ValidQuality reports whether q is a known quality grade.
func ValidQuality(q QualityGrade) bool {
	switch q {
	case QualityPremium, QualityGradeA, QualityGradeB, QualityGradeC:
		return true
	}
	return false
}

// ValidRegion reports whether r is a known region.
func ValidRegion(r Region) bool {
	switch r {
	case RegionNorth, RegionSouth, RegionEast, RegionWest:
		return true
	}
	return false
}

// ValidCropStatus reports whether s is a known crop status.
func ValidCropStatus(s CropStatus) bool {
	switch s {
	case CropStatusAvailable, CropStatusReserved, CropStatusSold:
		return true
	}
	return false
}
