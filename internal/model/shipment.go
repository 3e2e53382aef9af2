package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShipmentStatus represents the status of a shipment.
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s ShipmentStatus) Terminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

// ValidShipmentStatus reports whether s is a known shipment status.
func ValidShipmentStatus(s ShipmentStatus) bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusInTransit,
		ShipmentStatusDelivered, ShipmentStatusCancelled:
		return true
	}
	return false
}

// Shipment represents a crop shipment from a farmer to a distributor.
// Shipments are never deleted, only status-transitioned.
type Shipment struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	CropID        uuid.UUID `json:"crop_id" gorm:"type:char(36);not null;index"`
	FarmerID      uuid.UUID `json:"farmer_id" gorm:"type:char(36);not null;index"`
	DistributorID uuid.UUID `json:"distributor_id" gorm:"type:char(36);not null;index"`

	TrackingNumber string         `json:"tracking_number" gorm:"uniqueIndex;size:40;not null"`
	Origin         string         `json:"origin" gorm:"size:255;not null"`
	Destination    string         `json:"destination" gorm:"size:255;not null"`
	Status         ShipmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`

	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`
	ActualDeliveryAt    *time.Time `json:"actual_delivery_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Crop        Crop         `json:"-" gorm:"foreignKey:CropID"`
	Checkpoints []Checkpoint `json:"checkpoints,omitempty" gorm:"foreignKey:ShipmentID"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Shipment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Checkpoint is a timestamped status/location record appended to a
// shipment's history. The sequence is append-only and insertion-ordered.
type Checkpoint struct {
	ID         uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	ShipmentID uuid.UUID      `json:"shipment_id" gorm:"type:char(36);not null;index"`
	Location   string         `json:"location" gorm:"size:255;not null"`
	Status     ShipmentStatus `json:"status" gorm:"type:varchar(20);not null"`
	Note       string         `json:"note,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Checkpoint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
