package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the payment status of a transaction.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Transaction represents a crop sale between a farmer and a distributor.
// TotalAmount is fixed at creation as QuantityKg x PricePerKg.
// Transactions are never deleted, only status-transitioned.
type Transaction struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	CropID        uuid.UUID `json:"crop_id" gorm:"type:char(36);not null;index"`
	FarmerID      uuid.UUID `json:"farmer_id" gorm:"type:char(36);not null;index"`
	DistributorID uuid.UUID `json:"distributor_id" gorm:"type:char(36);not null;index"`

	QuantityKg    int64           `json:"quantity_kg" gorm:"not null"`
	PricePerKg    decimal.Decimal `json:"price_per_kg" gorm:"type:decimal(20,2);not null"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,2);not null"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod string          `json:"payment_method,omitempty" gorm:"size:50"`
	InvoiceNumber string          `json:"invoice_number" gorm:"uniqueIndex;size:40;not null"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Crop Crop `json:"-" gorm:"foreignKey:CropID"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
