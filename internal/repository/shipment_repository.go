package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agrichain/internal/model"
)

// ShipmentFilter narrows shipment listings. Farmer/distributor scoping is
// applied by the service according to the caller's role.
type ShipmentFilter struct {
	Status        model.ShipmentStatus
	FarmerID      uuid.UUID
	DistributorID uuid.UUID
	CropID        uuid.UUID
	Page          int
	Limit         int
}

// ShipmentRepository defines shipment persistence operations.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *model.Shipment) error
	Update(ctx context.Context, shipment *model.Shipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shipment, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Shipment, error)
	List(ctx context.Context, filter ShipmentFilter) ([]model.Shipment, int64, error)
	AppendCheckpoint(ctx context.Context, checkpoint *model.Checkpoint) error
}

type shipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository builds a GORM-backed repository.
func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (r *shipmentRepository) Create(ctx context.Context, shipment *model.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *shipmentRepository) Update(ctx context.Context, shipment *model.Shipment) error {
	return r.db.WithContext(ctx).Omit("Checkpoints").Save(shipment).Error
}

// FindByID loads the shipment with its checkpoint history in insertion order.
func (r *shipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Shipment, error) {
	var shipment model.Shipment
	err := r.db.WithContext(ctx).
		Preload("Checkpoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&shipment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *shipmentRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Shipment, error) {
	var shipment model.Shipment
	err := r.db.WithContext(ctx).
		Preload("Checkpoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tracking_number = ?", trackingNumber).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *shipmentRepository) List(ctx context.Context, filter ShipmentFilter) ([]model.Shipment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Shipment{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FarmerID != uuid.Nil {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.DistributorID != uuid.Nil {
		query = query.Where("distributor_id = ?", filter.DistributorID)
	}
	if filter.CropID != uuid.Nil {
		query = query.Where("crop_id = ?", filter.CropID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shipments []model.Shipment
	if err := applyPagination(query, filter.Page, filter.Limit).
		Order("created_at DESC").
		Find(&shipments).Error; err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}

// AppendCheckpoint inserts a checkpoint row. Checkpoints are never updated
// or deleted afterwards.
func (r *shipmentRepository) AppendCheckpoint(ctx context.Context, checkpoint *model.Checkpoint) error {
	return r.db.WithContext(ctx).Create(checkpoint).Error
}
