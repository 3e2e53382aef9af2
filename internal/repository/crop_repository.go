package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
)

// CropFilter narrows crop listings.
type CropFilter struct {
	Type        model.CropType
	Status      model.CropStatus
	Region      model.Region
	Quality     model.QualityGrade
	FarmerID    uuid.UUID
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	HarvestFrom *time.Time
	HarvestTo   *time.Time
	Page        int
	Limit       int
}

// CropRepository defines crop persistence operations.
type CropRepository interface {
	Create(ctx context.Context, crop *model.Crop) error
	Update(ctx context.Context, crop *model.Crop) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Crop, error)
	List(ctx context.Context, filter CropFilter) ([]model.Crop, int64, error)
	// DecrementQuantity atomically subtracts qty from the crop's remaining
	// quantity, guarded so the quantity never goes negative. Returns the
	// remaining quantity, or ErrInsufficientQuantity when the guard fails.
	DecrementQuantity(ctx context.Context, id uuid.UUID, qty int64) (int64, error)
}

type cropRepository struct {
	db *gorm.DB
}

// NewCropRepository builds a GORM-backed repository.
func NewCropRepository(db *gorm.DB) CropRepository {
	return &cropRepository{db: db}
}

func (r *cropRepository) Create(ctx context.Context, crop *model.Crop) error {
	return r.db.WithContext(ctx).Create(crop).Error
}

func (r *cropRepository) Update(ctx context.Context, crop *model.Crop) error {
	return r.db.WithContext(ctx).Save(crop).Error
}

func (r *cropRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	var crop model.Crop
	if err := r.db.WithContext(ctx).First(&crop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &crop, nil
}

func (r *cropRepository) List(ctx context.Context, filter CropFilter) ([]model.Crop, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Crop{}).Where("active = ?", true)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Quality != "" {
		query = query.Where("quality = ?", filter.Quality)
	}
	if filter.FarmerID != uuid.Nil {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.PriceMin != nil {
		query = query.Where("price_per_kg >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price_per_kg <= ?", *filter.PriceMax)
	}
	if filter.HarvestFrom != nil {
		query = query.Where("harvest_date >= ?", *filter.HarvestFrom)
	}
	if filter.HarvestTo != nil {
		query = query.Where("harvest_date <= ?", *filter.HarvestTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var crops []model.Crop
	if err := applyPagination(query, filter.Page, filter.Limit).
		Order("created_at DESC").
		Find(&crops).Error; err != nil {
		return nil, 0, err
	}
	return crops, total, nil
}

func (r *cropRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("id = ? AND quantity_kg >= ?", id, qty).
		UpdateColumn("quantity_kg", gorm.Expr("quantity_kg - ?", qty))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.ErrInsufficientQuantity
	}

	var crop model.Crop
	if err := r.db.WithContext(ctx).Select("quantity_kg").First(&crop, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return crop.QuantityKg, nil
}
