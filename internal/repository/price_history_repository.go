package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"agrichain/internal/model"
)

// PriceHistoryFilter narrows price history listings.
type PriceHistoryFilter struct {
	CropType model.CropType
	Region   model.Region
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// PriceHistoryRepository defines price sample persistence operations.
type PriceHistoryRepository interface {
	Create(ctx context.Context, sample *model.PriceHistory) error
	CreateBatch(ctx context.Context, samples []model.PriceHistory) error
	List(ctx context.Context, filter PriceHistoryFilter) ([]model.PriceHistory, int64, error)
	// AverageRecent returns the mean price per kg over the most recent
	// samples for a crop type and region, along with the sample count.
	AverageRecent(ctx context.Context, cropType model.CropType, region model.Region, window int) (float64, int64, error)
}

type priceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository builds a GORM-backed repository.
func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) Create(ctx context.Context, sample *model.PriceHistory) error {
	return r.db.WithContext(ctx).Create(sample).Error
}

func (r *priceHistoryRepository) CreateBatch(ctx context.Context, samples []model.PriceHistory) error {
	if len(samples) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(samples, 100).Error
}

func (r *priceHistoryRepository) List(ctx context.Context, filter PriceHistoryFilter) ([]model.PriceHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.PriceHistory{})

	if filter.CropType != "" {
		query = query.Where("crop_type = ?", filter.CropType)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.From != nil {
		query = query.Where("recorded_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("recorded_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var samples []model.PriceHistory
	if err := applyPagination(query, filter.Page, filter.Limit).
		Order("recorded_at DESC").
		Find(&samples).Error; err != nil {
		return nil, 0, err
	}
	return samples, total, nil
}

func (r *priceHistoryRepository) AverageRecent(ctx context.Context, cropType model.CropType, region model.Region, window int) (float64, int64, error) {
	if window < 1 {
		window = 30
	}

	sub := r.db.WithContext(ctx).Model(&model.PriceHistory{}).
		Select("price_per_kg").
		Where("crop_type = ? AND region = ?", cropType, region).
		Order("recorded_at DESC").
		Limit(window)

	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Table("(?) AS recent", sub).
		Select("AVG(price_per_kg) AS avg, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}
