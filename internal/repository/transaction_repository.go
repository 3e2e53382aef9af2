package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agrichain/internal/model"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	PaymentStatus model.PaymentStatus
	FarmerID      uuid.UUID
	DistributorID uuid.UUID
	CropID        uuid.UUID
	From          *time.Time
	To            *time.Time
	Page          int
	Limit         int
}

// TransactionRepository defines transaction persistence operations.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	Update(ctx context.Context, txn *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error)
	// WithTransaction runs fn inside a single database transaction; the
	// repositories passed to fn are scoped to that transaction. Any error
	// from fn rolls the whole unit back.
	WithTransaction(ctx context.Context, fn func(txns TransactionRepository, crops CropRepository) error) error
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository builds a GORM-backed repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) Update(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var txn model.Transaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
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
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []model.Transaction
	if err := applyPagination(query, filter.Page, filter.Limit).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *transactionRepository) WithTransaction(ctx context.Context, fn func(txns TransactionRepository, crops CropRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionRepository{db: tx}, &cropRepository{db: tx})
	})
}
