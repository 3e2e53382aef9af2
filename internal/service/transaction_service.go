package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/repository"
)

// TransactionCreateInput carries the fields accepted when a distributor
// opens a purchase.
type TransactionCreateInput struct {
	CropID        uuid.UUID
	QuantityKg    int64
	PaymentMethod string
}

// TransactionService handles crop sale transactions.
type TransactionService interface {
	Create(ctx context.Context, actor *model.User, input TransactionCreateInput) (*model.Transaction, error)
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, actor *model.User, filter repository.TransactionFilter) ([]model.Transaction, int64, error)
	// Confirm settles the sale: decrements the crop quantity and completes
	// the transaction atomically.
	Confirm(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error)
	Fail(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error)
	Refund(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error)
}

type transactionService struct {
	txnRepo  repository.TransactionRepository
	cropRepo repository.CropRepository
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo repository.TransactionRepository, cropRepo repository.CropRepository) TransactionService {
	return &transactionService{
		txnRepo:  txnRepo,
		cropRepo: cropRepo,
	}
}

// Create opens a pending transaction against an available crop. TotalAmount
// is computed here as QuantityKg x PricePerKg and never changes afterwards.
func (s *transactionService) Create(ctx context.Context, actor *model.User, input TransactionCreateInput) (*model.Transaction, error) {
	if input.QuantityKg < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	crop, err := s.cropRepo.FindByID(ctx, input.CropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCropNotFound
		}
		return nil, fmt.Errorf("find crop: %w", err)
	}
	if !crop.Active || crop.Status != model.CropStatusAvailable {
		return nil, apperrors.ErrCropUnavailable
	}
	if input.QuantityKg > crop.QuantityKg {
		return nil, apperrors.ErrInsufficientQuantity
	}

	txn := &model.Transaction{
		ID:            uuid.New(),
		CropID:        crop.ID,
		FarmerID:      crop.FarmerID,
		DistributorID: actor.ID,
		QuantityKg:    input.QuantityKg,
		PricePerKg:    crop.PricePerKg,
		TotalAmount:   crop.PricePerKg.Mul(decimal.NewFromInt(input.QuantityKg)),
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: input.PaymentMethod,
		InvoiceNumber: newInvoiceNumber(),
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return txn, nil
}

// Get loads a transaction, scoped to its farmer, distributor, or an admin.
func (s *transactionService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && txn.FarmerID != actor.ID && txn.DistributorID != actor.ID {
		return nil, apperrors.ErrForbidden
	}
	return txn, nil
}

// List scopes results to the caller the same way shipments are scoped.
func (s *transactionService) List(ctx context.Context, actor *model.User, filter repository.TransactionFilter) ([]model.Transaction, int64, error) {
	switch actor.Role {
	case model.RoleFarmer:
		filter.FarmerID = actor.ID
	case model.RoleDistributor:
		filter.DistributorID = actor.ID
	}
	return s.txnRepo.List(ctx, filter)
}

// Confirm settles a pending sale. The crop quantity decrement and the
// transaction completion run in one database transaction: either both
// happen or neither does. Selling the full remaining quantity flips the
// crop to sold.
func (s *transactionService) Confirm(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.FarmerID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if txn.PaymentStatus != model.PaymentStatusPending {
		return nil, apperrors.ErrInvalidTransition
	}

	err = s.txnRepo.WithTransaction(ctx, func(txns repository.TransactionRepository, crops repository.CropRepository) error {
		remaining, err := crops.DecrementQuantity(ctx, txn.CropID, txn.QuantityKg)
		if err != nil {
			return err
		}

		if remaining == 0 {
			crop, err := crops.FindByID(ctx, txn.CropID)
			if err != nil {
				return fmt.Errorf("find crop: %w", err)
			}
			crop.Status = model.CropStatusSold
			if err := crops.Update(ctx, crop); err != nil {
				return fmt.Errorf("mark crop sold: %w", err)
			}
		}

		now := time.Now()
		txn.PaymentStatus = model.PaymentStatusCompleted
		txn.CompletedAt = &now
		if err := txns.Update(ctx, txn); err != nil {
			return fmt.Errorf("complete transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// Fail marks a pending transaction as failed.
func (s *transactionService) Fail(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error) {
	return s.transition(ctx, actor, id, model.PaymentStatusPending, model.PaymentStatusFailed)
}

// Refund marks a completed transaction as refunded. The crop quantity is
// not restored; refunds are a bookkeeping state.
func (s *transactionService) Refund(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Transaction, error) {
	return s.transition(ctx, actor, id, model.PaymentStatusCompleted, model.PaymentStatusRefunded)
}

func (s *transactionService) transition(ctx context.Context, actor *model.User, id uuid.UUID, from, to model.PaymentStatus) (*model.Transaction, error) {
	txn, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.FarmerID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if txn.PaymentStatus != from {
		return nil, apperrors.ErrInvalidTransition
	}

	txn.PaymentStatus = to
	if err := s.txnRepo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return txn, nil
}

func (s *transactionService) find(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return txn, nil
}

func newInvoiceNumber() string {
	return "INV-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
