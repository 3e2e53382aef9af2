package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/repository"
)

func TestTransactionService_Create(t *testing.T) {
	distributor := &model.User{ID: uuid.New(), Role: model.RoleDistributor}
	farmerID := uuid.New()

	availableCrop := func() *model.Crop {
		return &model.Crop{
			ID:         uuid.New(),
			FarmerID:   farmerID,
			QuantityKg: 1000,
			PricePerKg: decimal.NewFromFloat(45.50),
			Status:     model.CropStatusAvailable,
			Active:     true,
		}
	}

	t.Run("total amount is quantity times price", func(t *testing.T) {
		crop := availableCrop()
		mockCrops := new(MockCropRepository)
		mockCrops.On("FindByID", mock.Anything, crop.ID).Return(crop, nil)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)

		service := NewTransactionService(mockTxns, mockCrops)
		txn, err := service.Create(context.Background(), distributor, TransactionCreateInput{
			CropID:        crop.ID,
			QuantityKg:    200,
			PaymentMethod: "upi",
		})

		assert.NoError(t, err)
		assert.NotNil(t, txn)
		assert.Equal(t, farmerID, txn.FarmerID)
		assert.Equal(t, distributor.ID, txn.DistributorID)
		assert.Equal(t, model.PaymentStatusPending, txn.PaymentStatus)
		assert.True(t, decimal.NewFromFloat(9100).Equal(txn.TotalAmount))
		assert.True(t, strings.HasPrefix(txn.InvoiceNumber, "INV-"))
		mockCrops.AssertExpectations(t)
		mockTxns.AssertExpectations(t)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		mockCrops := new(MockCropRepository)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}

		service := NewTransactionService(mockTxns, mockCrops)
		txn, err := service.Create(context.Background(), distributor, TransactionCreateInput{
			CropID:     uuid.New(),
			QuantityKg: 0,
		})

		assert.Equal(t, apperrors.ErrInvalidQuantity, err)
		assert.Nil(t, txn)
	})

	t.Run("sold crop is unavailable", func(t *testing.T) {
		crop := availableCrop()
		crop.Status = model.CropStatusSold
		mockCrops := new(MockCropRepository)
		mockCrops.On("FindByID", mock.Anything, crop.ID).Return(crop, nil)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}

		service := NewTransactionService(mockTxns, mockCrops)
		txn, err := service.Create(context.Background(), distributor, TransactionCreateInput{
			CropID:     crop.ID,
			QuantityKg: 100,
		})

		assert.Equal(t, apperrors.ErrCropUnavailable, err)
		assert.Nil(t, txn)
		mockCrops.AssertExpectations(t)
	})

	t.Run("quantity above remaining stock is rejected", func(t *testing.T) {
		crop := availableCrop()
		mockCrops := new(MockCropRepository)
		mockCrops.On("FindByID", mock.Anything, crop.ID).Return(crop, nil)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}

		service := NewTransactionService(mockTxns, mockCrops)
		txn, err := service.Create(context.Background(), distributor, TransactionCreateInput{
			CropID:     crop.ID,
			QuantityKg: 5000,
		})

		assert.Equal(t, apperrors.ErrInsufficientQuantity, err)
		assert.Nil(t, txn)
		mockCrops.AssertExpectations(t)
	})
}

func TestTransactionService_Confirm(t *testing.T) {
	farmer := &model.User{ID: uuid.New(), Role: model.RoleFarmer}
	cropID := uuid.New()

	pendingTxn := func() *model.Transaction {
		return &model.Transaction{
			ID:            uuid.New(),
			CropID:        cropID,
			FarmerID:      farmer.ID,
			DistributorID: uuid.New(),
			QuantityKg:    200,
			PaymentStatus: model.PaymentStatusPending,
		}
	}

	t.Run("partial sale completes and leaves crop available", func(t *testing.T) {
		txn := pendingTxn()
		mockCrops := new(MockCropRepository)
		mockCrops.On("DecrementQuantity", mock.Anything, cropID, int64(200)).Return(int64(800), nil)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
		mockTxns.On("Update", mock.Anything, txn).Return(nil)

		service := NewTransactionService(mockTxns, mockCrops)
		confirmed, err := service.Confirm(context.Background(), farmer, txn.ID)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, confirmed.PaymentStatus)
		assert.NotNil(t, confirmed.CompletedAt)
		mockCrops.AssertExpectations(t)
		mockTxns.AssertExpectations(t)
	})

	t.Run("selling the full quantity marks the crop sold", func(t *testing.T) {
		txn := pendingTxn()
		crop := &model.Crop{ID: cropID, QuantityKg: 0, Status: model.CropStatusAvailable, Active: true}
		mockCrops := new(MockCropRepository)
		mockCrops.On("DecrementQuantity", mock.Anything, cropID, int64(200)).Return(int64(0), nil)
		mockCrops.On("FindByID", mock.Anything, cropID).Return(crop, nil)
		mockCrops.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Crop) bool {
			return c.Status == model.CropStatusSold
		})).Return(nil)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
		mockTxns.On("Update", mock.Anything, txn).Return(nil)

		service := NewTransactionService(mockTxns, mockCrops)
		confirmed, err := service.Confirm(context.Background(), farmer, txn.ID)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, confirmed.PaymentStatus)
		mockCrops.AssertExpectations(t)
		mockTxns.AssertExpectations(t)
	})

	t.Run("insufficient stock aborts the confirmation", func(t *testing.T) {
		txn := pendingTxn()
		mockCrops := new(MockCropRepository)
		mockCrops.On("DecrementQuantity", mock.Anything, cropID, int64(200)).Return(int64(0), apperrors.ErrInsufficientQuantity)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)

		service := NewTransactionService(mockTxns, mockCrops)
		confirmed, err := service.Confirm(context.Background(), farmer, txn.ID)

		assert.Equal(t, apperrors.ErrInsufficientQuantity, err)
		assert.Nil(t, confirmed)
		mockCrops.AssertExpectations(t)
		mockTxns.AssertExpectations(t)
	})

	t.Run("only the farmer or an admin may confirm", func(t *testing.T) {
		txn := pendingTxn()
		distributor := &model.User{ID: txn.DistributorID, Role: model.RoleDistributor}
		mockCrops := new(MockCropRepository)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)

		service := NewTransactionService(mockTxns, mockCrops)
		confirmed, err := service.Confirm(context.Background(), distributor, txn.ID)

		assert.Equal(t, apperrors.ErrForbidden, err)
		assert.Nil(t, confirmed)
		mockTxns.AssertExpectations(t)
	})

	t.Run("already completed transaction cannot be confirmed again", func(t *testing.T) {
		txn := pendingTxn()
		txn.PaymentStatus = model.PaymentStatusCompleted
		mockCrops := new(MockCropRepository)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)

		service := NewTransactionService(mockTxns, mockCrops)
		confirmed, err := service.Confirm(context.Background(), farmer, txn.ID)

		assert.Equal(t, apperrors.ErrInvalidTransition, err)
		assert.Nil(t, confirmed)
		mockTxns.AssertExpectations(t)
	})
}

func TestTransactionService_Transitions(t *testing.T) {
	farmer := &model.User{ID: uuid.New(), Role: model.RoleFarmer}

	newTxn := func(status model.PaymentStatus) *model.Transaction {
		return &model.Transaction{
			ID:            uuid.New(),
			FarmerID:      farmer.ID,
			DistributorID: uuid.New(),
			PaymentStatus: status,
		}
	}

	t.Run("pending can fail", func(t *testing.T) {
		txn := newTxn(model.PaymentStatusPending)
		mockCrops := new(MockCropRepository)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
		mockTxns.On("Update", mock.Anything, txn).Return(nil)

		service := NewTransactionService(mockTxns, mockCrops)
		failed, err := service.Fail(context.Background(), farmer, txn.ID)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, failed.PaymentStatus)
		mockTxns.AssertExpectations(t)
	})

	t.Run("completed can refund", func(t *testing.T) {
		txn := newTxn(model.PaymentStatusCompleted)
		mockCrops := new(MockCropRepository)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
		mockTxns.On("Update", mock.Anything, txn).Return(nil)

		service := NewTransactionService(mockTxns, mockCrops)
		refunded, err := service.Refund(context.Background(), farmer, txn.ID)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusRefunded, refunded.PaymentStatus)
		mockTxns.AssertExpectations(t)
	})

	t.Run("pending cannot refund", func(t *testing.T) {
		txn := newTxn(model.PaymentStatusPending)
		mockCrops := new(MockCropRepository)
		mockTxns := &MockTransactionRepository{Crops: mockCrops}
		mockTxns.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)

		service := NewTransactionService(mockTxns, mockCrops)
		refunded, err := service.Refund(context.Background(), farmer, txn.ID)

		assert.Equal(t, apperrors.ErrInvalidTransition, err)
		assert.Nil(t, refunded)
		mockTxns.AssertExpectations(t)
	})
}

func TestTransactionService_List_ScopesByRole(t *testing.T) {
	farmer := &model.User{ID: uuid.New(), Role: model.RoleFarmer}
	mockCrops := new(MockCropRepository)
	mockTxns := &MockTransactionRepository{Crops: mockCrops}
	mockTxns.On("List", mock.Anything, mock.MatchedBy(func(f repository.TransactionFilter) bool {
		return f.FarmerID == farmer.ID
	})).Return([]model.Transaction{}, int64(0), nil)

	service := NewTransactionService(mockTxns, mockCrops)
	_, _, err := service.List(context.Background(), farmer, repository.TransactionFilter{})

	assert.NoError(t, err)
	mockTxns.AssertExpectations(t)
}
