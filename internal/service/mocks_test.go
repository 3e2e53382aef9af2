package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agrichain/internal/mlclient"
	"agrichain/internal/model"
	"agrichain/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

// MockCropRepository is a mock implementation of repository.CropRepository.
type MockCropRepository struct {
	mock.Mock
}

func (m *MockCropRepository) Create(ctx context.Context, crop *model.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *MockCropRepository) Update(ctx context.Context, crop *model.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *MockCropRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crop), args.Error(1)
}

func (m *MockCropRepository) List(ctx context.Context, filter repository.CropFilter) ([]model.Crop, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Crop), args.Get(1).(int64), args.Error(2)
}

func (m *MockCropRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int64) (int64, error) {
	args := m.Called(ctx, id, qty)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of
// repository.TransactionRepository. WithTransaction runs the callback
// against the mock itself and the Crops field, so tests observe the same
// expectations inside and outside the transactional closure.
type MockTransactionRepository struct {
	mock.Mock
	Crops *MockCropRepository
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *model.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) WithTransaction(ctx context.Context, fn func(txns repository.TransactionRepository, crops repository.CropRepository) error) error {
	return fn(m, m.Crops)
}

// MockShipmentRepository is a mock implementation of
// repository.ShipmentRepository.
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, shipment *model.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, shipment *model.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Shipment, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) List(ctx context.Context, filter repository.ShipmentFilter) ([]model.Shipment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Shipment), args.Get(1).(int64), args.Error(2)
}

func (m *MockShipmentRepository) AppendCheckpoint(ctx context.Context, checkpoint *model.Checkpoint) error {
	args := m.Called(ctx, checkpoint)
	return args.Error(0)
}

// MockPriceHistoryRepository is a mock implementation of
// repository.PriceHistoryRepository.
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) Create(ctx context.Context, sample *model.PriceHistory) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) CreateBatch(ctx context.Context, samples []model.PriceHistory) error {
	args := m.Called(ctx, samples)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) List(ctx context.Context, filter repository.PriceHistoryFilter) ([]model.PriceHistory, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.PriceHistory), args.Get(1).(int64), args.Error(2)
}

func (m *MockPriceHistoryRepository) AverageRecent(ctx context.Context, cropType model.CropType, region model.Region, window int) (float64, int64, error) {
	args := m.Called(ctx, cropType, region, window)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockMLClient is a mock implementation of MLClient.
type MockMLClient struct {
	mock.Mock
}

func (m *MockMLClient) Predict(ctx context.Context, features mlclient.Features) (*mlclient.Prediction, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mlclient.Prediction), args.Error(1)
}

func (m *MockMLClient) Train(ctx context.Context) (*mlclient.TrainResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mlclient.TrainResult), args.Error(1)
}

// MockMLStatusProvider is a mock implementation of MLStatusProvider.
type MockMLStatusProvider struct {
	mock.Mock
}

func (m *MockMLStatusProvider) Status() mlclient.HealthStatus {
	args := m.Called()
	return args.Get(0).(mlclient.HealthStatus)
}
