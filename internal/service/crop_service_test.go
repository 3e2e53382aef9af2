package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
)

// stubPredictor returns a fixed price, or an error when set.
type stubPredictor struct {
	price decimal.Decimal
	err   error
}

func (p *stubPredictor) PredictPrice(ctx context.Context, cropType model.CropType, region model.Region, quality model.QualityGrade, quantityKg int64) (decimal.Decimal, error) {
	return p.price, p.err
}

func validCropInput() CropCreateInput {
	return CropCreateInput{
		Name:        "Winter Wheat",
		Type:        model.CropWheat,
		Quality:     model.QualityGradeA,
		Region:      model.RegionNorth,
		QuantityKg:  1000,
		PricePerKg:  decimal.NewFromInt(45),
		HarvestDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCropService_Create(t *testing.T) {
	farmer := &model.User{ID: uuid.New(), Role: model.RoleFarmer}

	tests := []struct {
		name      string
		mutate    func(*CropCreateInput)
		wantField string
	}{
		{name: "missing name", mutate: func(in *CropCreateInput) { in.Name = "" }, wantField: "name"},
		{name: "unknown crop type", mutate: func(in *CropCreateInput) { in.Type = "Barley" }, wantField: "type"},
		{name: "unknown quality", mutate: func(in *CropCreateInput) { in.Quality = "Grade_Z" }, wantField: "quality"},
		{name: "unknown region", mutate: func(in *CropCreateInput) { in.Region = "Central" }, wantField: "region"},
		{name: "zero quantity", mutate: func(in *CropCreateInput) { in.QuantityKg = 0 }, wantField: "quantity_kg"},
		{name: "non-positive price", mutate: func(in *CropCreateInput) { in.PricePerKg = decimal.Zero }, wantField: "price_per_kg"},
		{name: "missing harvest date", mutate: func(in *CropCreateInput) { in.HarvestDate = time.Time{} }, wantField: "harvest_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCropRepository)
			service := NewCropService(mockRepo, nil)

			input := validCropInput()
			tt.mutate(&input)

			crop, err := service.Create(context.Background(), farmer, input)

			assert.Nil(t, crop)
			var httpErr *apperrors.HTTPError
			assert.ErrorAs(t, err, &httpErr)
			assert.Equal(t, 422, httpErr.StatusCode)
			assert.Contains(t, httpErr.Fields, tt.wantField)
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("successful create fills qr payload and predicted price", func(t *testing.T) {
		mockRepo := new(MockCropRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Crop")).Return(nil)

		predicted := decimal.NewFromFloat(47.25)
		service := NewCropService(mockRepo, &stubPredictor{price: predicted})

		crop, err := service.Create(context.Background(), farmer, validCropInput())

		assert.NoError(t, err)
		assert.NotNil(t, crop)
		assert.Equal(t, farmer.ID, crop.FarmerID)
		assert.Equal(t, model.CropStatusAvailable, crop.Status)
		assert.True(t, crop.Active)
		assert.NotEmpty(t, crop.QRPayload)
		assert.True(t, predicted.Equal(crop.PredictedPrice))
		mockRepo.AssertExpectations(t)
	})

	t.Run("prediction failure never blocks the listing", func(t *testing.T) {
		mockRepo := new(MockCropRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Crop")).Return(nil)

		service := NewCropService(mockRepo, &stubPredictor{err: errors.New("ml unreachable")})

		crop, err := service.Create(context.Background(), farmer, validCropInput())

		assert.NoError(t, err)
		assert.NotNil(t, crop)
		assert.True(t, crop.PredictedPrice.IsZero())
		mockRepo.AssertExpectations(t)
	})
}

func TestCropService_Get(t *testing.T) {
	t.Run("inactive crop reads as not found", func(t *testing.T) {
		cropID := uuid.New()
		mockRepo := new(MockCropRepository)
		mockRepo.On("FindByID", mock.Anything, cropID).Return(&model.Crop{ID: cropID, Active: false}, nil)

		service := NewCropService(mockRepo, nil)
		crop, err := service.Get(context.Background(), cropID)

		assert.Equal(t, apperrors.ErrCropNotFound, err)
		assert.Nil(t, crop)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing record maps to domain error", func(t *testing.T) {
		cropID := uuid.New()
		mockRepo := new(MockCropRepository)
		mockRepo.On("FindByID", mock.Anything, cropID).Return(nil, gorm.ErrRecordNotFound)

		service := NewCropService(mockRepo, nil)
		crop, err := service.Get(context.Background(), cropID)

		assert.Equal(t, apperrors.ErrCropNotFound, err)
		assert.Nil(t, crop)
		mockRepo.AssertExpectations(t)
	})
}

func TestCropService_Update(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleFarmer}
	stranger := &model.User{ID: uuid.New(), Role: model.RoleFarmer}
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	newCrop := func() *model.Crop {
		return &model.Crop{
			ID:         uuid.New(),
			FarmerID:   owner.ID,
			Name:       "Winter Wheat",
			Type:       model.CropWheat,
			Quality:    model.QualityGradeA,
			Region:     model.RegionNorth,
			QuantityKg: 1000,
			PricePerKg: decimal.NewFromInt(45),
			Status:     model.CropStatusAvailable,
			Active:     true,
		}
	}

	t.Run("non-owner is forbidden", func(t *testing.T) {
		crop := newCrop()
		mockRepo := new(MockCropRepository)
		mockRepo.On("FindByID", mock.Anything, crop.ID).Return(crop, nil)

		service := NewCropService(mockRepo, nil)
		name := "Renamed"
		updated, err := service.Update(context.Background(), stranger, crop.ID, CropUpdate{Name: &name})

		assert.Equal(t, apperrors.ErrForbidden, err)
		assert.Nil(t, updated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin may update any crop", func(t *testing.T) {
		crop := newCrop()
		mockRepo := new(MockCropRepository)
		mockRepo.On("FindByID", mock.Anything, crop.ID).Return(crop, nil)
		mockRepo.On("Update", mock.Anything, crop).Return(nil)

		service := NewCropService(mockRepo, nil)
		price := decimal.NewFromInt(50)
		updated, err := service.Update(context.Background(), admin, crop.ID, CropUpdate{PricePerKg: &price})

		assert.NoError(t, err)
		assert.True(t, price.Equal(updated.PricePerKg))
		mockRepo.AssertExpectations(t)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		crop := newCrop()
		mockRepo := new(MockCropRepository)
		mockRepo.On("FindByID", mock.Anything, crop.ID).Return(crop, nil)

		service := NewCropService(mockRepo, nil)
		qty := int64(0)
		updated, err := service.Update(context.Background(), owner, crop.ID, CropUpdate{QuantityKg: &qty})

		assert.Equal(t, apperrors.ErrInvalidQuantity, err)
		assert.Nil(t, updated)
		mockRepo.AssertExpectations(t)
	})
}

func TestCropService_Delete(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleFarmer}

	crop := &model.Crop{
		ID:       uuid.New(),
		FarmerID: owner.ID,
		Active:   true,
	}

	mockRepo := new(MockCropRepository)
	mockRepo.On("FindByID", mock.Anything, crop.ID).Return(crop, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Crop) bool {
		return !c.Active
	})).Return(nil)

	service := NewCropService(mockRepo, nil)
	err := service.Delete(context.Background(), owner, crop.ID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
