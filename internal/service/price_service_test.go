package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/mlclient"
	"agrichain/internal/model"
)

func predictInput() PredictInput {
	return PredictInput{
		CropType:   model.CropWheat,
		Region:     model.RegionNorth,
		Quality:    model.QualityGradeA,
		QuantityKg: 1000,
		Season:     "Winter",
	}
}

func TestPriceService_Predict_ModelAvailable(t *testing.T) {
	mockML := new(MockMLClient)
	mockML.On("Predict", mock.Anything, mock.AnythingOfType("mlclient.Features")).Return(&mlclient.Prediction{
		Price:      48.73,
		Confidence: 0.85,
		Source:     mlclient.SourceModel,
	}, nil)
	mockHistory := new(MockPriceHistoryRepository)

	service := NewPriceService(mockML, new(MockMLStatusProvider), mockHistory, nil)
	result, err := service.Predict(context.Background(), predictInput())

	assert.NoError(t, err)
	assert.Equal(t, mlclient.SourceModel, result.Source)
	assert.Equal(t, 0.85, result.Confidence)
	assert.True(t, decimal.NewFromFloat(48.73).Equal(result.PricePerKg))
	assert.True(t, decimal.NewFromFloat(48730).Equal(result.TotalValue))
	assert.Equal(t, "INR", result.Currency)
	mockML.AssertExpectations(t)
}

func TestPriceService_Predict_DegradesToHistoricalAverage(t *testing.T) {
	mockML := new(MockMLClient)
	mockML.On("Predict", mock.Anything, mock.AnythingOfType("mlclient.Features")).Return(nil, errors.New("connection refused"))
	mockHistory := new(MockPriceHistoryRepository)
	mockHistory.On("AverageRecent", mock.Anything, model.CropWheat, model.RegionNorth, 30).Return(50.0, int64(12), nil)

	service := NewPriceService(mockML, new(MockMLStatusProvider), mockHistory, nil)

	input := predictInput()
	input.Quality = model.QualityGradeB
	result, err := service.Predict(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, mlclient.SourceHistorical, result.Source)
	assert.Equal(t, 0.7, result.Confidence)
	// 50.0 average scaled by the Grade_B multiplier 0.8.
	assert.True(t, decimal.NewFromFloat(40).Equal(result.PricePerKg))
	mockML.AssertExpectations(t)
	mockHistory.AssertExpectations(t)
}

func TestPriceService_Predict_DegradesToFallbackTable(t *testing.T) {
	mockML := new(MockMLClient)
	mockML.On("Predict", mock.Anything, mock.AnythingOfType("mlclient.Features")).Return(nil, errors.New("connection refused"))
	mockHistory := new(MockPriceHistoryRepository)
	mockHistory.On("AverageRecent", mock.Anything, model.CropWheat, model.RegionNorth, 30).Return(0.0, int64(0), nil)

	service := NewPriceService(mockML, new(MockMLStatusProvider), mockHistory, nil)
	result, err := service.Predict(context.Background(), predictInput())

	assert.NoError(t, err)
	assert.Equal(t, mlclient.SourceFallback, result.Source)
	assert.Equal(t, mlclient.FallbackConfidence, result.Confidence)
	// Wheat base 45 with all-neutral multipliers and no bulk discount.
	assert.True(t, decimal.NewFromFloat(45).Equal(result.PricePerKg))
	mockML.AssertExpectations(t)
	mockHistory.AssertExpectations(t)
}

func TestPriceService_Predict_ValidatesInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*PredictInput)
		wantField string
	}{
		{name: "unknown crop type", mutate: func(in *PredictInput) { in.CropType = "Barley" }, wantField: "crop_type"},
		{name: "unknown region", mutate: func(in *PredictInput) { in.Region = "Central" }, wantField: "region"},
		{name: "unknown quality", mutate: func(in *PredictInput) { in.Quality = "Grade_Z" }, wantField: "quality"},
		{name: "zero quantity", mutate: func(in *PredictInput) { in.QuantityKg = 0 }, wantField: "quantity_kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewPriceService(new(MockMLClient), new(MockMLStatusProvider), new(MockPriceHistoryRepository), nil)

			input := predictInput()
			tt.mutate(&input)
			result, err := service.Predict(context.Background(), input)

			assert.Nil(t, result)
			var httpErr *apperrors.HTTPError
			assert.ErrorAs(t, err, &httpErr)
			assert.Equal(t, 422, httpErr.StatusCode)
			assert.Contains(t, httpErr.Fields, tt.wantField)
		})
	}
}

func TestPriceService_PredictPrice(t *testing.T) {
	mockML := new(MockMLClient)
	mockML.On("Predict", mock.Anything, mock.AnythingOfType("mlclient.Features")).Return(&mlclient.Prediction{
		Price:      52.1,
		Confidence: 0.85,
	}, nil)

	service := NewPriceService(mockML, new(MockMLStatusProvider), new(MockPriceHistoryRepository), nil)
	price, err := service.PredictPrice(context.Background(), model.CropRice, model.RegionSouth, model.QualityPremium, 500)

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(52.1).Equal(price))
	mockML.AssertExpectations(t)
}

func TestPriceService_MLStatus(t *testing.T) {
	mockStatus := new(MockMLStatusProvider)
	mockStatus.On("Status").Return(mlclient.HealthStatus{Available: true, ModelLoaded: true})

	service := NewPriceService(new(MockMLClient), mockStatus, new(MockPriceHistoryRepository), nil)
	status := service.MLStatus()

	assert.True(t, status.Available)
	assert.True(t, status.ModelLoaded)
	mockStatus.AssertExpectations(t)
}

func TestPriceService_Train(t *testing.T) {
	t.Run("relays the remote result", func(t *testing.T) {
		mockML := new(MockMLClient)
		mockML.On("Train", mock.Anything).Return(&mlclient.TrainResult{Success: true, Message: "training started"}, nil)

		service := NewPriceService(mockML, new(MockMLStatusProvider), new(MockPriceHistoryRepository), nil)
		result, err := service.Train(context.Background())

		assert.NoError(t, err)
		assert.True(t, result.Success)
		mockML.AssertExpectations(t)
	})

	t.Run("surfaces transport failures", func(t *testing.T) {
		mockML := new(MockMLClient)
		mockML.On("Train", mock.Anything).Return(nil, errors.New("connection refused"))

		service := NewPriceService(mockML, new(MockMLStatusProvider), new(MockPriceHistoryRepository), nil)
		result, err := service.Train(context.Background())

		assert.Error(t, err)
		assert.Nil(t, result)
		mockML.AssertExpectations(t)
	})
}
