package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"agrichain/internal/cache"
	apperrors "agrichain/internal/errors"
	"agrichain/internal/metrics"
	"agrichain/internal/mlclient"
	"agrichain/internal/model"
	"agrichain/internal/repository"
)

const (
	predictionCacheTTL = 10 * time.Minute

	// historicalWindow is how many recent samples back the average.
	historicalWindow = 30

	historicalConfidence = 0.7
)

// MLClient is the outbound surface of the prediction service.
type MLClient interface {
	Predict(ctx context.Context, features mlclient.Features) (*mlclient.Prediction, error)
	Train(ctx context.Context) (*mlclient.TrainResult, error)
}

// MLStatusProvider reports the prediction service's cached health snapshot.
type MLStatusProvider interface {
	Status() mlclient.HealthStatus
}

// PredictInput carries the fields accepted by the prediction endpoint.
// Optional fields default the way the prediction service expects.
type PredictInput struct {
	CropType     model.CropType
	Region       model.Region
	Quality      model.QualityGrade
	QuantityKg   int64
	Season       string
	Weather      string
	MarketDemand string
}

// PredictionResult is the price quote returned to callers regardless of
// which source produced it.
type PredictionResult struct {
	PricePerKg  decimal.Decimal `json:"price_per_kg"`
	TotalValue  decimal.Decimal `json:"total_value"`
	QuantityKg  int64           `json:"quantity_kg"`
	Confidence  float64         `json:"confidence"`
	Source      string          `json:"source"`
	Currency    string          `json:"currency"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// PriceService handles price prediction and market history.
type PriceService interface {
	Predict(ctx context.Context, input PredictInput) (*PredictionResult, error)
	History(ctx context.Context, filter repository.PriceHistoryFilter) ([]model.PriceHistory, int64, error)
	Train(ctx context.Context) (*mlclient.TrainResult, error)
	MLStatus() mlclient.HealthStatus

	// PredictPrice implements CropPredictor for new crop listings.
	PredictPrice(ctx context.Context, cropType model.CropType, region model.Region, quality model.QualityGrade, quantityKg int64) (decimal.Decimal, error)
}

type priceService struct {
	ml          MLClient
	status      MLStatusProvider
	historyRepo repository.PriceHistoryRepository
	cache       *cache.Client
}

// NewPriceService creates a new price service.
func NewPriceService(ml MLClient, status MLStatusProvider, historyRepo repository.PriceHistoryRepository, cacheClient *cache.Client) PriceService {
	return &priceService{
		ml:          ml,
		status:      status,
		historyRepo: historyRepo,
		cache:       cacheClient,
	}
}

// Predict asks the ML service for a price and degrades to a historical
// average or the deterministic fallback table when the call fails. Upstream
// failure is never surfaced as an error to the caller.
func (s *priceService) Predict(ctx context.Context, input PredictInput) (*PredictionResult, error) {
	if fields := validatePredictInput(input); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	features := mlclient.Features{
		CropType:     string(input.CropType),
		Region:       string(input.Region),
		Quality:      string(input.Quality),
		QuantityKg:   float64(input.QuantityKg),
		Season:       input.Season,
		Weather:      input.Weather,
		MarketDemand: input.MarketDemand,
	}
	features.ApplyDefaults(time.Now())

	cacheKey := fmt.Sprintf("prediction:%s:%s:%s:%d:%s",
		features.CropType, features.Region, features.Quality, input.QuantityKg, features.Season)
	var cached PredictionResult
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	result := s.predict(ctx, features)
	metrics.ObservePrediction(result.Source)

	if err := s.cache.SetJSON(ctx, cacheKey, result, predictionCacheTTL); err != nil {
		log.Printf("cache prediction: %v", err)
	}
	return result, nil
}

func (s *priceService) predict(ctx context.Context, features mlclient.Features) *PredictionResult {
	prediction, err := s.ml.Predict(ctx, features)
	if err == nil {
		return newResult(prediction.Price, prediction.Confidence, prediction.Source, features)
	}
	log.Printf("ml prediction unavailable, degrading: %v", err)

	avg, count, histErr := s.historyRepo.AverageRecent(ctx,
		model.CropType(features.CropType), model.Region(features.Region), historicalWindow)
	if histErr == nil && count > 0 {
		price := round2(avg * mlclient.QualityMultiplier(features.Quality))
		return newResult(price, historicalConfidence, mlclient.SourceHistorical, features)
	}

	price := mlclient.FallbackPrice(features)
	return newResult(price, mlclient.FallbackConfidence, mlclient.SourceFallback, features)
}

func (s *priceService) History(ctx context.Context, filter repository.PriceHistoryFilter) ([]model.PriceHistory, int64, error) {
	return s.historyRepo.List(ctx, filter)
}

// Train triggers asynchronous retraining on the remote service. No local
// state changes; the result is only relayed.
func (s *priceService) Train(ctx context.Context) (*mlclient.TrainResult, error) {
	result, err := s.ml.Train(ctx)
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	return result, nil
}

func (s *priceService) MLStatus() mlclient.HealthStatus {
	return s.status.Status()
}

func (s *priceService) PredictPrice(ctx context.Context, cropType model.CropType, region model.Region, quality model.QualityGrade, quantityKg int64) (decimal.Decimal, error) {
	result, err := s.Predict(ctx, PredictInput{
		CropType:   cropType,
		Region:     region,
		Quality:    quality,
		QuantityKg: quantityKg,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return result.PricePerKg, nil
}

func newResult(price, confidence float64, source string, features mlclient.Features) *PredictionResult {
	pricePerKg := decimal.NewFromFloat(price)
	quantity := int64(features.QuantityKg)
	return &PredictionResult{
		PricePerKg:  pricePerKg,
		TotalValue:  pricePerKg.Mul(decimal.NewFromInt(quantity)),
		QuantityKg:  quantity,
		Confidence:  confidence,
		Source:      source,
		Currency:    "INR",
		GeneratedAt: time.Now(),
	}
}

func validatePredictInput(input PredictInput) map[string]string {
	fields := make(map[string]string)
	if !model.ValidCropType(input.CropType) {
		fields["crop_type"] = "unknown crop type"
	}
	if !model.ValidRegion(input.Region) {
		fields["region"] = "unknown region"
	}
	if !model.ValidQuality(input.Quality) {
		fields["quality"] = "unknown quality grade"
	}
	if input.QuantityKg < 1 {
		fields["quantity_kg"] = "quantity must be at least 1"
	}
	return fields
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
