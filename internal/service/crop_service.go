package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/qr"
	"agrichain/internal/repository"
)

// CropCreateInput carries the fields accepted when listing a crop.
type CropCreateInput struct {
	Name        string
	Type        model.CropType
	Quality     model.QualityGrade
	Region      model.Region
	QuantityKg  int64
	PricePerKg  decimal.Decimal
	HarvestDate time.Time
	Description string
}

// CropUpdate enumerates the mutable crop fields. The owning farmer is
// immutable after creation.
type CropUpdate struct {
	Name        *string
	QuantityKg  *int64
	PricePerKg  *decimal.Decimal
	Description *string
	Quality     *model.QualityGrade
	Status      *model.CropStatus
}

// CropPredictor supplies a best-effort predicted price for a new listing.
type CropPredictor interface {
	PredictPrice(ctx context.Context, cropType model.CropType, region model.Region, quality model.QualityGrade, quantityKg int64) (decimal.Decimal, error)
}

// CropService handles crop listing operations.
type CropService interface {
	Create(ctx context.Context, actor *model.User, input CropCreateInput) (*model.Crop, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Crop, error)
	List(ctx context.Context, filter repository.CropFilter) ([]model.Crop, int64, error)
	Update(ctx context.Context, actor *model.User, id uuid.UUID, update CropUpdate) (*model.Crop, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
	QRCode(ctx context.Context, id uuid.UUID) (*qr.Code, error)
}

type cropService struct {
	cropRepo  repository.CropRepository
	predictor CropPredictor
}

// NewCropService creates a new crop service. predictor may be nil, in which
// case new listings carry no predicted price.
func NewCropService(cropRepo repository.CropRepository, predictor CropPredictor) CropService {
	return &cropService{cropRepo: cropRepo, predictor: predictor}
}

// Create validates and persists a new listing owned by the acting farmer.
// A QR payload is generated at creation; the predicted price is filled in
// best-effort and never blocks the listing.
func (s *cropService) Create(ctx context.Context, actor *model.User, input CropCreateInput) (*model.Crop, error) {
	if fields := validateCropInput(input); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	crop := &model.Crop{
		ID:          uuid.New(),
		FarmerID:    actor.ID,
		Name:        input.Name,
		Type:        input.Type,
		Quality:     input.Quality,
		Region:      input.Region,
		QuantityKg:  input.QuantityKg,
		PricePerKg:  input.PricePerKg,
		HarvestDate: input.HarvestDate,
		Description: input.Description,
		Status:      model.CropStatusAvailable,
		Active:      true,
	}

	payload, err := qr.EncodePayload("crop", crop.ID.String())
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	crop.QRPayload = payload

	if s.predictor != nil {
		predicted, err := s.predictor.PredictPrice(ctx, crop.Type, crop.Region, crop.Quality, crop.QuantityKg)
		if err != nil {
			log.Printf("predicted price unavailable for crop %s: %v", crop.ID, err)
		} else {
			crop.PredictedPrice = predicted
		}
	}

	if err := s.cropRepo.Create(ctx, crop); err != nil {
		return nil, fmt.Errorf("create crop: %w", err)
	}
	return crop, nil
}

func (s *cropService) Get(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	crop, err := s.cropRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCropNotFound
		}
		return nil, fmt.Errorf("find crop: %w", err)
	}
	if !crop.Active {
		return nil, apperrors.ErrCropNotFound
	}
	return crop, nil
}

func (s *cropService) List(ctx context.Context, filter repository.CropFilter) ([]model.Crop, int64, error) {
	return s.cropRepo.List(ctx, filter)
}

// Update applies the allow-listed fields. Only the owning farmer or an
// admin may update a crop.
func (s *cropService) Update(ctx context.Context, actor *model.User, id uuid.UUID, update CropUpdate) (*model.Crop, error) {
	crop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if crop.FarmerID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if update.Name != nil {
		crop.Name = *update.Name
	}
	if update.QuantityKg != nil {
		if *update.QuantityKg < 1 {
			return nil, apperrors.ErrInvalidQuantity
		}
		crop.QuantityKg = *update.QuantityKg
	}
	if update.PricePerKg != nil {
		if update.PricePerKg.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewValidationError(map[string]string{"price_per_kg": "must be greater than zero"})
		}
		crop.PricePerKg = *update.PricePerKg
	}
	if update.Description != nil {
		crop.Description = *update.Description
	}
	if update.Quality != nil {
		if !model.ValidQuality(*update.Quality) {
			return nil, apperrors.NewValidationError(map[string]string{"quality": "unknown quality grade"})
		}
		crop.Quality = *update.Quality
	}
	if update.Status != nil {
		if !model.ValidCropStatus(*update.Status) {
			return nil, apperrors.NewValidationError(map[string]string{"status": "unknown crop status"})
		}
		crop.Status = *update.Status
	}

	if err := s.cropRepo.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("update crop: %w", err)
	}
	return crop, nil
}

// Delete soft-deletes the listing. Only the owning farmer or an admin.
func (s *cropService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	crop, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if crop.FarmerID != actor.ID && !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	crop.Active = false
	if err := s.cropRepo.Update(ctx, crop); err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}
	return nil
}

// QRCode renders the crop's stored payload as an image. The payload is
// regenerated only if the crop predates QR support.
func (s *cropService) QRCode(ctx context.Context, id uuid.UUID) (*qr.Code, error) {
	crop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if crop.QRPayload == "" {
		return qr.Encode("crop", crop.ID.String())
	}

	code, err := qr.Render(crop.QRPayload)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return code, nil
}

func validateCropInput(input CropCreateInput) map[string]string {
	fields := make(map[string]string)
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if !model.ValidCropType(input.Type) {
		fields["type"] = "unknown crop type"
	}
	if !model.ValidQuality(input.Quality) {
		fields["quality"] = "unknown quality grade"
	}
	if !model.ValidRegion(input.Region) {
		fields["region"] = "unknown region"
	}
	if input.QuantityKg < 1 {
		fields["quantity_kg"] = "quantity must be at least 1"
	}
	if input.PricePerKg.LessThanOrEqual(decimal.Zero) {
		fields["price_per_kg"] = "must be greater than zero"
	}
	if input.HarvestDate.IsZero() {
		fields["harvest_date"] = "harvest date is required"
	}
	return fields
}
