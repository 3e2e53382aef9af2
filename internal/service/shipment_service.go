package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/repository"
)

// ShipmentCreateInput carries the fields accepted when creating a shipment.
type ShipmentCreateInput struct {
	CropID              uuid.UUID
	Origin              string
	Destination         string
	EstimatedDeliveryAt *time.Time
}

// CheckpointInput is a single tracking update appended to a shipment.
type CheckpointInput struct {
	Location string
	Status   model.ShipmentStatus
	Note     string
}

// ShipmentService handles shipment tracking operations.
type ShipmentService interface {
	Create(ctx context.Context, actor *model.User, input ShipmentCreateInput) (*model.Shipment, error)
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Shipment, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Shipment, error)
	List(ctx context.Context, actor *model.User, filter repository.ShipmentFilter) ([]model.Shipment, int64, error)
	AddCheckpoint(ctx context.Context, actor *model.User, id uuid.UUID, input CheckpointInput) (*model.Shipment, error)
	Cancel(ctx context.Context, actor *model.User, id uuid.UUID, note string) (*model.Shipment, error)
}

type shipmentService struct {
	shipmentRepo repository.ShipmentRepository
	cropRepo     repository.CropRepository
}

// NewShipmentService creates a new shipment service.
func NewShipmentService(shipmentRepo repository.ShipmentRepository, cropRepo repository.CropRepository) ShipmentService {
	return &shipmentService{
		shipmentRepo: shipmentRepo,
		cropRepo:     cropRepo,
	}
}

// Create opens a shipment for a crop, generates its tracking number, and
// appends the initial pending checkpoint.
func (s *shipmentService) Create(ctx context.Context, actor *model.User, input ShipmentCreateInput) (*model.Shipment, error) {
	fields := make(map[string]string)
	if input.Origin == "" {
		fields["origin"] = "origin is required"
	}
	if input.Destination == "" {
		fields["destination"] = "destination is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	crop, err := s.cropRepo.FindByID(ctx, input.CropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCropNotFound
		}
		return nil, fmt.Errorf("find crop: %w", err)
	}

	shipment := &model.Shipment{
		ID:                  uuid.New(),
		CropID:              crop.ID,
		FarmerID:            crop.FarmerID,
		DistributorID:       actor.ID,
		TrackingNumber:      newTrackingNumber(),
		Origin:              input.Origin,
		Destination:         input.Destination,
		Status:              model.ShipmentStatusPending,
		EstimatedDeliveryAt: input.EstimatedDeliveryAt,
	}

	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	checkpoint := &model.Checkpoint{
		ShipmentID: shipment.ID,
		Location:   input.Origin,
		Status:     model.ShipmentStatusPending,
		Note:       "shipment created",
	}
	if err := s.shipmentRepo.AppendCheckpoint(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("append initial checkpoint: %w", err)
	}
	shipment.Checkpoints = []model.Checkpoint{*checkpoint}

	return shipment, nil
}

// Get loads a shipment. Farmers and distributors only see their own.
func (s *shipmentService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Shipment, error) {
	shipment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && shipment.FarmerID != actor.ID && shipment.DistributorID != actor.ID {
		return nil, apperrors.ErrForbidden
	}
	return shipment, nil
}

// GetByTrackingNumber resolves a shipment by its public tracking number.
func (s *shipmentService) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Shipment, error) {
	shipment, err := s.shipmentRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("find shipment: %w", err)
	}
	return shipment, nil
}

// List scopes results to the caller: farmers see shipments of their crops,
// distributors see their own, admins see everything.
func (s *shipmentService) List(ctx context.Context, actor *model.User, filter repository.ShipmentFilter) ([]model.Shipment, int64, error) {
	switch actor.Role {
	case model.RoleFarmer:
		filter.FarmerID = actor.ID
	case model.RoleDistributor:
		filter.DistributorID = actor.ID
	}
	return s.shipmentRepo.List(ctx, filter)
}

// AddCheckpoint appends a tracking update and advances the shipment status.
// Terminal shipments reject further checkpoints; delivery stamps the actual
// delivery time.
func (s *shipmentService) AddCheckpoint(ctx context.Context, actor *model.User, id uuid.UUID, input CheckpointInput) (*model.Shipment, error) {
	if !model.ValidShipmentStatus(input.Status) {
		return nil, apperrors.NewValidationError(map[string]string{"status": "unknown shipment status"})
	}
	if input.Location == "" {
		return nil, apperrors.NewValidationError(map[string]string{"location": "location is required"})
	}

	shipment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if shipment.DistributorID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if shipment.Status.Terminal() {
		return nil, apperrors.ErrInvalidTransition
	}

	checkpoint := &model.Checkpoint{
		ShipmentID: shipment.ID,
		Location:   input.Location,
		Status:     input.Status,
		Note:       input.Note,
	}
	if err := s.shipmentRepo.AppendCheckpoint(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("append checkpoint: %w", err)
	}

	shipment.Status = input.Status
	if input.Status == model.ShipmentStatusDelivered {
		now := time.Now()
		shipment.ActualDeliveryAt = &now
	}
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	shipment.Checkpoints = append(shipment.Checkpoints, *checkpoint)
	return shipment, nil
}

// Cancel transitions a non-terminal shipment to cancelled.
func (s *shipmentService) Cancel(ctx context.Context, actor *model.User, id uuid.UUID, note string) (*model.Shipment, error) {
	shipment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if shipment.DistributorID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if shipment.Status.Terminal() {
		return nil, apperrors.ErrInvalidTransition
	}

	checkpoint := &model.Checkpoint{
		ShipmentID: shipment.ID,
		Location:   shipment.Destination,
		Status:     model.ShipmentStatusCancelled,
		Note:       note,
	}
	if err := s.shipmentRepo.AppendCheckpoint(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("append checkpoint: %w", err)
	}

	shipment.Status = model.ShipmentStatusCancelled
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	shipment.Checkpoints = append(shipment.Checkpoints, *checkpoint)
	return shipment, nil
}

func (s *shipmentService) find(ctx context.Context, id uuid.UUID) (*model.Shipment, error) {
	shipment, err := s.shipmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("find shipment: %w", err)
	}
	return shipment, nil
}

func newTrackingNumber() string {
	return "TRK-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
