package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/repository"
	"agrichain/internal/service"
)

// ShipmentHandler handles shipment tracking endpoints.
type ShipmentHandler struct {
	shipmentService service.ShipmentService
}

// NewShipmentHandler creates a new shipment handler.
func NewShipmentHandler(shipmentService service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

// ShipmentCreateRequest represents a new shipment.
type ShipmentCreateRequest struct {
	CropID              string `json:"crop_id" validate:"required,uuid"`
	Origin              string `json:"origin" validate:"required"`
	Destination         string `json:"destination" validate:"required"`
	EstimatedDeliveryAt string `json:"estimated_delivery_at"`
}

// CheckpointRequest represents a tracking update.
type CheckpointRequest struct {
	Location string `json:"location" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=pending in_transit delivered cancelled"`
	Note     string `json:"note"`
}

// CancelRequest carries the optional cancellation note.
type CancelRequest struct {
	Note string `json:"note"`
}

// Create godoc
// @Summary Create a shipment
// @Tags shipments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ShipmentCreateRequest true "Shipment data"
// @Success 201 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req ShipmentCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	cropID, err := uuid.Parse(req.CropID)
	if err != nil {
		return respondError(c, apperrors.NewHTTPError(http.StatusBadRequest, "invalid crop_id", "INVALID_UUID"))
	}

	input := service.ShipmentCreateInput{
		CropID:      cropID,
		Origin:      req.Origin,
		Destination: req.Destination,
	}
	if req.EstimatedDeliveryAt != "" {
		eta, err := time.Parse(time.RFC3339, req.EstimatedDeliveryAt)
		if err != nil {
			return respondError(c, apperrors.NewValidationError(map[string]string{"estimated_delivery_at": "must be RFC3339"}))
		}
		input.EstimatedDeliveryAt = &eta
	}

	shipment, err := h.shipmentService.Create(c.Request().Context(), CurrentUser(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "shipment created", shipment)
}

// List godoc
// @Summary List shipments visible to the caller
// @Tags shipments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Shipment status"
// @Param crop_id query string false "Crop ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} errors.Envelope
// @Router /shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	filter := repository.ShipmentFilter{
		Status: model.ShipmentStatus(c.QueryParam("status")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}
	if v := c.QueryParam("crop_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.CropID = id
		}
	}

	shipments, total, err := h.shipmentService.List(c.Request().Context(), CurrentUser(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "shipments", NewPage(shipments, filter.Page, filter.Limit, total))
}

// Get godoc
// @Summary Get shipment by id
// @Tags shipments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shipment ID"
// @Success 200 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	shipment, err := h.shipmentService.Get(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "shipment", shipment)
}

// Track godoc
// @Summary Track a shipment by tracking number
// @Tags shipments
// @Produce json
// @Security BearerAuth
// @Param trackingNumber path string true "Tracking number"
// @Success 200 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /shipments/track/{trackingNumber} [get]
func (h *ShipmentHandler) Track(c echo.Context) error {
	shipment, err := h.shipmentService.GetByTrackingNumber(c.Request().Context(), c.Param("trackingNumber"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "shipment", shipment)
}

// AddCheckpoint godoc
// @Summary Append a tracking checkpoint
// @Tags shipments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shipment ID"
// @Param request body CheckpointRequest true "Checkpoint data"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /shipments/{id}/checkpoints [post]
func (h *ShipmentHandler) AddCheckpoint(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CheckpointRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	shipment, err := h.shipmentService.AddCheckpoint(c.Request().Context(), CurrentUser(c), id, service.CheckpointInput{
		Location: req.Location,
		Status:   model.ShipmentStatus(req.Status),
		Note:     req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "checkpoint added", shipment)
}

// Cancel godoc
// @Summary Cancel a shipment
// @Tags shipments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shipment ID"
// @Param request body CancelRequest false "Cancellation note"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Router /shipments/{id}/cancel [post]
func (h *ShipmentHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CancelRequest
	_ = c.Bind(&req)

	shipment, err := h.shipmentService.Cancel(c.Request().Context(), CurrentUser(c), id, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "shipment cancelled", shipment)
}
