package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/repository"
	"agrichain/internal/service"
)

// CropHandler handles crop listing endpoints.
type CropHandler struct {
	cropService service.CropService
}

// NewCropHandler creates a new crop handler.
func NewCropHandler(cropService service.CropService) *CropHandler {
	return &CropHandler{cropService: cropService}
}

// CropCreateRequest represents a new crop listing.
type CropCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Quality     string `json:"quality" validate:"required"`
	Region      string `json:"region" validate:"required"`
	QuantityKg  int64  `json:"quantity_kg" validate:"required,gte=1"`
	PricePerKg  string `json:"price_per_kg" validate:"required"`
	HarvestDate string `json:"harvest_date" validate:"required"`
	Description string `json:"description"`
}

// CropUpdateRequest enumerates the mutable crop fields.
type CropUpdateRequest struct {
	Name        *string `json:"name"`
	QuantityKg  *int64  `json:"quantity_kg"`
	PricePerKg  *string `json:"price_per_kg"`
	Description *string `json:"description"`
	Quality     *string `json:"quality"`
	Status      *string `json:"status"`
}

// Create godoc
// @Summary List a new crop
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CropCreateRequest true "Crop data"
// @Success 201 {object} errors.Envelope
// @Failure 422 {object} errors.Envelope
// @Router /crops [post]
func (h *CropHandler) Create(c echo.Context) error {
	var req CropCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	price, err := parsePrice(req.PricePerKg)
	if err != nil {
		return respondError(c, err)
	}
	harvestDate, err := parseDate(req.HarvestDate)
	if err != nil {
		return respondError(c, err)
	}

	crop, err := h.cropService.Create(c.Request().Context(), CurrentUser(c), service.CropCreateInput{
		Name:        req.Name,
		Type:        model.CropType(req.Type),
		Quality:     model.QualityGrade(req.Quality),
		Region:      model.Region(req.Region),
		QuantityKg:  req.QuantityKg,
		PricePerKg:  price,
		HarvestDate: harvestDate,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "crop listed", crop)
}

// List godoc
// @Summary List crops
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param type query string false "Crop type"
// @Param status query string false "Crop status"
// @Param region query string false "Region"
// @Param quality query string false "Quality grade"
// @Param farmer_id query string false "Owning farmer"
// @Param price_min query string false "Minimum price per kg"
// @Param price_max query string false "Maximum price per kg"
// @Param harvest_from query string false "Harvest date from (YYYY-MM-DD)"
// @Param harvest_to query string false "Harvest date to (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} errors.Envelope
// @Router /crops [get]
func (h *CropHandler) List(c echo.Context) error {
	filter := repository.CropFilter{
		Type:    model.CropType(c.QueryParam("type")),
		Status:  model.CropStatus(c.QueryParam("status")),
		Region:  model.Region(c.QueryParam("region")),
		Quality: model.QualityGrade(c.QueryParam("quality")),
		Page:    queryInt(c, "page", 1),
		Limit:   queryInt(c, "limit", 10),
	}

	if v := c.QueryParam("farmer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err == nil {
			filter.FarmerID = id
		}
	}
	if v := c.QueryParam("price_min"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.PriceMin = &d
		}
	}
	if v := c.QueryParam("price_max"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.PriceMax = &d
		}
	}
	if v := c.QueryParam("harvest_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.HarvestFrom = &t
		}
	}
	if v := c.QueryParam("harvest_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.HarvestTo = &t
		}
	}

	crops, total, err := h.cropService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "crops", NewPage(crops, filter.Page, filter.Limit, total))
}

// Get godoc
// @Summary Get crop by id
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param id path string true "Crop ID"
// @Success 200 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /crops/{id} [get]
func (h *CropHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	crop, err := h.cropService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "crop", crop)
}

// Update godoc
// @Summary Update a crop listing
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Crop ID"
// @Param request body CropUpdateRequest true "Mutable fields"
// @Success 200 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /crops/{id} [put]
func (h *CropHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CropUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	update := service.CropUpdate{
		Name:        req.Name,
		QuantityKg:  req.QuantityKg,
		Description: req.Description,
	}
	if req.PricePerKg != nil {
		price, err := parsePrice(*req.PricePerKg)
		if err != nil {
			return respondError(c, err)
		}
		update.PricePerKg = &price
	}
	if req.Quality != nil {
		quality := model.QualityGrade(*req.Quality)
		update.Quality = &quality
	}
	if req.Status != nil {
		status := model.CropStatus(*req.Status)
		update.Status = &status
	}

	crop, err := h.cropService.Update(c.Request().Context(), CurrentUser(c), id, update)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "crop updated", crop)
}

// Delete godoc
// @Summary Soft-delete a crop listing
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param id path string true "Crop ID"
// @Success 200 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /crops/{id} [delete]
func (h *CropHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.cropService.Delete(c.Request().Context(), CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "crop deleted", nil)
}

// QRCode godoc
// @Summary Get the crop's QR code
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param id path string true "Crop ID"
// @Success 200 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /crops/{id}/qr [get]
func (h *CropHandler) QRCode(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	code, err := h.cropService.QRCode(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "qr code", code)
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError(map[string]string{"price_per_kg": "must be a decimal number"})
	}
	return price, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewValidationError(map[string]string{"harvest_date": "must be YYYY-MM-DD or RFC3339"})
}
