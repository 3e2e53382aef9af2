package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agrichain/internal/model"
	"agrichain/internal/repository"
	"agrichain/internal/service"
)

// PriceHandler handles price prediction and market history endpoints.
type PriceHandler struct {
	priceService service.PriceService
}

// NewPriceHandler creates a new price handler.
func NewPriceHandler(priceService service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// PredictRequest represents a price prediction request.
type PredictRequest struct {
	CropType     string `json:"crop_type" validate:"required"`
	Region       string `json:"region" validate:"required"`
	Quality      string `json:"quality" validate:"required"`
	QuantityKg   int64  `json:"quantity_kg" validate:"required,gte=1"`
	Season       string `json:"season"`
	Weather      string `json:"weather"`
	MarketDemand string `json:"market_demand"`
}

// Predict godoc
// @Summary Predict a crop price
// @Tags prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PredictRequest true "Prediction features"
// @Success 200 {object} errors.Envelope
// @Failure 422 {object} errors.Envelope
// @Router /prices/predict [post]
func (h *PriceHandler) Predict(c echo.Context) error {
	var req PredictRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := h.priceService.Predict(c.Request().Context(), service.PredictInput{
		CropType:     model.CropType(req.CropType),
		Region:       model.Region(req.Region),
		Quality:      model.QualityGrade(req.Quality),
		QuantityKg:   req.QuantityKg,
		Season:       req.Season,
		Weather:      req.Weather,
		MarketDemand: req.MarketDemand,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "price prediction", result)
}

// History godoc
// @Summary List market price history
// @Tags prices
// @Produce json
// @Security BearerAuth
// @Param crop_type query string false "Crop type"
// @Param region query string false "Region"
// @Param from query string false "Recorded from (YYYY-MM-DD)"
// @Param to query string false "Recorded to (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} errors.Envelope
// @Router /prices/history [get]
func (h *PriceHandler) History(c echo.Context) error {
	filter := repository.PriceHistoryFilter{
		CropType: model.CropType(c.QueryParam("crop_type")),
		Region:   model.Region(c.QueryParam("region")),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	}
	if v := c.QueryParam("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.From = &t
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.To = &t
		}
	}

	samples, total, err := h.priceService.History(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "price history", NewPage(samples, filter.Page, filter.Limit, total))
}

// Train godoc
// @Summary Trigger remote model retraining
// @Tags prices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /prices/train [post]
func (h *PriceHandler) Train(c echo.Context) error {
	result, err := h.priceService.Train(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "training triggered", result)
}

// MLStatus godoc
// @Summary Prediction service health snapshot
// @Tags prices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Envelope
// @Router /prices/ml-status [get]
func (h *PriceHandler) MLStatus(c echo.Context) error {
	return respond(c, http.StatusOK, "ml service status", h.priceService.MLStatus())
}
