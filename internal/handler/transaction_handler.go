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

// TransactionHandler handles crop sale endpoints.
type TransactionHandler struct {
	txnService service.TransactionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(txnService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

// TransactionCreateRequest represents a purchase request.
type TransactionCreateRequest struct {
	CropID        string `json:"crop_id" validate:"required,uuid"`
	QuantityKg    int64  `json:"quantity_kg" validate:"required,gte=1"`
	PaymentMethod string `json:"payment_method"`
}

// Create godoc
// @Summary Open a purchase transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionCreateRequest true "Purchase data"
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	var req TransactionCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	cropID, err := uuid.Parse(req.CropID)
	if err != nil {
		return respondError(c, apperrors.NewHTTPError(http.StatusBadRequest, "invalid crop_id", "INVALID_UUID"))
	}

	txn, err := h.txnService.Create(c.Request().Context(), CurrentUser(c), service.TransactionCreateInput{
		CropID:        cropID,
		QuantityKg:    req.QuantityKg,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "transaction created", txn)
}

// List godoc
// @Summary List transactions visible to the caller
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Payment status"
// @Param from query string false "Created from (YYYY-MM-DD)"
// @Param to query string false "Created to (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} errors.Envelope
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	filter := repository.TransactionFilter{
		PaymentStatus: model.PaymentStatus(c.QueryParam("status")),
		Page:          queryInt(c, "page", 1),
		Limit:         queryInt(c, "limit", 10),
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

	txns, total, err := h.txnService.List(c.Request().Context(), CurrentUser(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "transactions", NewPage(txns, filter.Page, filter.Limit, total))
}

// Get godoc
// @Summary Get transaction by id
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	txn, err := h.txnService.Get(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "transaction", txn)
}

// Confirm godoc
// @Summary Confirm a sale
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /transactions/{id}/confirm [post]
func (h *TransactionHandler) Confirm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	txn, err := h.txnService.Confirm(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "transaction confirmed", txn)
}

// Fail godoc
// @Summary Mark a transaction as failed
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Router /transactions/{id}/fail [post]
func (h *TransactionHandler) Fail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	txn, err := h.txnService.Fail(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "transaction failed", txn)
}

// Refund godoc
// @Summary Refund a completed transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Router /transactions/{id}/refund [post]
func (h *TransactionHandler) Refund(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	txn, err := h.txnService.Refund(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "transaction refunded", txn)
}
