package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrichain/internal/qr"
)

// QRHandler handles QR payload decoding.
type QRHandler struct{}

// NewQRHandler creates a new QR handler.
func NewQRHandler() *QRHandler {
	return &QRHandler{}
}

// DecodeRequest carries a scanned QR payload.
type DecodeRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// Decode godoc
// @Summary Decode a scanned QR payload
// @Tags qr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DecodeRequest true "Scanned payload"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Router /qr/decode [post]
func (h *QRHandler) Decode(c echo.Context) error {
	var req DecodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	payload, err := qr.Decode(req.Payload)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "qr payload", payload)
}
