// Package qr encodes entity references as QR codes and decodes them back.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	apperrors "agrichain/internal/errors"
)

// Payload is the JSON structure embedded in a QR code.
type Payload struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Code carries the raw payload string and the rendered PNG image.
type Code struct {
	Payload  string `json:"payload"`
	ImageB64 string `json:"image_base64"`
}

// Encode serializes an entity reference and renders it as a 256x256 PNG.
func Encode(entityType, id string) (*Code, error) {
	payload, err := json.Marshal(Payload{
		Type:      entityType,
		ID:        id,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	return &Code{
		Payload:  string(payload),
		ImageB64: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// EncodePayload serializes an entity reference without rendering an image.
func EncodePayload(entityType, id string) (string, error) {
	payload, err := json.Marshal(Payload{
		Type:      entityType,
		ID:        id,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// Render renders an existing payload string as a 256x256 PNG.
func Render(payload string) (*Code, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	return &Code{
		Payload:  payload,
		ImageB64: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Decode parses a scanned payload string.
func Decode(raw string) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, apperrors.ErrInvalidQRPayload
	}
	if payload.Type == "" || payload.ID == "" {
		return nil, apperrors.ErrInvalidQRPayload
	}
	return &payload, nil
}
