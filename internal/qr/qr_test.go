package qr

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "agrichain/internal/errors"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	code, err := Encode("crop", "3f2a9c1e-0000-4000-8000-000000000001")

	assert.NoError(t, err)
	assert.NotEmpty(t, code.Payload)
	assert.NotEmpty(t, code.ImageB64)

	png, err := base64.StdEncoding.DecodeString(code.ImageB64)
	assert.NoError(t, err)
	assert.NotEmpty(t, png)

	payload, err := Decode(code.Payload)
	assert.NoError(t, err)
	assert.Equal(t, "crop", payload.Type)
	assert.Equal(t, "3f2a9c1e-0000-4000-8000-000000000001", payload.ID)
	assert.False(t, payload.Timestamp.IsZero())
}

func TestEncodePayload(t *testing.T) {
	payload, err := EncodePayload("shipment", "abc")

	assert.NoError(t, err)
	decoded, err := Decode(payload)
	assert.NoError(t, err)
	assert.Equal(t, "shipment", decoded.Type)
	assert.Equal(t, "abc", decoded.ID)
}

func TestRender(t *testing.T) {
	payload, err := EncodePayload("crop", "abc")
	assert.NoError(t, err)

	code, err := Render(payload)
	assert.NoError(t, err)
	assert.Equal(t, payload, code.Payload)
	assert.NotEmpty(t, code.ImageB64)
}

func TestDecode_InvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "not-json"},
		{name: "empty string", raw: ""},
		{name: "missing type", raw: `{"id":"abc"}`},
		{name: "missing id", raw: `{"type":"crop"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Decode(tt.raw)
			assert.Equal(t, apperrors.ErrInvalidQRPayload, err)
			assert.Nil(t, payload)
		})
	}
}
