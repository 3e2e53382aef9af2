package mlclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_Predict(t *testing.T) {
	t.Run("successful prediction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/predict", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"predicted_price":48.73,"confidence":0.85,"method":"ml_model","currency":"INR","total_value":48730}`))
		}))
		defer server.Close()

		client := New(server.URL)
		prediction, err := client.Predict(context.Background(), Features{
			CropType: "Wheat", Region: "North", Quality: "Grade_A", QuantityKg: 1000,
		})

		assert.NoError(t, err)
		assert.Equal(t, 48.73, prediction.Price)
		assert.Equal(t, 0.85, prediction.Confidence)
		assert.Equal(t, SourceModel, prediction.Source)
	})

	t.Run("rejected prediction surfaces the service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"error":"model not trained"}`))
		}))
		defer server.Close()

		client := New(server.URL)
		prediction, err := client.Predict(context.Background(), Features{CropType: "Wheat"})

		assert.Error(t, err)
		assert.Nil(t, prediction)
		assert.Contains(t, err.Error(), "model not trained")
	})

	t.Run("unreachable service returns an error", func(t *testing.T) {
		client := New("http://127.0.0.1:1")
		prediction, err := client.Predict(context.Background(), Features{CropType: "Wheat"})

		assert.Error(t, err)
		assert.Nil(t, prediction)
	})

	t.Run("5xx response returns an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := New(server.URL)
		prediction, err := client.Predict(context.Background(), Features{CropType: "Wheat"})

		assert.Error(t, err)
		assert.Nil(t, prediction)
	})
}

func TestClient_Health(t *testing.T) {
	t.Run("healthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
		}))
		defer server.Close()

		status := New(server.URL).Health(context.Background())

		assert.True(t, status.Available)
		assert.True(t, status.ModelLoaded)
		assert.False(t, status.CheckedAt.IsZero())
	})

	t.Run("unreachable service reports unavailable, never errors", func(t *testing.T) {
		status := New("http://127.0.0.1:1").Health(context.Background())

		assert.False(t, status.Available)
		assert.False(t, status.ModelLoaded)
		assert.False(t, status.CheckedAt.IsZero())
	})

	t.Run("non-200 response reports unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		status := New(server.URL).Health(context.Background())

		assert.False(t, status.Available)
	})
}

func TestClient_Train(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/train", r.URL.Path)
		w.Write([]byte(`{"success":true,"message":"training started"}`))
	}))
	defer server.Close()

	result, err := New(server.URL).Train(context.Background())

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "training started", result.Message)
}

func TestFeatures_ApplyDefaults(t *testing.T) {
	now := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)

	f := Features{CropType: "Wheat", Region: "North", Quality: "Grade_A"}
	f.ApplyDefaults(now)

	assert.Equal(t, float64(1000), f.QuantityKg)
	assert.Equal(t, "Summer", f.Season)
	assert.Equal(t, "Normal", f.Weather)
	assert.Equal(t, "Medium", f.MarketDemand)
	assert.Equal(t, 2026, f.Year)
	assert.Equal(t, 7, f.Month)

	// Explicit values are never overwritten.
	g := Features{CropType: "Rice", QuantityKg: 250, Season: "Winter"}
	g.ApplyDefaults(now)
	assert.Equal(t, float64(250), g.QuantityKg)
	assert.Equal(t, "Winter", g.Season)
}

func TestSeasonFromMonth(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Winter"},
		{time.February, "Winter"},
		{time.March, "Spring"},
		{time.May, "Spring"},
		{time.June, "Summer"},
		{time.August, "Summer"},
		{time.September, "Autumn"},
		{time.November, "Autumn"},
		{time.December, "Winter"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeasonFromMonth(tt.month), "month %s", tt.month)
	}
}
