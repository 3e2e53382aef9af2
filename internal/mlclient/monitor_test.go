package mlclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthMonitor_SnapshotBeforeStart(t *testing.T) {
	monitor := NewHealthMonitor(New("http://127.0.0.1:1"))

	status := monitor.Status()
	assert.False(t, status.Available)
	assert.True(t, status.CheckedAt.IsZero())
}

func TestHealthMonitor_ImmediatePoll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
	}))
	defer server.Close()

	monitor := NewHealthMonitor(New(server.URL))
	err := monitor.Start(context.Background(), time.Minute)
	defer monitor.Stop()

	assert.NoError(t, err)
	status := monitor.Status()
	assert.True(t, status.Available)
	assert.True(t, status.ModelLoaded)
	assert.False(t, status.CheckedAt.IsZero())
}

func TestHealthMonitor_TracksOutage(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	monitor := NewHealthMonitor(New(server.URL))

	monitor.poll(context.Background())
	assert.True(t, monitor.Status().Available)

	healthy.Store(false)
	monitor.poll(context.Background())
	assert.False(t, monitor.Status().Available)

	healthy.Store(true)
	monitor.poll(context.Background())
	assert.True(t, monitor.Status().Available)
}
