package mlclient

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// HealthMonitor polls the prediction service on a fixed interval and keeps
// the latest result in a lock-free snapshot. The cron job is the only
// writer; readers get an immutable copy.
type HealthMonitor struct {
	client   *Client
	snapshot atomic.Pointer[HealthStatus]
	cron     *cron.Cron
}

// NewHealthMonitor creates a monitor for client. The snapshot starts as
// unavailable until the first poll completes.
func NewHealthMonitor(client *Client) *HealthMonitor {
	m := &HealthMonitor{
		client: client,
		cron:   cron.New(),
	}
	initial := HealthStatus{}
	m.snapshot.Store(&initial)
	return m
}

// Start performs one immediate check and then polls every interval.
func (m *HealthMonitor) Start(ctx context.Context, interval time.Duration) error {
	m.poll(ctx)

	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		m.poll(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule health poll: %w", err)
	}
	m.cron.Start()
	return nil
}

// Stop halts the poll loop.
func (m *HealthMonitor) Stop() {
	m.cron.Stop()
}

// Status returns a copy of the latest health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	return *m.snapshot.Load()
}

func (m *HealthMonitor) poll(ctx context.Context) {
	status := m.client.Health(ctx)
	m.snapshot.Store(&status)
}
