package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
)

// ExecutionRecord holds the start and end times of one construction.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// RecorderModule registers a "Record" constructor that sleeps, then records
// when each part was constructed. The instance is the part ID.
type RecorderModule struct {
	Sleep time.Duration

	mu      sync.Mutex
	records map[string][]ExecutionRecord
}

// NewRecorderModule creates a recorder whose constructions take sleep.
func NewRecorderModule(sleep time.Duration) *RecorderModule {
	return &RecorderModule{Sleep: sleep, records: make(map[string][]ExecutionRecord)}
}

// Register implements registry.Module.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterConstructor("Record", m.record)
}

func (m *RecorderModule) record(ctx context.Context, in part.Inputs) (any, error) {
	start := time.Now()
	select {
	case <-time.After(m.Sleep):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[in.Part()] = append(m.records[in.Part()], ExecutionRecord{Start: start, End: time.Now()})
	return in.Part(), nil
}

// Records returns the constructions recorded for partID.
func (m *RecorderModule) Records(partID string) []ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutionRecord(nil), m.records[partID]...)
}
