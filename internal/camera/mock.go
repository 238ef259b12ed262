package camera

import (
	"context"
	"sync"
	"time"

	"github.com/jmylchreest/tapcolour/internal/capture"
)

// MockCamera is a mock implementation of capture.Camera for testing.
type MockCamera struct {
	// Photo is returned by TakePhoto when Err is nil.
	Photo *capture.Photo

	// Err is returned by TakePhoto when set.
	Err error

	// Delay simulates a slow shutter.
	Delay time.Duration

	// Block, when non-nil, holds TakePhoto until it is closed or ctx is done.
	Block chan struct{}

	// Started receives a value each time TakePhoto begins, if non-nil.
	Started chan struct{}

	mu    sync.Mutex
	calls int
}

// TakePhoto executes the mock behaviour.
func (m *MockCamera) TakePhoto(ctx context.Context) (*capture.Photo, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- struct{}{}
	}

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Photo, nil
}

// CallCount returns how many times TakePhoto was called.
func (m *MockCamera) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
