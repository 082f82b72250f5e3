package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aretw0/megaverse/pkg/domain"
)

// Recorder implements ports.Dispatcher in memory.
// It records every request instead of posting it, which backs dry runs and tests.
// Safe for concurrent use.
type Recorder struct {
	requests []domain.CreationRequest
	fail     func(domain.CreationRequest) error
	mu       sync.RWMutex
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithFailure makes Deliver return the error produced by fn (when non-nil) after recording.
func WithFailure(fn func(domain.CreationRequest) error) RecorderOption {
	return func(r *Recorder) {
		r.fail = fn
	}
}

// NewRecorder creates a new in-memory dispatcher.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Deliver records the request.
func (r *Recorder) Deliver(ctx context.Context, req domain.CreationRequest) (*domain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()

	if r.fail != nil {
		if err := r.fail(req); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return &domain.Receipt{Request: req, Attempts: 1, StatusCode: 200, Body: body}, nil
}

// Requests returns a copy of the recorded requests, in delivery order.
func (r *Recorder) Requests() []domain.CreationRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CreationRequest, len(r.requests))
	copy(out, r.requests)
	return out
}

// Reset forgets all recorded requests.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = nil
}
