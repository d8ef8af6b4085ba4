package trainer

import (
	"context"

	"place-trainer/internal/domain"
)

// MockTrainer permite tests sin esperar el retardo del stub.
type MockTrainer struct {
	Err      error
	Calls    int
	Version  int64
	Received []domain.TrainingSample

	DiscardErr error
	Discarded  []int64
}

func (m *MockTrainer) Train(_ context.Context, version int64, samples []domain.TrainingSample) error {
	m.Calls++
	m.Version = version
	m.Received = samples
	return m.Err
}

func (m *MockTrainer) Discard(_ context.Context, version int64) error {
	m.Discarded = append(m.Discarded, version)
	return m.DiscardErr
}
