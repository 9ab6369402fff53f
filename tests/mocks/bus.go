package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	sharedBus "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/bus"
)

// MockPublisher simula el bus de integración.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var _ sharedBus.EventBus = (*MockPublisher)(nil)
