package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ghostpayroll/internal/dataprocessing"
	"ghostpayroll/internal/reasoning"
)

// MockReasoner is a testify mock of Reasoner
type MockReasoner struct {
	mock.Mock
}

// Provider implements Reasoner
func (m *MockReasoner) Provider() string {
	args := m.Called()
	return args.String(0)
}

// Analyze implements Reasoner
func (m *MockReasoner) Analyze(ctx context.Context, c *dataprocessing.Context) reasoning.Outcome {
	args := m.Called(ctx, c)
	return args.Get(0).(reasoning.Outcome)
}
