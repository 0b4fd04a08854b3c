package api

import (
	"context"
	"sync"

	"github.com/diogo/teestudio/internal/models"
)

// MockGenerator is a Generator for tests. It is safe for concurrent use.
type MockGenerator struct {
	// Mock return values
	Output *models.ModelOutput
	Err    error
	// GenerateFunc, when set, replaces Output and Err
	GenerateFunc func(ctx context.Context, prompt string) (*models.ModelOutput, error)

	mu          sync.Mutex
	model       models.Model
	calls       int
	lastPrompt  string
	closeCalled bool
}

// NewMockGenerator returns a mock answering every prompt with text
func NewMockGenerator(text string) *MockGenerator {
	return &MockGenerator{
		Output: &models.ModelOutput{
			Model:      models.DefaultModel.Name,
			Candidates: []models.Candidate{{Text: text, FinishReason: "STOP"}},
		},
	}
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt = prompt
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.Output, m.Err
}

func (m *MockGenerator) GetModel() models.Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model.Name == "" {
		return models.DefaultModel
	}
	return m.model
}

func (m *MockGenerator) SetModel(model models.Model) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
}

func (m *MockGenerator) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

// Calls returns how many times GenerateContent ran
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the most recent prompt
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// CloseCalled reports whether Close ran
func (m *MockGenerator) CloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}
