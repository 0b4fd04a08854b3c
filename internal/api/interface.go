package api

import (
	"context"

	"github.com/diogo/teestudio/internal/models"
)

// Generator sends one prompt to Gemini and returns the parsed reply.
// GeminiClient (REST) and SDKClient (google.golang.org/genai) implement it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error)
	GetModel() models.Model
	SetModel(model models.Model)
	Close()
}

var (
	_ Generator = (*GeminiClient)(nil)
	_ Generator = (*SDKClient)(nil)
	_ Generator = (*MockGenerator)(nil)
)
