package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/models"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

type textPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []textPart `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// buildPayload encodes a single-turn text request
func buildPayload(prompt string) ([]byte, error) {
	return json.Marshal(generateRequest{
		Contents: []content{{Parts: []textPart{{Text: prompt}}}},
	})
}

// GenerateContent sends a prompt to Gemini and returns the response
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	model := c.GetModel()
	endpoint := c.Endpoint()

	payload, err := buildPayload(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set(models.HeaderAPIKey, c.apiKey)

	c.logger.Debug("generate_request",
		slog.String("model", model.Name),
		slog.Int("prompt_len", len(prompt)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != fhttp.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := "generate content failed"
		if msg := gjson.GetBytes(errorBody, PathErrorMessage).String(); msg != "" {
			message = msg
		}
		c.logger.Warn("generate_failed",
			slog.Int("status", resp.StatusCode),
			slog.String("api_status", gjson.GetBytes(errorBody, PathErrorStatus).String()),
		)
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, message, string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", endpoint, err)
	}

	output, err := parseResponse(body)
	if err != nil {
		return nil, err
	}
	output.Model = model.Name

	if reason := gjson.GetBytes(body, PathBlockReason).String(); reason != "" {
		c.logger.Warn("prompt_blocked", slog.String("reason", reason))
	}

	return output, nil
}

// parseResponse extracts candidate texts from a generateContent body. Thought
// parts are skipped; the remaining text parts of a candidate are joined.
// A body without candidates is a valid, empty output.
func parseResponse(body []byte) (*models.ModelOutput, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, apierrors.NewParseError("response is not a JSON object", "")
	}

	output := &models.ModelOutput{}
	parsed.Get(PathCandidates).ForEach(func(_, cand gjson.Result) bool {
		var text strings.Builder
		cand.Get(PathCandParts).ForEach(func(_, part gjson.Result) bool {
			if part.Get(PathPartThought).Bool() {
				return true
			}
			text.WriteString(part.Get(PathPartText).String())
			return true
		})
		output.Candidates = append(output.Candidates, models.Candidate{
			Text:         text.String(),
			FinishReason: cand.Get(PathCandFinishReason).String(),
		})
		return true
	})

	return output, nil
}
