package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/logging"
	"github.com/diogo/teestudio/internal/models"
)

const okBody = `{
  "candidates": [
    {
      "content": {"role": "model", "parts": [{"text": "Go with navy blue, it suits a casual look."}]},
      "finishReason": "STOP"
    }
  ],
  "modelVersion": "gemini-2.0-flash"
}`

func newTestClient(t *testing.T, hc *MockHttpClient, opts ...ClientOption) *GeminiClient {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(hc), WithLogger(logging.Discard())}, opts...)
	c, err := NewClient("test-key", opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestBuildPayload(t *testing.T) {
	payload, err := buildPayload("make it \"red\"")
	if err != nil {
		t.Fatalf("buildPayload() error = %v", err)
	}
	if !json.Valid(payload) {
		t.Fatalf("payload is not valid JSON: %s", payload)
	}
	if got := gjson.GetBytes(payload, "contents.0.parts.0.text").String(); got != `make it "red"` {
		t.Errorf("prompt text = %q", got)
	}
	if n := gjson.GetBytes(payload, "contents.#").Int(); n != 1 {
		t.Errorf("contents length = %d, want 1", n)
	}
}

func TestGenerateContent_Success(t *testing.T) {
	hc := NewMockHttpClient([]byte(okBody), 200)
	c := newTestClient(t, hc)

	out, err := c.GenerateContent(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if out.Text() != "Go with navy blue, it suits a casual look." {
		t.Errorf("Text() = %q", out.Text())
	}
	if out.FinishReason() != "STOP" {
		t.Errorf("FinishReason() = %q", out.FinishReason())
	}
	if out.Model != models.DefaultModel.Name {
		t.Errorf("Model = %q", out.Model)
	}

	req := hc.LastRequest
	if req == nil {
		t.Fatal("no request recorded")
	}
	if req.Method != "POST" {
		t.Errorf("Method = %s", req.Method)
	}
	if want := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"; req.URL.String() != want {
		t.Errorf("URL = %s, want %s", req.URL, want)
	}
	if got := req.Header.Get(models.HeaderAPIKey); got != "test-key" {
		t.Errorf("API key header = %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := gjson.GetBytes(hc.LastBody, "contents.0.parts.0.text").String(); got != "prompt text" {
		t.Errorf("request prompt = %q", got)
	}
}

func TestGenerateContent_ModelAndBaseURL(t *testing.T) {
	hc := NewMockHttpClient([]byte(okBody), 200)
	c := newTestClient(t, hc, WithBaseURL("http://127.0.0.1:9999/v1beta/"), WithModel(models.Model25Pro))

	if _, err := c.GenerateContent(context.Background(), "hi"); err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if want := "http://127.0.0.1:9999/v1beta/models/gemini-2.5-pro:generateContent"; hc.LastRequest.URL.String() != want {
		t.Errorf("URL = %s, want %s", hc.LastRequest.URL, want)
	}
}

func TestGenerateContent_EmptyPrompt(t *testing.T) {
	hc := NewMockHttpClient([]byte(okBody), 200)
	c := newTestClient(t, hc)

	if _, err := c.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if hc.Calls != 0 {
		t.Errorf("HTTP client called %d times for empty prompt", hc.Calls)
	}
}

func TestGenerateContent_Closed(t *testing.T) {
	hc := NewMockHttpClient([]byte(okBody), 200)
	c := newTestClient(t, hc)
	c.Close()
	c.Close()

	if !hc.IdleClosed {
		t.Error("Close() should release idle connections")
	}
	_, err := c.GenerateContent(context.Background(), "hi")
	if !errors.Is(err, apierrors.ErrClientClosed) {
		t.Errorf("err = %v, want ErrClientClosed", err)
	}
}

func TestGenerateContent_HTTPErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		auth      bool
		rateLimit bool
	}{
		{
			name:    "bad key",
			status:  403,
			body:    `{"error":{"code":403,"message":"API key not valid.","status":"PERMISSION_DENIED"}}`,
			wantMsg: "API key not valid.",
			auth:    true,
		},
		{
			name:      "quota",
			status:    429,
			body:      `{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`,
			wantMsg:   "Resource exhausted",
			rateLimit: true,
		},
		{
			name:    "html error page",
			status:  502,
			body:    `<html>bad gateway</html>`,
			wantMsg: "generate content failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, NewMockHttpClient([]byte(tt.body), tt.status))

			_, err := c.GenerateContent(context.Background(), "hi")
			var apiErr *apierrors.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d", apiErr.StatusCode)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if apierrors.GetResponseBody(err) != tt.body {
				t.Errorf("Body = %q", apierrors.GetResponseBody(err))
			}
			if apierrors.IsAuthError(err) != tt.auth {
				t.Errorf("IsAuthError = %v", apierrors.IsAuthError(err))
			}
			if apierrors.IsRateLimitError(err) != tt.rateLimit {
				t.Errorf("IsRateLimitError = %v", apierrors.IsRateLimitError(err))
			}
		})
	}
}

func TestGenerateContent_NetworkError(t *testing.T) {
	c := newTestClient(t, NewMockHttpClientWithError(errors.New("connection refused")))

	_, err := c.GenerateContent(context.Background(), "hi")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantText  string
		wantCount int
		wantErr   bool
	}{
		{"single part", okBody, "Go with navy blue, it suits a casual look.", 1, false},
		{
			name:      "thought parts skipped",
			body:      `{"candidates":[{"content":{"parts":[{"text":"planning","thought":true},{"text":"Try "},{"text":"teal."}]}}]}`,
			wantText:  "Try teal.",
			wantCount: 1,
		},
		{
			name:      "two candidates",
			body:      `{"candidates":[{"content":{"parts":[{"text":"a"}]}},{"content":{"parts":[{"text":"b"}]}}]}`,
			wantText:  "a",
			wantCount: 2,
		},
		{
			name:      "blocked prompt has no candidates",
			body:      `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantText:  "",
			wantCount: 0,
		},
		{
			name:      "candidate without parts",
			body:      `{"candidates":[{"finishReason":"MAX_TOKENS"}]}`,
			wantText:  "",
			wantCount: 1,
		},
		{name: "not json", body: `)]}'`, wantErr: true},
		{name: "array", body: `[1,2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := parseResponse([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, apierrors.ErrInvalidResponse) {
					t.Fatalf("err = %v, want ErrInvalidResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResponse() error = %v", err)
			}
			if out.Text() != tt.wantText {
				t.Errorf("Text() = %q, want %q", out.Text(), tt.wantText)
			}
			if len(out.Candidates) != tt.wantCount {
				t.Errorf("len(Candidates) = %d, want %d", len(out.Candidates), tt.wantCount)
			}
		})
	}
}

func TestGenerateContent_EmptyReplyIsNotAnError(t *testing.T) {
	c := newTestClient(t, NewMockHttpClient([]byte(`{"candidates":[]}`), 200))

	out, err := c.GenerateContent(context.Background(), "hi")
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if !out.IsEmpty() {
		t.Errorf("IsEmpty() = false for %+v", out)
	}
}
