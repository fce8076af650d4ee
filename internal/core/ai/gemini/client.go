// Package gemini wraps the Gemini generateContent API behind a fail-soft
// prompt-in/text-out contract.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Source tells the caller where a generation result came from.
type Source string

const (
	// SourceModel is a live response from the generation backend.
	SourceModel Source = "model"
	// SourceMock is the fixed offline response used when no backend is configured.
	SourceMock Source = "mock"
	// SourceError is a user-facing apology produced from a failed backend call.
	SourceError Source = "error"
)

// Result is the outcome of a generation call. Content is always well-formed
// text; Source says whether it came from the model or a degraded default, so
// callers branch on state instead of catching errors.
type Result struct {
	Content string
	Source  Source
}

// Degraded reports whether the content did not come from the live model.
func (r Result) Degraded() bool {
	return r.Source != SourceModel
}

// MockResponse is the fixed response served when the backend is unconfigured.
const MockResponse = "Hello! The generation backend is not reachable right now, so here is a sample suggestion:\n\n" +
	"<b>Recipe idea for your ingredients:</b>\n\n" +
	"<h3>1. Simple Chicken Saute</h3>" +
	"A quick saute that works with chicken, peppers and onion.\n" +
	"<b>Ingredients:</b>\n" +
	"<ul><li>Chicken</li><li>Bell Pepper</li><li>Onion</li><li>Tomato</li><li>Spices</li></ul>\n" +
	"<b>Instructions:</b>\n" +
	"<ol><li>Dice the chicken.</li><li>Saute it with the pepper and onion in olive oil.</li><li>Season with salt, pepper and thyme.</li><li>Serve with rice.</li></ol>\n\n" +
	"Enjoy your meal!"

// Client calls the Gemini API. With no API key configured every call returns
// the mock response, which keeps the whole pipeline demoable offline.
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient creates a Gemini client.
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Gemini.Timeout).
		SetHeader("Content-Type", "application/json")

	if cfg.Gemini.APIKey == "" {
		common.LogWarn("GEMINI_API_KEY not set, generation will use the built-in mock response")
	}

	return &Client{
		config: cfg,
		client: client,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends a prompt to the model and returns its text. Model may be
// empty to use the configured default. A missing API key yields the mock
// response; a failed call yields an apology carrying the underlying message.
// Generate never returns a Go error: the Result source carries the state.
func (c *Client) Generate(ctx context.Context, prompt, model string) Result {
	if c.config.Gemini.APIKey == "" {
		return Result{Content: MockResponse, Source: SourceMock}
	}

	if model == "" {
		model = c.config.Gemini.Model
	}

	req := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: c.config.Gemini.MaxTokens,
		},
	}

	start := time.Now()
	text, err := c.call(ctx, model, req)
	common.LogAICall(time.Since(start), err, requestIDFrom(ctx))
	if err != nil {
		return Result{
			Content: fmt.Sprintf("Sorry, something went wrong while talking to the recipe assistant: %s", err),
			Source:  SourceError,
		}
	}

	return Result{Content: text, Source: SourceModel}
}

func (c *Client) call(ctx context.Context, model string, req generateRequest) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.Gemini.APIKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", model))
	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		if result.Error != nil {
			return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode(), result.Error.Message)
		}
		return "", fmt.Errorf("Gemini API returned status %d", resp.StatusCode())
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates in Gemini response")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty content in Gemini response")
	}

	common.LogDebug("Gemini response received",
		zap.String("model", model),
		zap.Int("content_length", len(text)),
	)

	return text, nil
}

type requestIDKey struct{}

// WithRequestID tags a context with the request id used in AI call logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
