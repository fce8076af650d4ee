// Package translate provides the optional best-effort translation hop between
// the user's language and the corpus working language. It is never
// load-bearing: any failure passes the input through untranslated.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://translate.googleapis.com"

// Client translates text through the public translate endpoint.
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient creates a translation client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config: cfg,
		client: resty.New().SetBaseURL(baseURL),
	}
}

// Enabled reports whether the translation hop is configured on.
func (c *Client) Enabled() bool {
	return c.config.Translation.Enabled
}

// Translate converts text from the configured source to target language.
// On any failure the original text is returned together with ok=false.
func (c *Client) Translate(ctx context.Context, text string) (string, bool) {
	if !c.Enabled() {
		return text, false
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     c.config.Translation.SourceLang,
			"tl":     c.config.Translation.TargetLang,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		common.LogWarn("Translation failed, using original input",
			zap.Error(err),
		)
		return text, false
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("Translation service returned error status, using original input",
			zap.Int("status", resp.StatusCode()),
		)
		return text, false
	}

	translated, err := parseResponse(resp.Body())
	if err != nil {
		common.LogWarn("Failed to parse translation response, using original input",
			zap.Error(err),
		)
		return text, false
	}

	common.LogDebug("Input translated",
		zap.String("source_lang", c.config.Translation.SourceLang),
		zap.String("target_lang", c.config.Translation.TargetLang),
	)
	return translated, true
}

// parseResponse extracts the translated segments from the endpoint's nested
// array payload: [[["translated","original",...],...],...].
func parseResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("unexpected translation payload: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translation segments: %w", err)
	}

	var out string
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var text string
		if err := json.Unmarshal(seg[0], &text); err != nil {
			continue
		}
		out += text
	}
	if out == "" {
		return "", fmt.Errorf("no translated text in payload")
	}
	return out, nil
}
