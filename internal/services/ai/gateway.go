package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/sirupsen/logrus"
)

// ModelTier selects which configured model an invocation uses.
type ModelTier string

const (
	// TierPrimary is the higher-capability model used for culture checks and
	// received-message analysis.
	TierPrimary ModelTier = "primary"
	// TierSummary is the (typically cheaper, lower-temperature) model used
	// for rolling summaries.
	TierSummary ModelTier = "summary"
)

// Gateway isolates all interaction with the model provider. Invoke performs
// exactly one attempt; fallback policy belongs to the orchestration layer,
// not here.
type Gateway interface {
	Invoke(ctx context.Context, messages []Message, schema *Schema, tier ModelTier, out any) error
	Available() bool
}

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIGateway talks to an OpenAI-compatible chat/completions endpoint with
// json_schema constrained decoding.
type OpenAIGateway struct {
	cfg        *config.AIConfig
	configured bool
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewOpenAIGateway creates the gateway. A missing API key is not an error:
// the gateway reports itself unavailable and every Invoke fails with
// KindNotConfigured without touching the network.
func NewOpenAIGateway(cfg *config.AIConfig, logger *logrus.Logger) *OpenAIGateway {
	configured := cfg.APIKey != ""
	if configured {
		logger.WithFields(logrus.Fields{
			"model":         cfg.Model,
			"summary_model": cfg.SummaryModel,
			"base_url":      baseURLOrDefault(cfg.BaseURL),
		}).Info("AI gateway initialized")
	} else {
		logger.Warn("OPENAI_API_KEY not configured - AI service disabled")
	}

	return &OpenAIGateway{
		cfg:        cfg,
		configured: configured,
		httpClient: &http.Client{
			Timeout: 2 * cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// Available reports whether configuration succeeded at startup. It never
// probes the network.
func (g *OpenAIGateway) Available() bool {
	return g.configured
}

func baseURLOrDefault(baseURL string) string {
	if baseURL == "" {
		return defaultBaseURL
	}
	return strings.TrimSuffix(baseURL, "/")
}

func (g *OpenAIGateway) modelFor(tier ModelTier) (model string, temperature float64) {
	if tier == TierSummary {
		return g.cfg.SummaryModel, g.cfg.SummaryTemperature
	}
	return g.cfg.Model, g.cfg.Temperature
}

// Invoke sends one schema-constrained request and decodes the model's answer
// into out. The error, if any, is always an *InvocationError.
func (g *OpenAIGateway) Invoke(ctx context.Context, messages []Message, schema *Schema, tier ModelTier, out any) error {
	op := schema.Name

	if !g.configured {
		return newInvocationError(KindNotConfigured, op, nil)
	}

	model, temperature := g.modelFor(tier)

	reqBody := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": temperature,
		"response_format": map[string]any{
			"type":        "json_schema",
			"json_schema": schema,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return newInvocationError(KindProvider, op, fmt.Errorf("failed to marshal request: %w", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	url := baseURLOrDefault(g.cfg.BaseURL) + "/chat/completions"
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return newInvocationError(KindProvider, op, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	g.logger.WithFields(logrus.Fields{
		"model":  model,
		"tier":   tier,
		"schema": schema.Name,
	}).Debug("Sending AI request")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return newInvocationError(KindProvider, op, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newInvocationError(KindProvider, op, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
			"tier":   tier,
		}).Error("AI request failed")
		return newInvocationError(KindProvider, op, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return newInvocationError(KindProvider, op, fmt.Errorf("failed to parse response: %w", err))
	}

	if result.Error.Message != "" {
		return newInvocationError(KindProvider, op, fmt.Errorf("provider error: %s", result.Error.Message))
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return newInvocationError(KindProvider, op, fmt.Errorf("no response from model"))
	}

	content := result.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		g.logger.WithFields(logrus.Fields{
			"schema":  schema.Name,
			"content": Truncate(content, 200),
		}).Warn("Model output failed schema decoding")
		return newInvocationError(KindSchemaViolation, op, err)
	}

	g.logger.WithFields(logrus.Fields{
		"model":    model,
		"tier":     tier,
		"schema":   schema.Name,
		"duration": time.Since(start),
	}).Debug("AI request completed")

	return nil
}
