// Package addressgen is the country-aware address generation subsystem:
// prompt construction, external text-generation clients, country-specific
// response parsing, structural validation with index-scoped smart retry,
// per-country address pools with incremental extension, and the row
// context aligner that keeps every geo column of a row on one address.
package addressgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"datamask/internal/model"
)

// Client produces candidate addresses for a set of country requirements.
// Implementations return a map keyed by canonical country name. A partial
// map is a normal result; the orchestrator's retry loop covers the gaps.
type Client interface {
	GenerateBatch(ctx context.Context, reqs []model.CountryRequirement) (map[string][]model.GeneratedAddress, error)
}

// Errors surfaced by the subsystem.
var (
	ErrNoClient         = errors.New("addressgen: no generation client configured")
	ErrEmptyRequirement = errors.New("addressgen: requirement without countries")
)

// transportAttempts is how often one GenerateBatch call retries the HTTP
// transport before giving up. Validation-level retries are counted
// separately by the orchestrator.
const transportAttempts = 3

// AzureClient calls an Azure OpenAI chat-completions deployment.
type AzureClient struct {
	cfg        model.AzureOpenAIConfig
	httpClient *http.Client
	log        *logrus.Entry

	// sleep is swapped out in tests to skip real backoff delays.
	sleep func(time.Duration)
}

// NewAzureClient validates the configuration and returns a ready client.
func NewAzureClient(cfg model.AzureOpenAIConfig, log *logrus.Entry) (*AzureClient, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("azure openai config incomplete (endpoint, api key and deployment are required)")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-02-01"
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &AzureClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
		sleep:      time.Sleep,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateBatch sends one chat-completions request covering every
// requirement and parses the reply into structured addresses. Transport
// and HTTP-status failures are retried with a linear backoff
// (1s * attempt); a reply with fewer addresses than requested is returned
// as-is on the last attempt rather than failed.
func (c *AzureClient) GenerateBatch(ctx context.Context, reqs []model.CountryRequirement) (map[string][]model.GeneratedAddress, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyRequirement
	}

	system, user := BuildPrompt(reqs)
	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:        2000,
		Temperature:      0.8,
		TopP:             0.95,
		FrequencyPenalty: 0.3,
		PresencePenalty:  0.3,
	}

	var lastErr error
	for attempt := 1; attempt <= transportAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			c.sleep(time.Duration(attempt-1) * time.Second)
		}

		content, err := c.complete(ctx, payload)
		if err != nil {
			lastErr = err
			c.log.WithFields(logrus.Fields{
				"attempt":   attempt,
				"countries": len(reqs),
			}).WithError(err).Warn("address generation call failed")
			continue
		}

		parsed := ParseResponse(content, reqs)
		total := 0
		for _, addrs := range parsed {
			total += len(addrs)
		}
		if total == 0 && attempt < transportAttempts {
			lastErr = fmt.Errorf("no parseable addresses in model reply")
			continue
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("address generation failed after %d attempts: %w", transportAttempts, lastErr)
}

func (c *AzureClient) complete(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.DeploymentName, c.cfg.APIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call azure openai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("azure openai returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response carried no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
