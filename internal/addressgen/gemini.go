package addressgen

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"datamask/internal/model"
)

// GeminiClient implements Client over the Gemini API, as an alternative
// backend to the Azure deployment.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *logrus.Entry
}

// NewGeminiClient initializes the Gemini client. An empty API key yields
// a nil client and no error so callers can decide how to handle missing
// configuration.
func NewGeminiClient(ctx context.Context, apiKey string, log *logrus.Entry) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, nil
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	mdl := client.GenerativeModel("gemini-2.5-flash-preview-09-2025")
	mdl.SetTemperature(0.8)
	return &GeminiClient{client: client, model: mdl, log: log}, nil
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() {
	if g == nil || g.client == nil {
		return
	}
	if err := g.client.Close(); err != nil {
		g.log.WithError(err).Warn("failed to close gemini client")
	}
}

// GenerateBatch satisfies Client using the same prompts and response
// parsing as the Azure client.
func (g *GeminiClient) GenerateBatch(ctx context.Context, reqs []model.CountryRequirement) (map[string][]model.GeneratedAddress, error) {
	if g == nil || g.model == nil {
		return nil, ErrNoClient
	}
	if len(reqs) == 0 {
		return nil, ErrEmptyRequirement
	}

	system, user := BuildPrompt(reqs)
	g.model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := g.model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response part type %T", resp.Candidates[0].Content.Parts[0])
	}

	return ParseResponse(string(text), reqs), nil
}
