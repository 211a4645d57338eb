package strategist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/growthplot/strategy-agent/internal/models"
)

const defaultModel = "gemini-2.0-flash"

// Client generates marketing strategies through the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *zap.Logger
}

// NewClient creates a Gemini-backed strategy generator. The model is
// configured for schema-constrained JSON output at temperature 0.7: creative
// enough to produce distinct strategies, constrained enough to keep the
// output parseable.
func NewClient(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = strategySchema

	return &Client{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() {
	c.client.Close()
}

// Generate turns a business profile into a validated Strategy. The backend
// call is made exactly once; retrying a failed generation is the caller's
// decision.
func (c *Client) Generate(ctx context.Context, profile models.BusinessProfile) (*models.Strategy, error) {
	prompt := buildPrompt(profile)

	c.log.Info("calling Gemini API", zap.String("business", profile.Name))
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Error("generation call failed", zap.String("business", profile.Name), zap.Error(err))
		return nil, categorize(err)
	}

	text := responseText(resp)
	c.log.Debug("raw response received", zap.Int("length", len(text)))

	strategy, err := parseStrategy(text)
	if err != nil {
		c.log.Error("unusable model response", zap.String("business", profile.Name), zap.Error(err))
		return nil, err
	}

	strategy.ID = uuid.NewString()
	strategy.GeneratedAt = time.Now().UTC()

	c.log.Info("strategy generated",
		zap.String("business", profile.Name),
		zap.String("strategy_id", strategy.ID),
		zap.Int("growth_score", strategy.GrowthScore))
	return strategy, nil
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// buildPrompt embeds the six profile fields verbatim. The prompt is
// deterministic for a given profile so regenerations differ only by model
// sampling.
func buildPrompt(p models.BusinessProfile) string {
	return fmt.Sprintf(`Act as a Chief Strategy Officer. Analyze the following business:
Name: %s
Industry: %s
Niche: %s
Target Audience: %s
Goals: %s
Challenges: %s

Generate a comprehensive strategic plan.
Create a 7-day sample content calendar.
Estimate a 'growthScore' (0-100) based on market viability.
Provide actionable insights for sales funnel and marketing channels.`,
		p.Name, p.Industry, p.Niche, p.Audience, p.Goals, p.Challenges)
}
