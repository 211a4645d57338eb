package strategist

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthplot/strategy-agent/internal/models"
)

const validJSON = `{
	"summary": "Double down on short-form video",
	"growthScore": 64,
	"marketingChannels": [{"channel": "TikTok", "rationale": "audience fit", "roi": "high"}],
	"salesFunnel": [{"stage": "Awareness", "tactic": "reels", "metric": "views"}],
	"contentCalendar": [{"day": 1, "title": "Teaser", "platform": "Instagram", "type": "Engagement", "description": "launch teaser", "status": "pending"}]
}`

func TestParseStrategyStrict(t *testing.T) {
	strategy, err := parseStrategy(validJSON)
	require.NoError(t, err)
	assert.Equal(t, "Double down on short-form video", strategy.Summary)
	assert.Equal(t, 64, strategy.GrowthScore)
	require.Len(t, strategy.MarketingChannels, 1)
	assert.Equal(t, "TikTok", strategy.MarketingChannels[0].Channel)
	// Stamping happens in Generate, not here.
	assert.Empty(t, strategy.ID)
	assert.True(t, strategy.GeneratedAt.IsZero())
}

func TestParseStrategyRecoversWrappedJSON(t *testing.T) {
	// Models sometimes wrap the JSON in prose despite the schema constraint.
	text := `Here is your plan: {"summary":"x","growthScore":50,"marketingChannels":[],"salesFunnel":[],"contentCalendar":[]} Thanks!`
	strategy, err := parseStrategy(text)
	require.NoError(t, err)
	assert.Equal(t, "x", strategy.Summary)
	assert.Equal(t, 50, strategy.GrowthScore)
	assert.Empty(t, strategy.MarketingChannels)
}

func TestParseStrategyStripsBOM(t *testing.T) {
	strategy, err := parseStrategy("\uFEFF" + validJSON)
	require.NoError(t, err)
	assert.Equal(t, 64, strategy.GrowthScore)
}

func TestParseStrategyEmpty(t *testing.T) {
	var empty *EmptyResponseError
	_, err := parseStrategy("   \n ")
	assert.ErrorAs(t, err, &empty)
}

func TestParseStrategyMalformed(t *testing.T) {
	long := "the model had a bad day " + strings.Repeat("z", 400)
	_, err := parseStrategy(long)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	// Snippet is truncated so the error never carries the full payload.
	assert.LessOrEqual(t, len(malformed.Snippet), snippetLimit)
}

func TestParseStrategyUnrecoverableWrapper(t *testing.T) {
	var malformed *MalformedResponseError
	_, err := parseStrategy(`prose {"summary": } more prose`)
	assert.ErrorAs(t, err, &malformed)
}

func TestParseStrategyValidation(t *testing.T) {
	_, err := parseStrategy(`{"summary": "x", "marketingChannels": [], "salesFunnel": [], "contentCalendar": []}`)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []string{"growthScore"}, validation.Missing)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category string
	}{
		{"invalid key", errors.New("googleapi: Error 400: API key not valid"), CategoryInvalidKey},
		{"quota", errors.New("googleapi: Error 429: quota exceeded for model"), CategoryQuotaExceeded},
		{"parse", errors.New("failed to parse server response"), CategoryTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backend *BackendError
			require.ErrorAs(t, categorize(tt.err), &backend)
			assert.Equal(t, tt.category, backend.Category)
			assert.ErrorIs(t, backend, tt.err)
		})
	}
}

func TestCategorizeUnrecognizedPassesThrough(t *testing.T) {
	err := errors.New("connection reset by peer")
	assert.Equal(t, err, categorize(err))
}

func TestBuildPromptEmbedsAllFields(t *testing.T) {
	prompt := buildPrompt(sampleProfile())
	for _, want := range []string{
		"Glowline Candles", "Home goods", "hand-poured soy candles",
		"eco-conscious shoppers", "triple online sales", "seasonal demand swings",
	} {
		assert.Contains(t, prompt, want)
	}
}

func sampleProfile() models.BusinessProfile {
	return models.BusinessProfile{
		Name:       "Glowline Candles",
		Industry:   "Home goods",
		Niche:      "hand-poured soy candles",
		Audience:   "eco-conscious shoppers",
		Goals:      "triple online sales",
		Challenges: "seasonal demand swings",
	}
}
