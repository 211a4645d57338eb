package strategist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	obj := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(raw), &obj))
	return obj
}

func TestCheckMandatoryAllPresent(t *testing.T) {
	obj := decode(t, `{
		"summary": "Focus on organic growth",
		"growthScore": 72,
		"marketingChannels": [{"channel": "SEO", "rationale": "cheap", "roi": "high"}],
		"salesFunnel": [{"stage": "Awareness", "tactic": "blog", "metric": "visits"}],
		"contentCalendar": [{"day": 1, "title": "Launch post"}]
	}`)
	assert.Empty(t, CheckMandatory(obj))
}

func TestCheckMandatoryOptionalFieldsAbsent(t *testing.T) {
	// Optional fields missing entirely must not fail validation, and the
	// mandatory lists may be empty.
	obj := decode(t, `{
		"summary": "x",
		"growthScore": 50,
		"marketingChannels": [],
		"salesFunnel": [],
		"contentCalendar": []
	}`)
	assert.Empty(t, CheckMandatory(obj))
}

func TestCheckMandatoryMissingGrowthScore(t *testing.T) {
	obj := decode(t, `{
		"summary": "x",
		"marketingChannels": [],
		"salesFunnel": [],
		"contentCalendar": []
	}`)
	assert.Equal(t, []string{"growthScore"}, CheckMandatory(obj))
}

func TestCheckMandatoryReportsAllMissing(t *testing.T) {
	missing := CheckMandatory(map[string]any{})
	assert.Equal(t,
		[]string{"summary", "growthScore", "marketingChannels", "salesFunnel", "contentCalendar"},
		missing)
}

func TestCheckMandatoryRejectsWrongShapes(t *testing.T) {
	obj := decode(t, `{
		"summary": "",
		"growthScore": "85",
		"marketingChannels": {"channel": "SEO"},
		"salesFunnel": null,
		"contentCalendar": []
	}`)
	// Empty summary, string score, object instead of array, and null all
	// count as missing. No coercion.
	assert.Equal(t, []string{"summary", "growthScore", "marketingChannels", "salesFunnel"}, CheckMandatory(obj))
}
