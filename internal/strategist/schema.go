package strategist

import "github.com/google/generative-ai-go/genai"

// strategySchema constrains the model's JSON output to the Strategy shape.
// It mirrors models.Strategy exactly; id and generatedAt are stamped locally
// after validation and are deliberately absent here.
var strategySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type:        genai.TypeString,
			Description: "Executive summary of the strategy",
		},
		"growthScore": {
			Type:        genai.TypeInteger,
			Description: "A calculated growth potential score from 0-100",
		},
		"targetAudience": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"demographics":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"psychographics": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"painPoints":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
		},
		"marketingChannels": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"channel":   {Type: genai.TypeString},
					"rationale": {Type: genai.TypeString},
					"roi":       {Type: genai.TypeString},
				},
			},
		},
		"salesFunnel": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"stage":  {Type: genai.TypeString, Description: "e.g., Awareness, Consideration"},
					"tactic": {Type: genai.TypeString},
					"metric": {Type: genai.TypeString},
				},
			},
		},
		"contentCalendar": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"day":         {Type: genai.TypeInteger},
					"title":       {Type: genai.TypeString},
					"platform":    {Type: genai.TypeString},
					"type":        {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"status":      {Type: genai.TypeString, Description: "Always set to 'pending'"},
				},
			},
		},
		"pricingStrategy": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"model":          {Type: genai.TypeString},
				"recommendation": {Type: genai.TypeString},
			},
		},
		"competitors": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString},
					"strength": {Type: genai.TypeString},
					"weakness": {Type: genai.TypeString},
				},
			},
		},
		"kpis": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"metric": {Type: genai.TypeString},
					"target": {Type: genai.TypeString},
				},
			},
		},
	},
	Required: []string{"summary", "growthScore", "marketingChannels", "contentCalendar", "salesFunnel"},
}
