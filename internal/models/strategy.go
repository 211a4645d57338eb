package models

import "time"

// BusinessProfile describes the business a strategy is generated for.
// A profile is uniquely identified by (owner, name); resubmitting the same
// name for the same owner updates the stored record instead of duplicating it.
type BusinessProfile struct {
	Name       string `json:"name"`
	Industry   string `json:"industry"`
	Niche      string `json:"niche"`
	Audience   string `json:"audience"`
	Goals      string `json:"goals"`
	Challenges string `json:"challenges"`
}

// ProfileFields lists the profile field names in submission order. Handlers
// and validators report errors using these names.
var ProfileFields = []string{"name", "industry", "niche", "audience", "goals", "challenges"}

// Field returns the value of the named profile field, or "" for unknown names.
func (p BusinessProfile) Field(name string) string {
	switch name {
	case "name":
		return p.Name
	case "industry":
		return p.Industry
	case "niche":
		return p.Niche
	case "audience":
		return p.Audience
	case "goals":
		return p.Goals
	case "challenges":
		return p.Challenges
	}
	return ""
}

// TargetAudience segments the audience analysis of a strategy.
type TargetAudience struct {
	Demographics   []string `json:"demographics"`
	Psychographics []string `json:"psychographics"`
	PainPoints     []string `json:"painPoints"`
}

// MarketingChannel is one recommended channel with its justification.
type MarketingChannel struct {
	Channel   string `json:"channel"`
	Rationale string `json:"rationale"`
	ROI       string `json:"roi"`
}

// FunnelStage is one step of the sales funnel, ordered top to bottom.
type FunnelStage struct {
	Stage  string `json:"stage"`
	Tactic string `json:"tactic"`
	Metric string `json:"metric"`
}

// ContentItem is a single entry of the sample content calendar.
type ContentItem struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// PricingStrategy is the recommended pricing model.
type PricingStrategy struct {
	Model          string `json:"model"`
	Recommendation string `json:"recommendation"`
}

// Competitor is one competitor with its strongest and weakest point.
type Competitor struct {
	Name     string `json:"name"`
	Strength string `json:"strength"`
	Weakness string `json:"weakness"`
}

// KPI pairs a metric with its target value.
type KPI struct {
	Metric string `json:"metric"`
	Target string `json:"target"`
}

// Strategy is the generated marketing strategy document. Summary, GrowthScore,
// MarketingChannels, SalesFunnel and ContentCalendar are mandatory; the rest
// may be empty. A strategy is immutable once persisted.
type Strategy struct {
	ID                string             `json:"id"`
	GeneratedAt       time.Time          `json:"generatedAt"`
	Summary           string             `json:"summary"`
	GrowthScore       int                `json:"growthScore"`
	TargetAudience    TargetAudience     `json:"targetAudience"`
	MarketingChannels []MarketingChannel `json:"marketingChannels"`
	SalesFunnel       []FunnelStage      `json:"salesFunnel"`
	ContentCalendar   []ContentItem      `json:"contentCalendar"`
	PricingStrategy   PricingStrategy    `json:"pricingStrategy"`
	Competitors       []Competitor       `json:"competitors"`
	KPIs              []KPI              `json:"kpis"`
}
