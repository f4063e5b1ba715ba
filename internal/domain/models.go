package domain

import "time"

type ImpactType string

const (
	ImpactCO2Saved   ImpactType = "CO2_saved"
	ImpactWaterSaved ImpactType = "water_saved"
)

// Intent is a named category of user question with an associated response
// template. Templates contain {placeholder} tokens filled at render time.
type Intent struct {
	ID           string
	Name         string
	Template     string
	RequiresData bool
	Patterns     []string
}

// ElectricityUsage is one user's consumption for one day.
type ElectricityUsage struct {
	UserID        string    `json:"user_id"`
	Date          time.Time `json:"date"`
	KWhUsed       float64   `json:"kwh_used"`
	EstimatedCost float64   `json:"estimated_cost"`
	IsPeakTime    bool      `json:"is_peak_time"`
}

// CommunityStats aggregates daily usage across all users.
type CommunityStats struct {
	Date          time.Time `json:"date"`
	AvgKWhPerUser float64   `json:"avg_kwh_per_user"`
	TotalCO2Saved float64   `json:"total_co2_saved"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImpactRecord is a per-user, per-day value for one impact type.
type ImpactRecord struct {
	UserID string
	Date   time.Time
	Type   ImpactType
	Value  float64
}

type Tip struct {
	ID      int
	Content string
	Active  bool
}

// Conversation is one question/answer exchange. Rows are append-only and
// never mutated after insert.
type Conversation struct {
	ID               string
	UserID           string
	UserMessage      string
	AssistantMessage string
	IntentMatched    string
	CreatedAt        time.Time
}
