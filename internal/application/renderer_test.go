package application_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"eco-assistant/internal/application"
	"eco-assistant/internal/domain"
)

type mockRenderStore struct {
	intents   map[string]*domain.Intent
	usage     map[string]*domain.ElectricityUsage // keyed by user|date
	stats     *domain.CommunityStats
	impacts   map[string]float64 // keyed by user|type
	tip       string
	weekTotal float64
	hasWeek   bool
	err       error
}

func (m *mockRenderStore) IntentByID(id string) (*domain.Intent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.intents[id], nil
}

func (m *mockRenderStore) UsageForDay(userID string, day time.Time) (*domain.ElectricityUsage, error) {
	return m.usage[userID+"|"+day.Format("2006-01-02")], nil
}

func (m *mockRenderStore) UsageForDays(userID string, days ...time.Time) ([]domain.ElectricityUsage, error) {
	var rows []domain.ElectricityUsage
	for _, d := range days {
		if u := m.usage[userID+"|"+d.Format("2006-01-02")]; u != nil {
			rows = append(rows, *u)
		}
	}
	return rows, nil
}

func (m *mockRenderStore) CommunityStatsForDay(_ time.Time) (*domain.CommunityStats, error) {
	return m.stats, nil
}

func (m *mockRenderStore) ImpactForDay(userID string, _ time.Time, typ domain.ImpactType) (float64, bool, error) {
	v, ok := m.impacts[userID+"|"+string(typ)]
	return v, ok, nil
}

func (m *mockRenderStore) RandomActiveTip() (string, bool, error) {
	return m.tip, m.tip != "", nil
}

func (m *mockRenderStore) WeeklyCost(_ string, _ time.Time) (float64, bool, error) {
	return m.weekTotal, m.hasWeek, nil
}

func lexicon() map[string]*domain.Intent {
	intents := map[string]*domain.Intent{
		"intent1":  {ID: "intent1", Name: "query_electricity_today", Template: "You used {kwh} kilowatt-hours today, which cost about {cost} euros.", RequiresData: true},
		"intent2":  {ID: "intent2", Name: "query_community_usage", Template: "Your community used an average of {avg_kwh} kilowatt-hours per person today.", RequiresData: true},
		"intent3":  {ID: "intent3", Name: "compare_yesterday", Template: "You used {diff} kilowatt-hours {compare_text}.", RequiresData: true},
		"intent4":  {ID: "intent4", Name: "greenest_time", Template: "The greenest time to use power is {green_time}.", RequiresData: false},
		"intent5":  {ID: "intent5", Name: "query_co2_saved", Template: "You saved {co2} kilograms of CO2 today. Keep it up!", RequiresData: true},
		"intent6":  {ID: "intent6", Name: "random_tip", Template: "Here is a sustainability tip for you: {tip}", RequiresData: true},
		"intent7":  {ID: "intent7", Name: "query_water_saved", Template: "You saved {water} liters of water today.", RequiresData: true},
		"intent8":  {ID: "intent8", Name: "query_money_saved_week", Template: "You saved {money} euros this week by using energy wisely.", RequiresData: true},
		"intent9":  {ID: "intent9", Name: "compare_community", Template: "You used {diff} kilowatt-hours {compare} {compare_text}.", RequiresData: true},
		"intent10": {ID: "intent10", Name: "summary_today", Template: "Today you used {kwh} kilowatt-hours of electricity and saved {co2} kilograms of CO2.", RequiresData: true},
	}
	return intents
}

func TestRenderer_StaticIntents(t *testing.T) {
	store := &mockRenderStore{intents: lexicon()}
	renderer := application.NewRenderer(store, discardLogger())

	got := renderer.Render("intent4", "")
	if !strings.Contains(got, "off-peak hours (10 PM - 6 AM)") {
		t.Errorf("greenest_time should inject the off-peak description, got %q", got)
	}
	if strings.Contains(got, "{green_time}") {
		t.Errorf("placeholder left unfilled: %q", got)
	}
}

func TestRenderer_FallbackConstants(t *testing.T) {
	// No user, no rows: every data-driven intent renders its documented
	// fallback figures.
	store := &mockRenderStore{intents: lexicon()}
	renderer := application.NewRenderer(store, discardLogger())

	tests := []struct {
		intentID string
		want     string
	}{
		{"intent1", "You used 5.6 kilowatt-hours today, which cost about 2.08 euros."},
		{"intent2", "Your community used an average of 5.2 kilowatt-hours per person today."},
		{"intent3", "You used 0.6 kilowatt-hours less than yesterday."},
		{"intent5", "You saved 2.1 kilograms of CO2 today. Keep it up!"},
		{"intent7", "You saved 15 liters of water today."},
		{"intent8", "You saved 2.98 euros this week by using energy wisely."},
		{"intent9", "You used 0.4 kilowatt-hours less than your community average."},
		{"intent10", "Today you used 5.6 kilowatt-hours of electricity and saved 2.1 kilograms of CO2."},
	}

	for _, tt := range tests {
		t.Run(tt.intentID, func(t *testing.T) {
			if got := renderer.Render(tt.intentID, ""); got != tt.want {
				t.Errorf("Render(%s) = %q, want %q", tt.intentID, got, tt.want)
			}
		})
	}
}

func TestRenderer_NeverEmpty(t *testing.T) {
	store := &mockRenderStore{intents: lexicon()}
	renderer := application.NewRenderer(store, discardLogger())

	for id := range lexicon() {
		if got := renderer.Render(id, ""); got == "" {
			t.Errorf("Render(%s) returned empty string", id)
		}
	}
}

func TestRenderer_UserData(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	store := &mockRenderStore{
		intents: lexicon(),
		usage: map[string]*domain.ElectricityUsage{
			"u1|" + today:     {UserID: "u1", KWhUsed: 7.5, EstimatedCost: 3.12},
			"u1|" + yesterday: {UserID: "u1", KWhUsed: 6.9},
		},
		impacts: map[string]float64{
			"u1|" + string(domain.ImpactCO2Saved):   3.3,
			"u1|" + string(domain.ImpactWaterSaved): 20,
		},
		tip: "Dry clothes on a line.",
	}
	renderer := application.NewRenderer(store, discardLogger())

	tests := []struct {
		intentID string
		want     string
	}{
		{"intent1", "You used 7.5 kilowatt-hours today, which cost about 3.12 euros."},
		{"intent5", "You saved 3.3 kilograms of CO2 today. Keep it up!"},
		{"intent6", "Here is a sustainability tip for you: Dry clothes on a line."},
		{"intent7", "You saved 20 liters of water today."},
		{"intent10", "Today you used 7.5 kilowatt-hours of electricity and saved 3.3 kilograms of CO2."},
	}

	for _, tt := range tests {
		t.Run(tt.intentID, func(t *testing.T) {
			if got := renderer.Render(tt.intentID, "u1"); got != tt.want {
				t.Errorf("Render(%s) = %q, want %q", tt.intentID, got, tt.want)
			}
		})
	}
}

func TestRenderer_CompareYesterday(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	store := &mockRenderStore{
		intents: lexicon(),
		usage: map[string]*domain.ElectricityUsage{
			"u1|" + today:     {UserID: "u1", KWhUsed: 8.1},
			"u1|" + yesterday: {UserID: "u1", KWhUsed: 6.9},
		},
	}
	renderer := application.NewRenderer(store, discardLogger())

	want := "You used 1.2 kilowatt-hours more than yesterday."
	if got := renderer.Render("intent3", "u1"); got != want {
		t.Errorf("Render(intent3) = %q, want %q", got, want)
	}
}

func TestRenderer_WeeklySavings(t *testing.T) {
	store := &mockRenderStore{intents: lexicon(), weekTotal: 14.5, hasWeek: true}
	renderer := application.NewRenderer(store, discardLogger())

	want := "You saved 2.5 euros this week by using energy wisely."
	if got := renderer.Render("intent8", "u1"); got != want {
		t.Errorf("Render(intent8) = %q, want %q", got, want)
	}
}

func TestRenderer_UnknownIntentUsesLegacyTable(t *testing.T) {
	store := &mockRenderStore{intents: lexicon()}
	renderer := application.NewRenderer(store, discardLogger())

	got := renderer.Render("electricity_today", "")
	if !strings.Contains(got, "2.45 dollars") {
		t.Errorf("legacy electricity_today should keep its dollar wording, got %q", got)
	}

	got = renderer.Render("completely_unknown", "")
	if !strings.Contains(got, "live more sustainably") {
		t.Errorf("unknown intent should get the generic message, got %q", got)
	}
}

func TestRenderer_StoreErrorFallsBack(t *testing.T) {
	store := &mockRenderStore{err: errors.New("disk I/O error")}
	renderer := application.NewRenderer(store, discardLogger())

	got := renderer.Render("intent1", "u1")
	if got == "" {
		t.Fatal("Render returned empty string on store error")
	}
	if !strings.Contains(got, "live more sustainably") {
		t.Errorf("store error should degrade to the generic message, got %q", got)
	}
}
