package application

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"eco-assistant/internal/domain"
)

const greenestTimeDescription = "during off-peak hours (10 PM - 6 AM) when renewable energy is more prevalent on the grid"

// Fallback figures substituted when the user is anonymous or has no row for
// the queried day.
const (
	fallbackKWh         = 5.6
	fallbackCost        = 2.08
	fallbackAvgKWh      = 5.2
	fallbackCO2         = 2.1
	fallbackWater       = 15.0
	fallbackWeeklySaved = 2.98
	fallbackDayDiff     = 0.6
	fallbackCommDiff    = 0.4

	// Weekly spend baseline the savings figure is measured against, in euros.
	weeklyCostBaseline = 17.0

	fallbackTip = "Turn off lights when leaving a room to save energy"
)

const genericResponse = "I'm here to help you live more sustainably! Ask me about electricity usage, appliance efficiency, or eco-friendly choices."

// legacyResponses answers intents that never made it into the lexicon store.
// The electricity_today entry predates the seeded query_electricity_today row
// and keeps its own (dollar-priced) wording.
var legacyResponses = map[string]string{
	"electricity_today": "You used 5.6 kilowatt-hours today, which cost about 2.45 dollars.",
	"electricity_save":  "To save electricity, try using LED bulbs, unplug devices when not in use, and run appliances during off-peak hours.",
	"electricity_cost":  "Your current electricity rate is about 44 cents per kilowatt-hour. Consider switching to renewable energy providers.",
	"dishwasher_time":   "The best time to run your dishwasher is during off-peak hours (10 PM - 6 AM) when renewable energy is more prevalent on the grid. Also, only run it when full and use the eco-mode if available!",
	"dishwasher_save":   "To save energy with your dishwasher, only run full loads, use eco-mode, and skip the heated dry cycle.",
	"laundry_time":      "The greenest time to wash laundry is during off-peak hours (10 PM - 6 AM) when the grid uses more renewable energy. Also, wash with cold water to save 90% of the energy!",
	"laundry_save":      "To save energy with laundry, use cold water, wash full loads, and air dry when possible.",
	"milk_comparison":   "Oat milk is generally more eco-friendly than almond milk. It uses less water and produces fewer greenhouse gases. However, both are better than dairy milk for the environment.",
	"daily_tip":         "Here's a sustainable tip for today: Try using a reusable water bottle instead of disposable plastic bottles. This simple change can save hundreds of plastic bottles per year!",
	"general_eco":       genericResponse,
}

// Renderer fills an intent's response template from the lexicon store. It
// never fails: any lookup or render problem degrades to the legacy response
// table and finally to the generic sustainability message.
type Renderer struct {
	store  RenderStore
	now    func() time.Time
	logger *slog.Logger
}

func NewRenderer(store RenderStore, logger *slog.Logger) *Renderer {
	return &Renderer{store: store, now: time.Now, logger: logger}
}

func (r *Renderer) Render(intentID, userID string) string {
	intent, err := r.store.IntentByID(intentID)
	if err != nil {
		r.logger.Error("looking up intent", "intent", intentID, "error", err)
		return legacyResponse(intentID)
	}
	if intent == nil {
		return legacyResponse(intentID)
	}

	if !intent.RequiresData {
		if intent.Name == "greenest_time" {
			return fill(intent.Template, map[string]string{"green_time": greenestTimeDescription})
		}
		return intent.Template
	}

	answer, err := r.renderDynamic(intent, userID)
	if err != nil {
		r.logger.Error("rendering response", "intent", intentID, "error", err)
		return legacyResponse(intentID)
	}

	return answer
}

func (r *Renderer) renderDynamic(intent *domain.Intent, userID string) (string, error) {
	today := r.now()

	switch intent.Name {
	case "query_electricity_today":
		if userID != "" {
			usage, err := r.store.UsageForDay(userID, today)
			if err != nil {
				return "", err
			}
			if usage != nil {
				return fill(intent.Template, map[string]string{
					"kwh":  formatFloat(usage.KWhUsed),
					"cost": formatFloat(usage.EstimatedCost),
				}), nil
			}
		}
		return fill(intent.Template, map[string]string{
			"kwh":  formatFloat(fallbackKWh),
			"cost": formatFloat(fallbackCost),
		}), nil

	case "query_community_usage":
		stats, err := r.store.CommunityStatsForDay(today)
		if err != nil {
			return "", err
		}
		avg := fallbackAvgKWh
		if stats != nil {
			avg = stats.AvgKWhPerUser
		}
		return fill(intent.Template, map[string]string{"avg_kwh": formatFloat(avg)}), nil

	case "compare_yesterday":
		if userID != "" {
			rows, err := r.store.UsageForDays(userID, today, today.AddDate(0, 0, -1))
			if err != nil {
				return "", err
			}
			if len(rows) >= 2 {
				todayKWh, yesterdayKWh := rows[0].KWhUsed, rows[1].KWhUsed
				compare, compareText := "less", "less than yesterday"
				if todayKWh > yesterdayKWh {
					compare, compareText = "more", "more than yesterday"
				}
				return fill(intent.Template, map[string]string{
					"compare":      compare,
					"diff":         formatFloat(round2(math.Abs(todayKWh - yesterdayKWh))),
					"compare_text": compareText,
				}), nil
			}
		}
		return fill(intent.Template, map[string]string{
			"compare":      "less",
			"diff":         formatFloat(fallbackDayDiff),
			"compare_text": "less than yesterday",
		}), nil

	case "query_co2_saved":
		return r.renderImpact(intent, userID, today, domain.ImpactCO2Saved, "co2", fallbackCO2)

	case "query_water_saved":
		return r.renderImpact(intent, userID, today, domain.ImpactWaterSaved, "water", fallbackWater)

	case "random_tip":
		tip, ok, err := r.store.RandomActiveTip()
		if err != nil {
			return "", err
		}
		if !ok {
			tip = fallbackTip
		}
		return fill(intent.Template, map[string]string{"tip": tip}), nil

	case "query_money_saved_week":
		if userID != "" {
			total, ok, err := r.store.WeeklyCost(userID, today)
			if err != nil {
				return "", err
			}
			if ok {
				savings := round2(math.Max(0, weeklyCostBaseline-total))
				return fill(intent.Template, map[string]string{"money": formatFloat(savings)}), nil
			}
		}
		return fill(intent.Template, map[string]string{"money": formatFloat(fallbackWeeklySaved)}), nil

	case "compare_community":
		if userID != "" {
			usage, err := r.store.UsageForDay(userID, today)
			if err != nil {
				return "", err
			}
			stats, err := r.store.CommunityStatsForDay(today)
			if err != nil {
				return "", err
			}
			if usage != nil && stats != nil {
				compare := "less"
				if usage.KWhUsed >= stats.AvgKWhPerUser {
					compare = "more"
				}
				return fill(intent.Template, map[string]string{
					"compare":      compare,
					"diff":         formatFloat(round2(math.Abs(usage.KWhUsed - stats.AvgKWhPerUser))),
					"compare_text": "than your community average",
				}), nil
			}
		}
		return fill(intent.Template, map[string]string{
			"compare":      "less",
			"diff":         formatFloat(fallbackCommDiff),
			"compare_text": "than your community average",
		}), nil

	case "summary_today":
		kwh, co2 := fallbackKWh, fallbackCO2
		if userID != "" {
			usage, err := r.store.UsageForDay(userID, today)
			if err != nil {
				return "", err
			}
			if usage != nil {
				kwh = usage.KWhUsed
			}
			value, ok, err := r.store.ImpactForDay(userID, today, domain.ImpactCO2Saved)
			if err != nil {
				return "", err
			}
			if ok {
				co2 = value
			}
		}
		return fill(intent.Template, map[string]string{
			"kwh": formatFloat(kwh),
			"co2": formatFloat(co2),
		}), nil

	default:
		// A data-driven intent the renderer has no queries for.
		return legacyResponse(intent.ID), nil
	}
}

func (r *Renderer) renderImpact(intent *domain.Intent, userID string, day time.Time, typ domain.ImpactType, placeholder string, fallback float64) (string, error) {
	value := fallback
	if userID != "" {
		v, ok, err := r.store.ImpactForDay(userID, day, typ)
		if err != nil {
			return "", err
		}
		if ok {
			value = v
		}
	}
	return fill(intent.Template, map[string]string{placeholder: formatFloat(value)}), nil
}

func legacyResponse(intentID string) string {
	if answer, ok := legacyResponses[intentID]; ok {
		return answer
	}
	return genericResponse
}

// fill substitutes {name} tokens. Unknown tokens are left untouched.
func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round2 keeps computed kWh deltas readable (0.6, not 0.5999999999999996).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
