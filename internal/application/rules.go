package application

import "strings"

// FallbackIntent is returned when nothing else matches.
const FallbackIntent = "general_eco"

type predicate func(input string) bool

// rule pairs a predicate with the intent it yields. Rules are evaluated in
// slice order, first satisfied wins.
type rule struct {
	when   predicate
	intent string
}

func anyOf(phrases ...string) predicate {
	return func(input string) bool {
		for _, p := range phrases {
			if strings.Contains(input, p) {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...predicate) predicate {
	return func(input string) bool {
		for _, p := range preds {
			if !p(input) {
				return false
			}
		}
		return true
	}
}

var electricityWords = anyOf("electricity", "power", "energy", "kwh", "kilowatt")

// enhancedRules is the primary hand-ordered cascade. Intent ids refer to the
// seeded lexicon rows where one exists; the remaining ids resolve through the
// static legacy response table.
var enhancedRules = []rule{
	{allOf(anyOf("community use", "community usage", "neighborhood use", "neighborhood usage"),
		anyOf("today", "did", "how much")), "intent2"},
	{anyOf("sustainability tip", "eco tip", "green tip", "sustainable tip", "give me a tip"), "intent6"},
	{anyOf("green compared", "greener than", "compared to others", "community comparison", "how green am i"), "intent9"},
	{anyOf("greenest time", "best time to use power", "greenest time to use power"), "intent4"},
	{allOf(anyOf("carbon dioxide", "co2", "co₂", "carbon"), anyOf("save", "saved", "reduced")), "intent5"},
	{allOf(anyOf("summarize", "summary", "green behavior", "eco behavior"), anyOf("today", "daily")), "intent10"},
	{allOf(electricityWords, anyOf("today", "used", "consumption", "usage")), "intent1"},
	{allOf(electricityWords, anyOf("save", "reduce", "lower", "cut")), "electricity_save"},
	{allOf(electricityWords, anyOf("cost", "bill", "money", "dollars", "euros")), "electricity_cost"},
	{allOf(anyOf("dishwasher", "dish washer"), anyOf("time", "when", "best")), "dishwasher_time"},
	{allOf(anyOf("dishwasher", "dish washer"), anyOf("save", "efficient", "eco")), "dishwasher_save"},
	{allOf(anyOf("laundry", "washer", "washing machine"), anyOf("time", "when", "best", "greenest")), "laundry_time"},
	{allOf(anyOf("laundry", "washer", "washing machine"), anyOf("save", "efficient", "eco")), "laundry_save"},
	{allOf(anyOf("milk", "oat", "almond", "dairy"), anyOf("eco", "friendly", "sustainable", "better")), "milk_comparison"},
	{allOf(anyOf("tip", "advice", "sustainable", "eco"), anyOf("today", "daily", "everyday")), "intent6"},
}

// legacyRules is the pre-lexicon cascade kept for its original identifiers
// (electricity_today, daily_tip). It only fires for input no enhanced rule
// claims.
var legacyRules = []rule{
	{allOf(electricityWords, anyOf("today", "used", "consumption", "usage")), "electricity_today"},
	{allOf(electricityWords, anyOf("save", "reduce", "lower", "cut")), "electricity_save"},
	{allOf(electricityWords, anyOf("cost", "bill", "money", "dollars")), "electricity_cost"},
	{allOf(anyOf("dishwasher", "dish washer"), anyOf("time", "when", "best")), "dishwasher_time"},
	{allOf(anyOf("dishwasher", "dish washer"), anyOf("save", "efficient", "eco")), "dishwasher_save"},
	{allOf(anyOf("laundry", "washer", "washing machine"), anyOf("time", "when", "best", "greenest")), "laundry_time"},
	{allOf(anyOf("laundry", "washer", "washing machine"), anyOf("save", "efficient", "eco")), "laundry_save"},
	{allOf(anyOf("milk", "oat", "almond", "dairy"), anyOf("eco", "friendly", "sustainable", "better")), "milk_comparison"},
	{allOf(anyOf("tip", "advice", "sustainable", "eco"), anyOf("today", "daily", "everyday")), "daily_tip"},
}
