package store

// Migrations are applied in order and tracked through PRAGMA user_version,
// so each statement runs exactly once per database file. Early versions
// mirror the schema as it historically existed; later ones upgrade it.
var migrations = []string{
	// v1: base schema
	`CREATE TABLE intents (
		intent_id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		response_template TEXT NOT NULL,
		requires_data_access INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE electricity_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		kwh_used REAL NOT NULL,
		estimated_cost REAL NOT NULL,
		is_peak_time INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_id, date)
	);
	CREATE TABLE community_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		avg_kwh_per_user REAL NOT NULL,
		total_co2_saved REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE impact_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		impact_type TEXT NOT NULL,
		impact_value REAL NOT NULL,
		UNIQUE(user_id, date, impact_type)
	);
	CREATE TABLE tips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	);
	CREATE TABLE conversations (
		conversation_id TEXT PRIMARY KEY,
		user_message TEXT NOT NULL,
		assistant_message TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX idx_usage_user_date ON electricity_usage(user_id, date);
	CREATE INDEX idx_stats_date ON community_stats(date);
	CREATE INDEX idx_impact_user_date ON impact_records(user_id, date);`,

	// v2: conversations gained a user and the matched intent
	`ALTER TABLE conversations ADD COLUMN user_id TEXT;
	ALTER TABLE conversations ADD COLUMN intent_matched TEXT;`,

	// v3: intents gained matchable question patterns
	`ALTER TABLE intents ADD COLUMN question_patterns TEXT;`,
}

type seedIntent struct {
	id           string
	name         string
	template     string
	requiresData bool
	patterns     string // JSON array, empty for none
}

var seedIntents = []seedIntent{
	{"intent1", "query_electricity_today",
		"You used {kwh} kilowatt-hours today, which cost about {cost} euros.",
		true,
		`["how much electricity", "electricity did i use", "my electricity usage", "power did i use today", "energy did i use"]`},
	{"intent2", "query_community_usage",
		"Your community used an average of {avg_kwh} kilowatt-hours per person today.",
		true,
		`["community usage", "community use", "neighborhood usage"]`},
	{"intent3", "compare_yesterday",
		"You used {diff} kilowatt-hours {compare_text}.",
		true,
		`["compared to yesterday", "than yesterday", "more or less than yesterday"]`},
	{"intent4", "greenest_time",
		"The greenest time to use power is {green_time}.",
		false,
		`["greenest time", "best time to use power"]`},
	{"intent5", "query_co2_saved",
		"You saved {co2} kilograms of CO2 today. Keep it up!",
		true,
		`["co2 did i save", "carbon did i save", "co2 saved"]`},
	{"intent6", "random_tip",
		"Here is a sustainability tip for you: {tip}",
		true,
		`["give me a tip", "sustainability tip", "eco tip", "green tip"]`},
	{"intent7", "query_water_saved",
		"You saved {water} liters of water today.",
		true,
		`["water did i save", "water saved"]`},
	{"intent8", "query_money_saved_week",
		"You saved {money} euros this week by using energy wisely.",
		true,
		`["money did i save", "money saved this week", "save this week"]`},
	{"intent9", "compare_community",
		"You used {diff} kilowatt-hours {compare} {compare_text}.",
		true,
		`["how green am i", "greener than", "compared to others"]`},
	{"intent10", "summary_today",
		"Today you used {kwh} kilowatt-hours of electricity and saved {co2} kilograms of CO2.",
		true,
		`["summarize my day", "green behavior today", "my summary"]`},
}

var seedTips = []string{
	"Turn off lights when leaving a room to save energy.",
	"Wash laundry with cold water to cut up to 90% of the cycle's energy use.",
	"Run the dishwasher only when it is full and skip the heated dry cycle.",
	"Unplug chargers and devices on standby, they still draw power.",
	"Shift heavy appliances to off-peak hours when the grid is greener.",
}
