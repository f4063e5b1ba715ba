package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"eco-assistant/internal/domain"
)

const dateLayout = "2006-01-02"

// Store wraps the SQLite database holding intents, usage metrics and the
// conversation log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database file, applies pending
// migrations and seeds sample data. Opening an already-migrated file is a
// no-op beyond the version check.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite works best with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	if err := s.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding sample data: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("applying migration %d: %w", i+1, err)
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("bumping schema version: %w", err)
		}
	}

	return nil
}

func (s *Store) seed() error {
	for _, in := range seedIntents {
		requires := 0
		if in.requiresData {
			requires = 1
		}
		var patterns any
		if in.patterns != "" {
			patterns = in.patterns
		}
		_, err := s.db.Exec(`
			INSERT OR IGNORE INTO intents (intent_id, name, response_template, requires_data_access, question_patterns)
			VALUES (?, ?, ?, ?, ?)`,
			in.id, in.name, in.template, requires, patterns)
		if err != nil {
			return fmt.Errorf("seeding intent %s: %w", in.id, err)
		}
	}

	var tipCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tips`).Scan(&tipCount); err != nil {
		return fmt.Errorf("counting tips: %w", err)
	}
	if tipCount == 0 {
		for _, tip := range seedTips {
			if _, err := s.db.Exec(`INSERT INTO tips (content, is_active) VALUES (?, 1)`, tip); err != nil {
				return fmt.Errorf("seeding tip: %w", err)
			}
		}
	}

	// A demo user with a couple of days of history, on fixed dates so they
	// never shadow a live "today" lookup.
	demo := []struct {
		date string
		kwh  float64
		cost float64
		peak int
	}{
		{"2025-01-14", 6.2, 2.29, 1},
		{"2025-01-15", 5.6, 2.08, 0},
	}
	for _, d := range demo {
		_, err := s.db.Exec(`
			INSERT OR IGNORE INTO electricity_usage (user_id, date, kwh_used, estimated_cost, is_peak_time)
			VALUES (?, ?, ?, ?, ?)`,
			"demo_user", d.date, d.kwh, d.cost, d.peak)
		if err != nil {
			return fmt.Errorf("seeding usage: %w", err)
		}
	}

	var statCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM community_stats`).Scan(&statCount); err != nil {
		return fmt.Errorf("counting community stats: %w", err)
	}
	if statCount == 0 {
		_, err := s.db.Exec(`
			INSERT INTO community_stats (date, avg_kwh_per_user, total_co2_saved, created_at)
			VALUES (?, ?, ?, ?)`,
			"2025-01-15", 5.2, 1.8, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("seeding community stats: %w", err)
		}
	}

	impacts := []struct {
		typ   domain.ImpactType
		value float64
	}{
		{domain.ImpactCO2Saved, 2.4},
		{domain.ImpactWaterSaved, 12.5},
	}
	for _, im := range impacts {
		_, err := s.db.Exec(`
			INSERT OR IGNORE INTO impact_records (user_id, date, impact_type, impact_value)
			VALUES (?, ?, ?, ?)`,
			"demo_user", "2025-01-15", string(im.typ), im.value)
		if err != nil {
			return fmt.Errorf("seeding impact record: %w", err)
		}
	}

	return nil
}

// IntentPatterns returns every intent with its parsed phrase list. A NULL or
// malformed question_patterns column yields a nil Patterns slice so the
// matcher can fall back to name matching.
func (s *Store) IntentPatterns() ([]domain.Intent, error) {
	rows, err := s.db.Query(`SELECT intent_id, name, question_patterns FROM intents`)
	if err != nil {
		return nil, fmt.Errorf("querying intents: %w", err)
	}
	defer rows.Close()

	var intents []domain.Intent
	for rows.Next() {
		var in domain.Intent
		var patterns sql.NullString
		if err := rows.Scan(&in.ID, &in.Name, &patterns); err != nil {
			return nil, fmt.Errorf("scanning intent: %w", err)
		}
		if patterns.Valid && patterns.String != "" {
			// Malformed JSON leaves Patterns nil rather than failing.
			_ = json.Unmarshal([]byte(patterns.String), &in.Patterns)
		}
		intents = append(intents, in)
	}

	return intents, rows.Err()
}

// IntentByID returns the intent row, or nil when the id is unknown.
func (s *Store) IntentByID(id string) (*domain.Intent, error) {
	row := s.db.QueryRow(`
		SELECT intent_id, name, response_template, requires_data_access
		FROM intents WHERE intent_id = ?`, id)

	var in domain.Intent
	var requires int
	err := row.Scan(&in.ID, &in.Name, &in.Template, &requires)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying intent %s: %w", id, err)
	}
	in.RequiresData = requires != 0

	return &in, nil
}

// UsageForDay returns one user's usage row for a day, or nil when none exists.
func (s *Store) UsageForDay(userID string, day time.Time) (*domain.ElectricityUsage, error) {
	row := s.db.QueryRow(`
		SELECT user_id, date, kwh_used, estimated_cost, is_peak_time
		FROM electricity_usage WHERE user_id = ? AND date = ?`,
		userID, day.Format(dateLayout))

	usage, err := scanUsage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying usage: %w", err)
	}

	return usage, nil
}

// UsageForDays returns the usage rows for the given days, newest first.
func (s *Store) UsageForDays(userID string, days ...time.Time) ([]domain.ElectricityUsage, error) {
	if len(days) == 0 {
		return nil, nil
	}

	query := `
		SELECT user_id, date, kwh_used, estimated_cost, is_peak_time
		FROM electricity_usage WHERE user_id = ? AND date IN (`
	args := []any{userID}
	for i, d := range days {
		if i > 0 {
			query += ", "
		}
		query += "?"
		args = append(args, d.Format(dateLayout))
	}
	query += `) ORDER BY date DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage: %w", err)
	}
	defer rows.Close()

	var results []domain.ElectricityUsage
	for rows.Next() {
		usage, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning usage: %w", err)
		}
		results = append(results, *usage)
	}

	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUsage(row scanner) (*domain.ElectricityUsage, error) {
	var u domain.ElectricityUsage
	var dateStr string
	var peak int
	if err := row.Scan(&u.UserID, &dateStr, &u.KWhUsed, &u.EstimatedCost, &peak); err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	u.Date = date
	u.IsPeakTime = peak != 0
	return &u, nil
}

// CommunityStatsForDay returns the newest community row for a day, or nil.
func (s *Store) CommunityStatsForDay(day time.Time) (*domain.CommunityStats, error) {
	row := s.db.QueryRow(`
		SELECT date, avg_kwh_per_user, total_co2_saved, created_at
		FROM community_stats WHERE date = ?
		ORDER BY created_at DESC LIMIT 1`,
		day.Format(dateLayout))

	var cs domain.CommunityStats
	var dateStr, createdStr string
	err := row.Scan(&dateStr, &cs.AvgKWhPerUser, &cs.TotalCO2Saved, &createdStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying community stats: %w", err)
	}

	if cs.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdStr); err == nil {
		cs.CreatedAt = t
	}

	return &cs, nil
}

// ImpactForDay returns the recorded value for one impact type, ok=false when
// no row exists.
func (s *Store) ImpactForDay(userID string, day time.Time, typ domain.ImpactType) (float64, bool, error) {
	row := s.db.QueryRow(`
		SELECT impact_value FROM impact_records
		WHERE user_id = ? AND date = ? AND impact_type = ?`,
		userID, day.Format(dateLayout), string(typ))

	var value float64
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying impact record: %w", err)
	}

	return value, true, nil
}

// RandomActiveTip returns a random active tip, ok=false when none exist.
func (s *Store) RandomActiveTip() (string, bool, error) {
	row := s.db.QueryRow(`
		SELECT content FROM tips WHERE is_active = 1
		ORDER BY RANDOM() LIMIT 1`)

	var content string
	err := row.Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying tip: %w", err)
	}

	return content, true, nil
}

// WeeklyCost sums a user's estimated cost over the seven days ending at day.
// ok is false when no rows fall in the window.
func (s *Store) WeeklyCost(userID string, day time.Time) (float64, bool, error) {
	row := s.db.QueryRow(`
		SELECT SUM(estimated_cost) FROM electricity_usage
		WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, day.AddDate(0, 0, -7).Format(dateLayout), day.Format(dateLayout))

	var total sql.NullFloat64
	if err := row.Scan(&total); err != nil {
		return 0, false, fmt.Errorf("querying weekly cost: %w", err)
	}
	if !total.Valid {
		return 0, false, nil
	}

	return total.Float64, true, nil
}

// SaveConversation appends one exchange to the conversation log.
func (s *Store) SaveConversation(c domain.Conversation) error {
	userID := sql.NullString{String: c.UserID, Valid: c.UserID != ""}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO conversations (conversation_id, user_id, user_message, assistant_message, intent_matched, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, userID, c.UserMessage, c.AssistantMessage, c.IntentMatched,
		createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}

	return nil
}

// ConversationByID returns a logged exchange, or nil when the id is unknown.
func (s *Store) ConversationByID(id string) (*domain.Conversation, error) {
	row := s.db.QueryRow(`
		SELECT conversation_id, user_id, user_message, assistant_message, intent_matched, created_at
		FROM conversations WHERE conversation_id = ?`, id)

	var c domain.Conversation
	var userID, intent sql.NullString
	var createdStr string
	err := row.Scan(&c.ID, &userID, &c.UserMessage, &c.AssistantMessage, &intent, &createdStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}
	c.UserID = userID.String
	c.IntentMatched = intent.String
	if t, err := time.Parse(time.RFC3339, createdStr); err == nil {
		c.CreatedAt = t
	}

	return &c, nil
}

// ConversationCount reports the size of the conversation log.
func (s *Store) ConversationCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting conversations: %w", err)
	}
	return n, nil
}
