package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eco-assistant/internal/domain"
	"eco-assistant/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening applies no migrations and reseeds nothing.
	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	intents, err := s.IntentPatterns()
	require.NoError(t, err)
	assert.Len(t, intents, 10)
}

func TestSeededIntents(t *testing.T) {
	s := openTestStore(t)

	intent, err := s.IntentByID("intent1")
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, "query_electricity_today", intent.Name)
	assert.True(t, intent.RequiresData)
	assert.Contains(t, intent.Template, "{kwh}")

	intent, err = s.IntentByID("intent4")
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.False(t, intent.RequiresData)

	missing, err := s.IntentByID("no_such_intent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIntentPatternsParsed(t *testing.T) {
	s := openTestStore(t)

	intents, err := s.IntentPatterns()
	require.NoError(t, err)

	byID := make(map[string]domain.Intent, len(intents))
	for _, in := range intents {
		byID[in.ID] = in
	}
	require.Contains(t, byID, "intent6")
	assert.Contains(t, byID["intent6"].Patterns, "give me a tip")
}

func TestUsageQueries(t *testing.T) {
	s := openTestStore(t)

	usage, err := s.UsageForDay("demo_user", day("2025-01-15"))
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, 5.6, usage.KWhUsed)
	assert.Equal(t, 2.08, usage.EstimatedCost)
	assert.False(t, usage.IsPeakTime)

	none, err := s.UsageForDay("demo_user", day("2030-06-01"))
	require.NoError(t, err)
	assert.Nil(t, none)

	rows, err := s.UsageForDays("demo_user", day("2025-01-15"), day("2025-01-14"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 5.6, rows[0].KWhUsed, "newest first")
	assert.Equal(t, 6.2, rows[1].KWhUsed)
	assert.True(t, rows[1].IsPeakTime)
}

func TestCommunityStats(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.CommunityStatsForDay(day("2025-01-15"))
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 5.2, stats.AvgKWhPerUser)
	assert.Equal(t, 1.8, stats.TotalCO2Saved)

	missing, err := s.CommunityStatsForDay(day("2030-06-01"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestImpactAndTips(t *testing.T) {
	s := openTestStore(t)

	co2, ok, err := s.ImpactForDay("demo_user", day("2025-01-15"), domain.ImpactCO2Saved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.4, co2)

	_, ok, err = s.ImpactForDay("demo_user", day("2025-01-15"), domain.ImpactType("trees_planted"))
	require.NoError(t, err)
	assert.False(t, ok)

	tip, ok, err := s.RandomActiveTip()
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, tip)
}

func TestWeeklyCost(t *testing.T) {
	s := openTestStore(t)

	total, ok, err := s.WeeklyCost("demo_user", day("2025-01-15"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 4.37, total, 0.001)

	_, ok, err = s.WeeklyCost("nobody", day("2025-01-15"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConversationLog(t *testing.T) {
	s := openTestStore(t)

	before, err := s.ConversationCount()
	require.NoError(t, err)

	conv := domain.Conversation{
		ID:               "conv-1",
		UserID:           "u1",
		UserMessage:      "give me a tip",
		AssistantMessage: "Here is a tip.",
		IntentMatched:    "intent6",
	}
	require.NoError(t, s.SaveConversation(conv))

	after, err := s.ConversationCount()
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	got, err := s.ConversationByID("conv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, conv.UserMessage, got.UserMessage)
	assert.Equal(t, conv.AssistantMessage, got.AssistantMessage)
	assert.Equal(t, conv.IntentMatched, got.IntentMatched)
	assert.Equal(t, "u1", got.UserID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestConversationWithoutUser(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveConversation(domain.Conversation{
		ID:               "conv-anon",
		UserMessage:      "hello",
		AssistantMessage: "hi",
		IntentMatched:    "general_eco",
	}))

	got, err := s.ConversationByID("conv-anon")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.UserID)
}
