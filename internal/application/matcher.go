package application

import (
	"log/slog"
	"strings"
)

// Matcher resolves free text to an intent id. It never fails: store errors
// are logged and the heuristic cascades take over, ending at FallbackIntent.
type Matcher struct {
	store  IntentSource
	logger *slog.Logger
}

func NewMatcher(store IntentSource, logger *slog.Logger) *Matcher {
	return &Matcher{store: store, logger: logger}
}

// Match scores the input against the lexicon first (longer phrases beat
// shorter ones), then the intent names, then the rule cascades. Matching is
// case-insensitive substring containment, nothing more: a phrase inside an
// unrelated word still counts.
func (m *Matcher) Match(text string) string {
	input := strings.ToLower(text)

	intents, err := m.store.IntentPatterns()
	if err != nil {
		m.logger.Error("loading intent patterns", "error", err)
	}

	bestScore := 0
	bestIntent := ""
	for _, in := range intents {
		for _, phrase := range in.Patterns {
			p := strings.ToLower(phrase)
			if p == "" || !strings.Contains(input, p) {
				continue
			}
			if score := len(strings.Fields(p)); score > bestScore {
				bestScore = score
				bestIntent = in.ID
			}
		}
	}
	if bestIntent != "" {
		return bestIntent
	}

	// Patternless intents match on their own name, scored by length.
	for _, in := range intents {
		if len(in.Patterns) > 0 {
			continue
		}
		name := strings.ToLower(in.Name)
		if name == "" || !strings.Contains(input, name) {
			continue
		}
		if score := len(name); score > bestScore {
			bestScore = score
			bestIntent = in.ID
		}
	}
	if bestIntent != "" {
		return bestIntent
	}

	for _, r := range enhancedRules {
		if r.when(input) {
			return r.intent
		}
	}
	for _, r := range legacyRules {
		if r.when(input) {
			return r.intent
		}
	}

	return FallbackIntent
}
