package application

import (
	"context"
	"fmt"
	"io"
	"time"

	"eco-assistant/internal/domain"
)

// IntentSource provides the intents the matcher scores against.
type IntentSource interface {
	IntentPatterns() ([]domain.Intent, error)
}

// RenderStore provides the lookups the renderer fills templates from.
type RenderStore interface {
	IntentByID(id string) (*domain.Intent, error)
	UsageForDay(userID string, day time.Time) (*domain.ElectricityUsage, error)
	UsageForDays(userID string, days ...time.Time) ([]domain.ElectricityUsage, error)
	CommunityStatsForDay(day time.Time) (*domain.CommunityStats, error)
	ImpactForDay(userID string, day time.Time, typ domain.ImpactType) (float64, bool, error)
	RandomActiveTip() (string, bool, error)
	WeeklyCost(userID string, day time.Time) (float64, bool, error)
}

// ConversationLog appends question/answer exchanges.
type ConversationLog interface {
	SaveConversation(c domain.Conversation) error
}

// SpeechToText transcribes an uploaded audio file. The filename carries the
// extension used to decide whether format conversion is needed.
type SpeechToText interface {
	Transcribe(ctx context.Context, upload io.Reader, filename string) (string, error)
}

// Synthesizer renders answer text to an audio file and returns the generated
// file name.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// NoopSTT is used when no speech service is configured.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ io.Reader, _ string) (string, error) {
	return "", fmt.Errorf("speech-to-text not configured: set openai.api_key to enable audio transcription")
}

// NoopSynthesizer is used when no speech service is configured. Callers treat
// the error as "no audio" and still return the answer text.
type NoopSynthesizer struct{}

func (n *NoopSynthesizer) Synthesize(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("text-to-speech not configured: set openai.api_key to enable synthesis")
}
