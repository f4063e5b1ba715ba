package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"eco-assistant/internal/domain"
)

// Apology strings substituted when recognition fails. The caller always gets
// an answer, never an error.
const (
	TranscriptUnintelligible = "I didn't catch that. Can you try again?"
	TranscriptServiceError   = "Sorry, there was an error with the speech recognition service"
)

// Answer is the outcome of one ask: the rendered text, the generated audio
// file name (empty when synthesis failed), the conversation id and the
// matched intent.
type Answer struct {
	Answer         string
	AudioFile      string
	ConversationID string
	Intent         string
}

// Service wires matcher, renderer, speech bridge and conversation log into
// the ask/transcribe flows.
type Service struct {
	matcher  *Matcher
	renderer *Renderer
	log      ConversationLog
	stt      SpeechToText
	tts      Synthesizer
	logger   *slog.Logger
}

func NewService(
	matcher *Matcher,
	renderer *Renderer,
	log ConversationLog,
	stt SpeechToText,
	tts Synthesizer,
	logger *slog.Logger,
) *Service {
	return &Service{
		matcher:  matcher,
		renderer: renderer,
		log:      log,
		stt:      stt,
		tts:      tts,
		logger:   logger,
	}
}

// Ask answers a text question: match intent, render, synthesize, persist.
// Synthesis failure is soft (no audio file); a failed conversation insert is
// not, since the exchange would be lost.
func (s *Service) Ask(ctx context.Context, text, userID string) (Answer, error) {
	intent := s.matcher.Match(text)
	answer := s.renderer.Render(intent, userID)

	s.logger.Info("answered question", "intent", intent, "user", userID)

	audioFile := ""
	if file, err := s.tts.Synthesize(ctx, answer); err != nil {
		s.logger.Warn("synthesizing answer", "error", err)
	} else {
		audioFile = file
	}

	conv := domain.Conversation{
		ID:               uuid.NewString(),
		UserID:           userID,
		UserMessage:      text,
		AssistantMessage: answer,
		IntentMatched:    intent,
	}
	if err := s.log.SaveConversation(conv); err != nil {
		return Answer{}, fmt.Errorf("saving conversation: %w", err)
	}

	return Answer{
		Answer:         answer,
		AudioFile:      audioFile,
		ConversationID: conv.ID,
		Intent:         intent,
	}, nil
}

// AskAudio transcribes an uploaded recording and answers it. Recognition
// failures degrade to a fixed apology transcript, which is then answered like
// any other text.
func (s *Service) AskAudio(ctx context.Context, upload io.Reader, filename, userID string) (string, Answer, error) {
	transcript, err := s.stt.Transcribe(ctx, upload, filename)
	if err != nil {
		s.logger.Warn("transcribing audio", "error", err)
		transcript = TranscriptServiceError
	} else if strings.TrimSpace(transcript) == "" {
		transcript = TranscriptUnintelligible
	}

	answer, err := s.Ask(ctx, transcript, userID)
	if err != nil {
		return "", Answer{}, err
	}

	return transcript, answer, nil
}
