// Package speech bridges answer text and uploaded audio to the OpenAI
// speech APIs, converting uploads to a recognizable waveform format first.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

type Client struct {
	api      *openai.Client
	audioDir string
	voice    openai.SpeechVoice
	language string
	logger   *slog.Logger
}

func NewClient(apiKey, audioDir, voice, language string, logger *slog.Logger) *Client {
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &Client{
		api:      openai.NewClient(apiKey),
		audioDir: audioDir,
		voice:    openai.SpeechVoice(voice),
		language: language,
		logger:   logger,
	}
}

// Synthesize renders text to an mp3 in the audio directory and returns the
// generated file name. Generated answers are kept; only transcription
// scratch files are cleaned up.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	if err := os.MkdirAll(c.audioDir, 0755); err != nil {
		return "", fmt.Errorf("creating audio directory: %w", err)
	}

	filename := fmt.Sprintf("answer_%s.mp3", uuid.NewString())
	out, err := os.Create(filepath.Join(c.audioDir, filename))
	if err != nil {
		return "", fmt.Errorf("creating audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("writing audio file: %w", err)
	}

	return filename, nil
}

// Transcribe writes the upload to a scratch file, converts it to 16 kHz mono
// WAV when it is not one already, and recognizes it. Scratch files are
// removed on every path.
func (c *Client) Transcribe(ctx context.Context, upload io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".wav"
	}

	scratch := filepath.Join(os.TempDir(), "upload_"+uuid.NewString()+ext)
	if err := saveUpload(scratch, upload); err != nil {
		return "", err
	}
	defer os.Remove(scratch)

	wavPath := scratch
	if !isWAV(scratch) {
		converted := filepath.Join(os.TempDir(), "upload_"+uuid.NewString()+".wav")
		if err := convertToWAV(ctx, scratch, converted); err != nil {
			// Without ffmpeg the original upload is our best shot.
			c.logger.Warn("audio conversion failed, using original upload", "error", err)
		} else {
			wavPath = converted
			defer os.Remove(converted)
		}
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: wavPath,
		Language: c.language,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}

	return resp.Text, nil
}

func saveUpload(path string, upload io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scratch file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, upload); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing scratch file: %w", err)
	}

	return nil
}
