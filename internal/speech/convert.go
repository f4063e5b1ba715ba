package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/go-audio/wav"
)

// isWAV reports whether the file decodes as a RIFF/WAVE stream, regardless
// of its extension.
func isWAV(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	return wav.NewDecoder(f).IsValidFile()
}

// convertToWAV shells out to ffmpeg for the canonical recognition format:
// 16-bit PCM, 16 kHz, mono.
func convertToWAV(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", src,
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		dst,
		"-y",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w (%s)", err, lastLine(stderr.Bytes()))
	}

	return nil
}

func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
