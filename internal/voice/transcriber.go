// Package voice is the speech-to-text boundary. Callers hand it uploaded
// audio bytes and get back text, or an error meaning "transcription
// unavailable"; nothing from the external call escapes past this package.
package voice

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// engine is the audio-capable model surface. Production uses gemini.Generator.
type engine interface {
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}

type Transcriber struct {
	engine engine
	logger *zap.Logger
}

func NewTranscriber(e engine, logger *zap.Logger) *Transcriber {
	return &Transcriber{engine: e, logger: logger}
}

// Transcribe spools the uploaded bytes to a transient file, sends the audio
// to the model and returns the recognized text. The local copy is removed
// when the call completes, whatever the outcome. Every failure is logged
// here and returned; callers treat any error as "no bio from audio".
func (t *Transcriber) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no audio data provided")
	}

	tmp, err := os.CreateTemp("", "upload_*.audio")
	if err != nil {
		t.logger.Error("creating transient audio file", zap.Error(err))
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		t.logger.Error("writing transient audio file", zap.Error(err))
		return "", err
	}
	if err := tmp.Close(); err != nil {
		t.logger.Error("closing transient audio file", zap.Error(err))
		return "", err
	}

	copied, err := os.ReadFile(tmp.Name())
	if err != nil {
		t.logger.Error("reading transient audio file", zap.Error(err))
		return "", err
	}

	text, err := t.engine.Transcribe(ctx, copied, mimeType)
	if err != nil {
		t.logger.Error("transcription failed",
			zap.Int("audio_bytes", len(copied)),
			zap.String("mime_type", mimeType),
			zap.Error(err),
		)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		err := fmt.Errorf("empty transcript")
		t.logger.Error("transcription failed", zap.Error(err))
		return "", err
	}

	t.logger.Info("audio transcribed",
		zap.Int("audio_bytes", len(copied)),
		zap.Int("transcript_length", len(text)),
	)
	return text, nil
}
