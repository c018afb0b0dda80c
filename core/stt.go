package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/thoughtcanvas/canvas-core/core/audio"
	"github.com/thoughtcanvas/canvas-core/core/speechtotext"
)

// SpeechEngine is the live speech-to-text collaborator.
type SpeechEngine interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

// speechToText wires the speech engine's callbacks into the transcript
// router and filters its error notices.
type speechToText struct {
	o      *Orchestrator
	client SpeechEngine
}

func (s *speechToText) set(client SpeechEngine) {
	s.client = client
}

func (s *speechToText) isConfigured() bool {
	return s.client != nil
}

func (s *speechToText) start(ctx context.Context, encodingInfo audio.EncodingInfo) error {
	if s.client == nil {
		return fmt.Errorf("no speech engine configured")
	}

	err := s.client.Transcribe(ctx,
		speechtotext.WithFragmentCallback(s.o.router.HandleFragment),
		speechtotext.WithUtteranceEndCallback(s.o.router.FlushPendingCommand),
		speechtotext.WithErrorCallback(s.handleEngineError),
		speechtotext.WithEncodingInfo(encodingInfo),
	)
	if err != nil {
		return fmt.Errorf("failed to start transcription: %w", err)
	}
	return nil
}

// handleEngineError drops the engine's benign stop notices; stopping capture
// tears the connection down and the resulting notice is expected, not an
// error worth surfacing.
func (s *speechToText) handleEngineError(message string) {
	if strings.Contains(message, "stopped") {
		logger.Debug("speech engine stopped", "notice", message)
		return
	}

	logger.Error("speech engine error", "error", message)
	s.o.reportError(message)
}

func (s *speechToText) SendAudio(audioChunk []byte) error {
	if s.client == nil {
		return nil
	}
	return s.client.SendAudio(audioChunk)
}

func (s *speechToText) stop() {
	if s.client == nil {
		return
	}

	if stoppable, ok := s.client.(interface{ StopStream() error }); ok {
		if err := stoppable.StopStream(); err != nil {
			logger.Warn("failed to stop transcription stream", "error", err)
		}
	}
}

func (s *speechToText) Close() error {
	if s.client == nil {
		return nil
	}

	if closer, ok := s.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
