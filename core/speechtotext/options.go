package speechtotext

import "github.com/thoughtcanvas/canvas-core/core/audio"

type TranscriptionOptions struct {
	// FragmentCallback receives every transcript fragment, interim or
	// finalized.
	FragmentCallback func(text string, isFinal bool)
	// UtteranceEndCallback fires when the engine decides the speaker is done.
	UtteranceEndCallback func()
	// ErrorCallback receives engine error notices as plain strings, including
	// benign capture-stop notices.
	ErrorCallback func(message string)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithFragmentCallback(callback func(text string, isFinal bool)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.FragmentCallback = callback
	}
}

func WithUtteranceEndCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.UtteranceEndCallback = callback
	}
}

func WithErrorCallback(callback func(message string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
