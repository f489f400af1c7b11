// Package recognizer defines the speech-recognition contract used by the
// evaluation pipeline.
package recognizer

import "context"

// Recognizer transcribes mono float32 audio samples to text.
//
// Implementations run one full utterance per call; streaming is out of scope
// for evaluation runs. hint is an optional initial prompt biasing the decoder
// toward expected vocabulary and may be empty.
type Recognizer interface {
	Transcribe(ctx context.Context, samples []float32, hint string) (string, error)
}
