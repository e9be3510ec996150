package speech

import "context"

// Synthesizer converts chapter text into a playable audio payload encoded
// as a data:audio/mp3;base64 URI.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}
