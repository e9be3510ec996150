package session

import (
	"context"
	"sync"

	"github.com/foxseedlab/monogatarun/internal/speech"
)

type PlaybackState string

const (
	PlaybackIdle    PlaybackState = "idle"
	PlaybackLoading PlaybackState = "loading"
	PlaybackPlaying PlaybackState = "playing"
)

// PlaybackController is a single-flight toggle over one narration channel.
// Speak while loading or playing cancels instead of starting a second
// stream; a synthesis result that arrives after cancellation is discarded.
type PlaybackController struct {
	synth speech.Synthesizer

	mu    sync.Mutex
	state PlaybackState
	seq   uint64
}

func NewPlaybackController(synth speech.Synthesizer) *PlaybackController {
	return &PlaybackController{synth: synth, state: PlaybackIdle}
}

// Speak synthesizes text and transitions Idle -> Loading -> Playing,
// returning the audio data URI. If a narration is already loading or
// playing it stops that one instead and reports started=false. A
// non-empty cachedURI skips the synthesis call.
func (p *PlaybackController) Speak(ctx context.Context, text, cachedURI string) (string, bool, error) {
	p.mu.Lock()
	if p.state != PlaybackIdle {
		p.seq++
		p.state = PlaybackIdle
		p.mu.Unlock()
		return "", false, nil
	}
	p.seq++
	mySeq := p.seq
	p.state = PlaybackLoading
	p.mu.Unlock()

	uri := cachedURI
	var err error
	if uri == "" {
		uri, err = p.synth.Synthesize(ctx, text)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq != mySeq {
		// Cancelled while the request was in flight; drop the result.
		return "", false, nil
	}
	if err != nil {
		p.state = PlaybackIdle
		return "", false, err
	}
	p.state = PlaybackPlaying
	return uri, true, nil
}

// Stop idempotently returns the controller to Idle, invalidating any
// in-flight synthesis.
func (p *PlaybackController) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.state = PlaybackIdle
}

// Done marks natural end of playback reported by the client.
func (p *PlaybackController) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == PlaybackPlaying {
		p.state = PlaybackIdle
	}
}

func (p *PlaybackController) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
