package session

import (
	"context"
	"errors"
	"testing"
)

type mockSynthesizer struct {
	uri     string
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (m *mockSynthesizer) Synthesize(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.started != nil {
		close(m.started)
	}
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return "", m.err
	}
	return m.uri, nil
}

func TestSpeak_IdleStartsPlaying(t *testing.T) {
	synth := &mockSynthesizer{uri: "data:audio/mp3;base64,AAAA"}
	p := NewPlaybackController(synth)

	uri, started, err := p.Speak(context.Background(), "chapter text", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !started {
		t.Fatal("expected playback to start")
	}
	if uri != "data:audio/mp3;base64,AAAA" {
		t.Fatalf("unexpected uri: %q", uri)
	}
	if p.State() != PlaybackPlaying {
		t.Fatalf("expected playing state, got %s", p.State())
	}
}

func TestSpeak_SecondCallCancelsInsteadOfStacking(t *testing.T) {
	synth := &mockSynthesizer{uri: "data:audio/mp3;base64,AAAA"}
	p := NewPlaybackController(synth)

	if _, started, _ := p.Speak(context.Background(), "text", ""); !started {
		t.Fatal("first speak should start")
	}
	uri, started, err := p.Speak(context.Background(), "text", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if started || uri != "" {
		t.Fatal("second speak should cancel, not start a second stream")
	}
	if p.State() != PlaybackIdle {
		t.Fatalf("expected idle after cancel, got %s", p.State())
	}
	if synth.calls != 1 {
		t.Fatalf("expected one synthesis call, got %d", synth.calls)
	}
}

func TestSpeak_StopDuringLoadingDiscardsResult(t *testing.T) {
	synth := &mockSynthesizer{
		uri:     "data:audio/mp3;base64,AAAA",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := NewPlaybackController(synth)

	type speakResult struct {
		uri     string
		started bool
		err     error
	}
	resultCh := make(chan speakResult, 1)
	go func() {
		uri, started, err := p.Speak(context.Background(), "text", "")
		resultCh <- speakResult{uri, started, err}
	}()

	<-synth.started
	if p.State() != PlaybackLoading {
		t.Fatalf("expected loading state, got %s", p.State())
	}
	p.Stop()
	close(synth.release)

	got := <-resultCh
	if got.err != nil {
		t.Fatalf("expected no error, got %v", got.err)
	}
	if got.started || got.uri != "" {
		t.Fatal("cancelled synthesis result must be discarded")
	}
	if p.State() != PlaybackIdle {
		t.Fatalf("expected idle, got %s", p.State())
	}
}

func TestSpeak_CachedURISkipsSynthesis(t *testing.T) {
	synth := &mockSynthesizer{uri: "data:audio/mp3;base64,FRESH"}
	p := NewPlaybackController(synth)

	uri, started, err := p.Speak(context.Background(), "text", "data:audio/mp3;base64,CACHED")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !started {
		t.Fatal("expected playback to start")
	}
	if uri != "data:audio/mp3;base64,CACHED" {
		t.Fatalf("expected cached uri, got %q", uri)
	}
	if synth.calls != 0 {
		t.Fatalf("expected no synthesis call, got %d", synth.calls)
	}
}

func TestSpeak_SynthesisErrorResetsToIdle(t *testing.T) {
	synth := &mockSynthesizer{err: errors.New("boom")}
	p := NewPlaybackController(synth)

	if _, _, err := p.Speak(context.Background(), "text", ""); err == nil {
		t.Fatal("expected error")
	}
	if p.State() != PlaybackIdle {
		t.Fatalf("expected idle after error, got %s", p.State())
	}
}

func TestDone_ReturnsToIdleOnlyFromPlaying(t *testing.T) {
	synth := &mockSynthesizer{uri: "data:audio/mp3;base64,AAAA"}
	p := NewPlaybackController(synth)

	p.Done()
	if p.State() != PlaybackIdle {
		t.Fatalf("done on idle should stay idle, got %s", p.State())
	}

	if _, started, _ := p.Speak(context.Background(), "text", ""); !started {
		t.Fatal("speak should start")
	}
	p.Done()
	if p.State() != PlaybackIdle {
		t.Fatalf("expected idle after done, got %s", p.State())
	}
}

func TestStop_IsIdempotent(t *testing.T) {
	synth := &mockSynthesizer{uri: "data:audio/mp3;base64,AAAA"}
	p := NewPlaybackController(synth)

	p.Stop()
	p.Stop()
	if p.State() != PlaybackIdle {
		t.Fatalf("expected idle, got %s", p.State())
	}
}
