package speech

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

type fakeSynth struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio:" + text), nil
}

type fakePlayer struct {
	played []string
}

func (f *fakePlayer) Play(_ context.Context, path string) error {
	f.played = append(f.played, path)
	return nil
}

func TestSpeaker_UsesCache(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "audio"), nil)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	synth := &fakeSynth{}
	player := &fakePlayer{}
	s := NewSpeaker(synth, cache, player)

	for i := 0; i < 2; i++ {
		if err := s.Speak(context.Background(), "hello"); err != nil {
			t.Fatalf("Speak() error = %v", err)
		}
	}

	if len(synth.calls) != 1 {
		t.Errorf("synthesizer called %d times, want 1", len(synth.calls))
	}
	if len(player.played) != 2 {
		t.Fatalf("player called %d times, want 2", len(player.played))
	}
	if player.played[0] != cache.Path("hello") || player.played[1] != cache.Path("hello") {
		t.Errorf("unexpected played paths: %v", player.played)
	}
}

func TestSpeaker_SynthesisError(t *testing.T) {
	cache, _ := NewCache(t.TempDir(), nil)
	boom := errors.New("offline")
	player := &fakePlayer{}
	s := NewSpeaker(&fakeSynth{err: boom}, cache, player)

	if err := s.Speak(context.Background(), "yes"); !errors.Is(err, boom) {
		t.Errorf("Speak() error = %v, want %v", err, boom)
	}
	if len(player.played) != 0 {
		t.Error("nothing should play when synthesis fails")
	}
}

func TestNop(t *testing.T) {
	var a Announcer = Nop{}
	if err := a.Speak(context.Background(), "hello"); err != nil {
		t.Errorf("Nop.Speak() error = %v", err)
	}
}
