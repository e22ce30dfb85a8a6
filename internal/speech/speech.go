// Package speech turns announced gesture labels into audio and plays it.
package speech

import (
	"context"
	"fmt"
	"log"
)

// Synthesizer converts text to encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Player plays an audio file.
type Player interface {
	Play(ctx context.Context, path string) error
}

// Announcer speaks text aloud.
type Announcer interface {
	Speak(ctx context.Context, text string) error
}

// Nop is an Announcer that does nothing.
type Nop struct{}

// Speak implements Announcer.
func (Nop) Speak(context.Context, string) error { return nil }

// Speaker plays cached audio for text, synthesizing it on first use.
type Speaker struct {
	synth  Synthesizer
	cache  *Cache
	player Player
}

// NewSpeaker creates a Speaker.
func NewSpeaker(synth Synthesizer, cache *Cache, player Player) *Speaker {
	return &Speaker{
		synth:  synth,
		cache:  cache,
		player: player,
	}
}

// Speak plays text, synthesizing and caching it if needed.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	path, ok := s.cache.Lookup(text)
	if !ok {
		data, err := s.synth.Synthesize(ctx, text)
		if err != nil {
			return fmt.Errorf("synthesize %q: %w", text, err)
		}

		path, err = s.cache.Store(text, data)
		if err != nil {
			return fmt.Errorf("cache %q: %w", text, err)
		}
	}

	if err := s.cache.MarkPlayed(text); err != nil {
		log.Printf("Failed to record playback of %q: %v", text, err)
	}

	return s.player.Play(ctx, path)
}
