package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "player.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestCommandPlayer_Play(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	out := filepath.Join(t.TempDir(), "played")
	script := writeScript(t, `echo "$1" > "`+out+`"`+"\n")

	p, err := NewCommandPlayer([]string{script}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewCommandPlayer() error = %v", err)
	}

	if err := p.Play(context.Background(), "/tmp/hello.mp3"); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("player did not run: %v", err)
	}
	if strings.TrimSpace(string(data)) != "/tmp/hello.mp3" {
		t.Errorf("player got %q, want /tmp/hello.mp3", data)
	}
}

func TestCommandPlayer_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	script := writeScript(t, "echo 'cannot decode' >&2\nexit 3\n")
	p, _ := NewCommandPlayer([]string{script}, 5*time.Second)

	err := p.Play(context.Background(), "x.mp3")
	if err == nil || !strings.Contains(err.Error(), "cannot decode") {
		t.Errorf("Play() error = %v, want stderr in message", err)
	}
}

func TestCommandPlayer_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	p, _ := NewCommandPlayer([]string{"sleep"}, 100*time.Millisecond)

	start := time.Now()
	err := p.Play(context.Background(), "5")
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("Play() error = %v, want timeout", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("timeout did not stop playback")
	}
}

func TestCommandPlayer_NewPlaybackStopsPrevious(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	p, _ := NewCommandPlayer([]string{"sleep"}, 10*time.Second)

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- p.Play(context.Background(), "5")
	}()

	// Wait until the first playback has registered itself.
	deadline := time.Now().Add(2 * time.Second)
	for {
		p.mu.Lock()
		started := p.cancel != nil
		p.mu.Unlock()
		if started || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := p.Play(context.Background(), "0"); err != nil {
		t.Fatalf("second Play() error = %v", err)
	}

	select {
	case err := <-firstErr:
		if !errors.Is(err, ErrInterrupted) {
			t.Errorf("first Play() error = %v, want ErrInterrupted", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("first playback was not stopped")
	}
}

func TestNewCommandPlayer_Empty(t *testing.T) {
	if _, err := NewCommandPlayer(nil, time.Second); err == nil {
		t.Error("expected error for empty argv")
	}
}
