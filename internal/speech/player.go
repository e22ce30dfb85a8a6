package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// ErrInterrupted is returned by Play when newer playback or Stop cut it short.
var ErrInterrupted = errors.New("playback interrupted")

// CommandPlayer plays audio by running an external program with the file
// path as its last argument. Starting playback stops any previous one.
type CommandPlayer struct {
	argv    []string
	timeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

// NewCommandPlayer creates a CommandPlayer for argv with a playback timeout.
func NewCommandPlayer(argv []string, timeout time.Duration) (*CommandPlayer, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("player command is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CommandPlayer{
		argv:    append([]string(nil), argv...),
		timeout: timeout,
	}, nil
}

// Play runs the player for path and waits for it to finish.
func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	p.cancel = cancel
	p.seq++
	id := p.seq
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.seq == id {
			p.cancel = nil
		}
		p.mu.Unlock()
		cancel()
	}()

	args := append(append([]string(nil), p.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, p.argv[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("playback timeout after %s", p.timeout)
	case errors.Is(ctx.Err(), context.Canceled):
		return ErrInterrupted
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("player failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("player failed: %w", err)
	}

	return nil
}

// Stop interrupts the current playback, if any.
func (p *CommandPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
