package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks,
	// ordered with the primary hand first.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// DetectFunc adapts a plain function to the Detector interface.
type DetectFunc func(frame *gocv.Mat) ([]HandLandmarks, error)

// Detect calls f(frame).
func (f DetectFunc) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	return f(frame)
}

// Close is a no-op.
func (f DetectFunc) Close() error {
	return nil
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int `yaml:"max_hands"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `yaml:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`

	// IdleTimeout stops the detector process after this long without frames.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ScriptPath overrides the MediaPipe service script lookup.
	ScriptPath string `yaml:"script_path"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
