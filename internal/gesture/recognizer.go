package gesture

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/overlay"
)

// ErrInvalidFrame is returned when Recognize is given a nil or empty frame.
var ErrInvalidFrame = errors.New("invalid frame")

// Result is the outcome of recognizing one frame.
type Result struct {
	Gesture Label
	Hands   []detector.HandLandmarks

	// Invalid holds the classification error for the primary hand, if any.
	// Gesture is Unknown in that case.
	Invalid error

	// Annotated is a copy of the input frame with hands and label drawn.
	// Nil when annotation is disabled. Release it with Close.
	Annotated *gocv.Mat
}

// Close releases the annotated frame.
func (r *Result) Close() error {
	if r == nil || r.Annotated == nil {
		return nil
	}
	err := r.Annotated.Close()
	r.Annotated = nil
	return err
}

// Recognizer runs a hand detector over frames and classifies the first hand.
type Recognizer struct {
	mu         sync.RWMutex
	detector   detector.Detector
	classifier *Classifier
	annotate   bool
}

// NewRecognizer creates a Recognizer that annotates frames.
func NewRecognizer(d detector.Detector, c *Classifier) *Recognizer {
	if c == nil {
		c = NewClassifier(DefaultThresholds())
	}
	return &Recognizer{
		detector:   d,
		classifier: c,
		annotate:   true,
	}
}

// SetAnnotate enables or disables drawing on result frames.
func (r *Recognizer) SetAnnotate(annotate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.annotate = annotate
}

// SetDetector swaps the hand detector.
func (r *Recognizer) SetDetector(d detector.Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detector = d
}

// Detector returns the current hand detector.
func (r *Recognizer) Detector() detector.Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.detector
}

// Classifier returns the classifier in use.
func (r *Recognizer) Classifier() *Classifier {
	return r.classifier
}

// Recognize detects hands in frame and classifies the first one.
//
// Frames without hands yield Unknown. A malformed primary hand also yields
// Unknown, with the reason in Result.Invalid. Detector failures are
// returned as errors.
func (r *Recognizer) Recognize(frame *gocv.Mat) (*Result, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrInvalidFrame
	}

	r.mu.RLock()
	d := r.detector
	annotate := r.annotate
	r.mu.RUnlock()

	if d == nil {
		return nil, fmt.Errorf("recognize: no detector configured")
	}

	hands, err := d.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}

	result := &Result{
		Gesture: Unknown,
		Hands:   hands,
	}

	if len(hands) > 0 {
		label, err := r.classifier.Classify(&hands[0])
		if err != nil {
			log.Printf("Skipping hand: %v", err)
			result.Invalid = err
		}
		result.Gesture = label
	}

	if annotate {
		annotated := frame.Clone()
		overlay.Draw(&annotated, hands, string(result.Gesture))
		result.Annotated = &annotated
	}

	return result, nil
}
