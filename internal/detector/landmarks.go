// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

import (
	"errors"
	"fmt"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInvalidLandmarkSet is returned when a landmark set does not hold exactly
// NumLandmarks points.
var ErrInvalidLandmarkSet = errors.New("invalid landmark set")

// Point3D is a landmark position. X and Y are normalized image coordinates
// in [0,1] with Y growing downward; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents one detected hand.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// NewHandLandmarks builds a validated landmark set from points.
func NewHandLandmarks(points []Point3D, handedness string, score float64) (HandLandmarks, error) {
	h := HandLandmarks{
		Points:     points,
		Handedness: handedness,
		Score:      score,
	}
	if err := h.Validate(); err != nil {
		return HandLandmarks{}, err
	}
	return h, nil
}

// Validate reports ErrInvalidLandmarkSet unless exactly NumLandmarks points are present.
func (h *HandLandmarks) Validate() error {
	if h == nil {
		return fmt.Errorf("%w: no points", ErrInvalidLandmarkSet)
	}
	if len(h.Points) != NumLandmarks {
		return fmt.Errorf("%w: got %d points, want %d", ErrInvalidLandmarkSet, len(h.Points), NumLandmarks)
	}
	return nil
}

// Clone returns a deep copy of the landmark set.
func (h HandLandmarks) Clone() HandLandmarks {
	points := make([]Point3D, len(h.Points))
	copy(points, h.Points)
	h.Points = points
	return h
}
