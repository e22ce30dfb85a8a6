// Package gesture classifies hand landmark sets into a fixed vocabulary of
// signs and tracks which sign was last announced in a session.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Label names a recognized gesture.
type Label string

// Gesture vocabulary.
const (
	Hello    Label = "hello"
	ThankYou Label = "thank you"
	Yes      Label = "yes"
	No       Label = "no"
	Help     Label = "help"
	Please   Label = "please"
	GoodJob  Label = "good job"
	Sorry    Label = "sorry"
	Peace    Label = "peace"
	ThumbsUp Label = "thumbs up"

	// Unknown is returned when no rule matches.
	Unknown Label = "unknown"
)

// Default thresholds, in normalized image units.
const (
	// DefaultLateral is the minimum sideways offset of the index tip from
	// its PIP joint for "no".
	DefaultLateral = 0.1
	// DefaultAlignment is the maximum vertical gap between index and
	// middle tips for "please".
	DefaultAlignment = 0.05
	// DefaultPinch is the maximum horizontal gap between thumb and index
	// tips for "sorry".
	DefaultPinch = 0.05
)

// Thresholds tunes the distance-based rules.
type Thresholds struct {
	Lateral   float64 `yaml:"lateral" json:"lateral"`
	Alignment float64 `yaml:"alignment" json:"alignment"`
	Pinch     float64 `yaml:"pinch" json:"pinch"`
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Lateral:   DefaultLateral,
		Alignment: DefaultAlignment,
		Pinch:     DefaultPinch,
	}
}

// Predicate reports whether a landmark set shows a gesture.
// points always holds detector.NumLandmarks entries.
type Predicate func(points []detector.Point3D, t Thresholds) bool

// Rule pairs a label with its predicate.
type Rule struct {
	Label       Label
	Description string
	Match       Predicate
}

// rules is evaluated in order and the first match wins. Several entries
// overlap or are identical (help/peace, yes/thumbs up), so the order decides
// which label those poses get.
var rules = []Rule{
	{Hello, "index extended, middle bent", func(p []detector.Point3D, _ Thresholds) bool {
		return extended(p, detector.IndexTip, detector.IndexPIP) && bent(p, detector.MiddleTip, detector.MiddlePIP)
	}},
	{ThankYou, "index, middle and ring bent", func(p []detector.Point3D, _ Thresholds) bool {
		return bent(p, detector.IndexTip, detector.IndexPIP) &&
			bent(p, detector.MiddleTip, detector.MiddlePIP) &&
			bent(p, detector.RingTip, detector.RingPIP)
	}},
	{Yes, "thumb tip above thumb IP, index bent", func(p []detector.Point3D, _ Thresholds) bool {
		return extended(p, detector.ThumbTip, detector.ThumbIP) && bent(p, detector.IndexTip, detector.IndexPIP)
	}},
	{No, "index tip shifted sideways, middle bent", func(p []detector.Point3D, t Thresholds) bool {
		return math.Abs(p[detector.IndexTip].X-p[detector.IndexPIP].X) > t.Lateral &&
			bent(p, detector.MiddleTip, detector.MiddlePIP)
	}},
	{Help, "index and middle extended", func(p []detector.Point3D, _ Thresholds) bool {
		return extended(p, detector.IndexTip, detector.IndexPIP) && extended(p, detector.MiddleTip, detector.MiddlePIP)
	}},
	{Please, "thumb left of index, index and middle tips level", func(p []detector.Point3D, t Thresholds) bool {
		return p[detector.ThumbTip].X < p[detector.IndexTip].X &&
			math.Abs(p[detector.IndexTip].Y-p[detector.MiddleTip].Y) < t.Alignment
	}},
	{GoodJob, "thumb tip above thumb MCP, index bent", func(p []detector.Point3D, _ Thresholds) bool {
		return extended(p, detector.ThumbTip, detector.ThumbMCP) && bent(p, detector.IndexTip, detector.IndexPIP)
	}},
	{Sorry, "thumb and index tips together above the wrist", func(p []detector.Point3D, t Thresholds) bool {
		return math.Abs(p[detector.ThumbTip].X-p[detector.IndexTip].X) < t.Pinch &&
			p[detector.ThumbTip].Y < p[detector.Wrist].Y
	}},
	{Peace, "index and middle extended", func(p []detector.Point3D, _ Thresholds) bool {
		return extended(p, detector.IndexTip, detector.IndexPIP) && extended(p, detector.MiddleTip, detector.MiddlePIP)
	}},
	{ThumbsUp, "thumb tip above thumb IP, index bent", func(p []detector.Point3D, _ Thresholds) bool {
		return extended(p, detector.ThumbTip, detector.ThumbIP) && bent(p, detector.IndexTip, detector.IndexPIP)
	}},
}

// extended reports whether tip sits above joint. Image Y grows downward.
func extended(p []detector.Point3D, tip, joint int) bool {
	return p[tip].Y < p[joint].Y
}

// bent reports whether tip sits below joint. A tie is neither bent nor extended.
func bent(p []detector.Point3D, tip, joint int) bool {
	return p[tip].Y > p[joint].Y
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classifier maps landmark sets to labels. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier. Zero thresholds fall back to defaults.
func NewClassifier(t Thresholds) *Classifier {
	def := DefaultThresholds()
	if t.Lateral <= 0 {
		t.Lateral = def.Lateral
	}
	if t.Alignment <= 0 {
		t.Alignment = def.Alignment
	}
	if t.Pinch <= 0 {
		t.Pinch = def.Pinch
	}
	return &Classifier{thresholds: t}
}

// Thresholds returns the thresholds in effect.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify returns the label of the first matching rule, or Unknown.
// It fails with detector.ErrInvalidLandmarkSet unless hand holds exactly
// 21 points.
func (c *Classifier) Classify(hand *detector.HandLandmarks) (Label, error) {
	if err := hand.Validate(); err != nil {
		return Unknown, err
	}

	for _, r := range rules {
		if r.Match(hand.Points, c.thresholds) {
			return r.Label, nil
		}
	}

	return Unknown, nil
}
