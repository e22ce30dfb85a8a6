// Package fixtures embeds sample landmark sets, one per reachable gesture.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

//go:embed landmarks/*.json
var landmarksFS embed.FS

// Sample is a labelled landmark set.
type Sample struct {
	Label string                 `json:"label"`
	Hand  detector.HandLandmarks `json:"-"`
}

// UnmarshalJSON reads the flat {"label", "handedness", "score", "points"} form.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label string `json:"label"`
		detector.HandLandmarks
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Label = raw.Label
	s.Hand = raw.HandLandmarks
	return nil
}

// Parse decodes a sample and validates its landmark set.
func Parse(data []byte) (Sample, error) {
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return Sample{}, fmt.Errorf("decode landmarks: %w", err)
	}
	if err := s.Hand.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// Names lists the embedded samples, e.g. "hello", "thank_you".
func Names() []string {
	entries, err := fs.ReadDir(landmarksFS, "landmarks")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Load returns the embedded sample called name. Spaces map to underscores,
// so "thank you" and "thank_you" are the same sample.
func Load(name string) (Sample, error) {
	file := strings.ReplaceAll(name, " ", "_") + ".json"
	data, err := landmarksFS.ReadFile(path.Join("landmarks", file))
	if err != nil {
		return Sample{}, fmt.Errorf("no fixture %q: %w", name, err)
	}
	return Parse(data)
}

// MustLoad is Load for tests and presets; it panics on error.
func MustLoad(name string) Sample {
	s, err := Load(name)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns every embedded sample in name order.
func All() ([]Sample, error) {
	var out []Sample
	for _, name := range Names() {
		s, err := Load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
