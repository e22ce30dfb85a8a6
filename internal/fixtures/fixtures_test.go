package fixtures

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "hello")
	assert.Contains(t, names, "thank_you")
	assert.Contains(t, names, "unknown")
	assert.IsNonDecreasing(t, names)
}

func TestLoad(t *testing.T) {
	s, err := Load("thank you")
	require.NoError(t, err)
	assert.Equal(t, "thank you", s.Label)
	assert.Len(t, s.Hand.Points, detector.NumLandmarks)
	assert.Equal(t, "Right", s.Hand.Handedness)

	_, err = Load("missing")
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"label":"x","points":[{"x":0,"y":0,"z":0}]}`))
	assert.True(t, errors.Is(err, detector.ErrInvalidLandmarkSet), "got %v", err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestAll_ClassifyAsLabelled(t *testing.T) {
	samples, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	c := gesture.NewClassifier(gesture.DefaultThresholds())
	for _, s := range samples {
		t.Run(s.Label, func(t *testing.T) {
			got, err := c.Classify(&s.Hand)
			require.NoError(t, err)
			assert.Equal(t, gesture.Label(s.Label), got)
		})
	}
}
