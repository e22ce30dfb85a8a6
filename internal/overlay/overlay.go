// Package overlay draws hand skeletons and gesture labels onto video frames.
package overlay

import (
	"hash/fnv"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// Connections lists the landmark pairs joined when drawing a hand,
// matching MediaPipe's HAND_CONNECTIONS.
var Connections = [][2]int{
	{detector.Wrist, detector.ThumbCMC},
	{detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP},
	{detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP},
	{detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP},
	{detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP},
	{detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP},
	{detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP},
	{detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP},
	{detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// Drawing defaults.
var (
	LandmarkColor   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ConnectionColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	NeutralColor    = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

const (
	thickness      = 2
	landmarkRadius = 3
	fontScale      = 1.0
)

// LabelOrigin is where the label text baseline starts.
var LabelOrigin = image.Point{X: 10, Y: 50}

// Draw renders every hand and the label onto frame in place.
func Draw(frame *gocv.Mat, hands []detector.HandLandmarks, label string) {
	if frame == nil || frame.Empty() {
		return
	}

	for i := range hands {
		DrawHand(frame, &hands[i])
	}

	DrawLabel(frame, label)
}

// DrawHand draws one hand's connections and landmark points.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	if hand == nil {
		return
	}

	width, height := frame.Cols(), frame.Rows()
	n := len(hand.Points)

	for _, c := range Connections {
		if c[0] >= n || c[1] >= n {
			continue
		}
		gocv.Line(frame,
			ToPixel(hand.Points[c[0]], width, height),
			ToPixel(hand.Points[c[1]], width, height),
			ConnectionColor, thickness)
	}

	for _, p := range hand.Points {
		gocv.Circle(frame, ToPixel(p, width, height), landmarkRadius, LandmarkColor, thickness)
	}
}

// DrawLabel writes label at LabelOrigin.
func DrawLabel(frame *gocv.Mat, label string) {
	if label == "" {
		return
	}
	gocv.PutText(frame, label, LabelOrigin, gocv.FontHersheySimplex, fontScale, LabelColor(label), thickness)
}

// ToPixel converts a normalized landmark to pixel coordinates, clamped to the frame.
func ToPixel(p detector.Point3D, width, height int) image.Point {
	x := int(p.X * float64(width))
	y := int(p.Y * float64(height))
	return image.Point{X: clamp(x, 0, width-1), Y: clamp(y, 0, height-1)}
}

// LabelColor returns a stable colour for a label. "unknown" and the
// placeholder text are drawn in grey.
func LabelColor(label string) color.RGBA {
	switch label {
	case "", "unknown", "No Gesture":
		return NeutralColor
	}

	h := fnv.New32a()
	h.Write([]byte(label))
	hue := float64(h.Sum32()%360)

	r, g, b := colorful.Hsv(hue, 0.75, 0.95).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
