package app

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// Outcome is the result of processing one frame.
type Outcome struct {
	Event

	// Image is the annotated frame encoded as JPEG. Nil when annotation is off.
	Image []byte
}

// ProcessFrame recognizes the gesture in frame and applies the session's
// de-duplication. A newly announced gesture is recorded, spoken and
// published to subscribers before ProcessFrame returns.
func (a *App) ProcessFrame(frame *gocv.Mat) (*Outcome, error) {
	result, err := a.recognizer.Recognize(frame)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	session := a.Session()
	display, isNew := session.Observe(result.Gesture)

	out := &Outcome{
		Event: Event{
			Gesture:   string(result.Gesture),
			Display:   display,
			IsNew:     isNew,
			Hands:     len(result.Hands),
			SessionID: session.ID(),
			Timestamp: time.Now(),
		},
	}

	if result.Annotated != nil {
		img, err := encodeJPEG(result.Annotated)
		if err != nil {
			log.Printf("Failed to encode annotated frame: %v", err)
		} else {
			out.Image = img
			a.setLatest(img)
		}
	}

	if isNew {
		a.announce(out.Event)
	}

	return out, nil
}

// announce records, speaks and publishes a newly recognized gesture.
func (a *App) announce(ev Event) {
	log.Printf("Gesture: %s", ev.Gesture)

	if a.config.Store != nil {
		err := a.config.Store.Announcements().Create(&store.Announcement{
			SessionID: ev.SessionID,
			Gesture:   ev.Gesture,
			CreatedAt: ev.Timestamp,
		})
		if err != nil {
			log.Printf("Failed to record announcement: %v", err)
		}
	}

	a.speak(ev.Gesture)
	a.publish(ev)
}

func encodeJPEG(mat *gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", *mat)
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	return bytes.Clone(buf.GetBytes()), nil
}

// runPipeline is the detection loop. It reads a frame every camera tick
// while enabled and hands it to ProcessFrame. Errors are logged and the
// loop moves on to the next frame.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = 5
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			if _, err := a.ProcessFrame(frame); err != nil && !errors.Is(err, gesture.ErrInvalidFrame) {
				log.Printf("Error processing frame: %v", err)
			}
			frame.Close()
		}
	}
}
