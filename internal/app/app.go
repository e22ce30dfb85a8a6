// Package app runs the mudra recognition pipeline: capture, recognize,
// de-duplicate and announce.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/speech"
	"github.com/ayusman/mudra/internal/store"
)

// subscriberBuffer is the event backlog kept per subscriber before drops.
const subscriberBuffer = 16

// Config holds configuration options for the application.
type Config struct {
	// Store records sessions and announcements. Optional.
	Store *store.Store

	// Camera overrides the webcam built from CameraConfig.
	Camera       capture.Camera
	CameraConfig capture.Config

	// Detector overrides the MediaPipe detector built from DetectorConfig.
	Detector       detector.Detector
	DetectorConfig detector.Config

	Thresholds gesture.Thresholds

	// Speaker announces new gestures. Nil means silent.
	Speaker      speech.Announcer
	SpeakTimeout time.Duration
}

// Event describes one newly announced gesture.
type Event struct {
	Gesture   string    `json:"gesture"`
	Display   string    `json:"display"`
	IsNew     bool      `json:"is_new"`
	Hands     int       `json:"hands"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// App is the main application that orchestrates recognition and announcement.
type App struct {
	config     Config
	camera     capture.Camera
	recognizer *gesture.Recognizer
	speaker    speech.Announcer

	mu      sync.RWMutex
	session *gesture.Session
	enabled bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int

	frameMu sync.RWMutex
	latest  []byte
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.SpeakTimeout <= 0 {
		config.SpeakTimeout = 10 * time.Second
	}

	cam := config.Camera
	if cam == nil {
		cam = capture.NewCamera(config.CameraConfig)
	}

	det := config.Detector
	if det == nil {
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig); err == nil {
			det = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			det = detector.NewMockDetector()
		}
	}

	speaker := config.Speaker
	if speaker == nil {
		speaker = speech.Nop{}
	}

	a := &App{
		config:     config,
		camera:     cam,
		recognizer: gesture.NewRecognizer(det, gesture.NewClassifier(config.Thresholds)),
		speaker:    speaker,
		session:    gesture.NewSession(),
		enabled:    true,
		subs:       make(map[int]chan Event),
	}
	a.recordSession(a.session)

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.recognizer.SetDetector(d)
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.recognizer.Detector()
}

// Recognizer returns the frame recognizer.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Session returns the current de-duplication session.
func (a *App) Session() *gesture.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// ResetSession ends the current session and starts a fresh one, so the next
// recognized gesture is announced again.
func (a *App) ResetSession() *gesture.Session {
	next := gesture.NewSession()

	a.mu.Lock()
	prev := a.session
	a.session = next
	a.mu.Unlock()

	a.endSession(prev)
	a.recordSession(next)

	log.Printf("Session %s reset to %s", prev.ID(), next.ID())
	return next
}

// Subscribe returns a channel of announcement events and a cancel func.
// Events are dropped for subscribers that fall behind.
func (a *App) Subscribe() (<-chan Event, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan Event, subscriberBuffer)
	a.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			a.subMu.Lock()
			defer a.subMu.Unlock()
			if _, ok := a.subs[id]; ok {
				delete(a.subs, id)
				close(ch)
			}
		})
	}

	return ch, cancel
}

func (a *App) publish(ev Event) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	for _, ch := range a.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// LatestFrame returns the most recent annotated frame as JPEG, or nil.
func (a *App) LatestFrame() []byte {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.latest
}

func (a *App) setLatest(jpeg []byte) {
	if jpeg == nil {
		return
	}
	a.frameMu.Lock()
	a.latest = jpeg
	a.frameMu.Unlock()
}

// Start opens the camera and begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and closes the camera.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Detection pipeline stopped")
}

// IsRunning reports whether the pipeline goroutine is active.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Close stops the pipeline, ends the session and releases the detector.
func (a *App) Close() error {
	a.Stop()
	a.endSession(a.Session())

	a.subMu.Lock()
	for id, ch := range a.subs {
		delete(a.subs, id)
		close(ch)
	}
	a.subMu.Unlock()

	if d := a.Detector(); d != nil {
		return d.Close()
	}
	return nil
}

func (a *App) recordSession(s *gesture.Session) {
	if a.config.Store == nil {
		return
	}
	err := a.config.Store.Sessions().Create(&store.Session{
		ID:        s.ID(),
		StartedAt: s.StartedAt(),
	})
	if err != nil {
		log.Printf("Failed to record session %s: %v", s.ID(), err)
	}
}

func (a *App) endSession(s *gesture.Session) {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Sessions().End(s.ID(), time.Now()); err != nil {
		log.Printf("Failed to end session %s: %v", s.ID(), err)
	}
}

func (a *App) speak(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.SpeakTimeout)
	defer cancel()

	if err := a.speaker.Speak(ctx, text); err != nil {
		log.Printf("Failed to speak %q: %v", text, err)
	}
}
