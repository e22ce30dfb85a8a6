package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/fixtures"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/speech"
	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func newTestApp(t *testing.T, s *store.Store) (*app.App, *detector.MockDetector) {
	t.Helper()

	det := detector.NewMockDetector()
	a := app.New(app.Config{
		Store:    s,
		Camera:   capture.NewMockCamera(nil, false),
		Detector: det,
		Speaker:  speech.Nop{},
	})
	t.Cleanup(func() { a.Close() })

	return a, det
}

func jpegBody(t *testing.T) []byte {
	t.Helper()

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		t.Fatalf("IMEncode() error = %v", err)
	}
	defer buf.Close()

	return bytes.Clone(buf.GetBytes())
}

func TestGestureHandler_List(t *testing.T) {
	s := newTestStore(t)
	a, det := newTestApp(t, s)
	det.SetHands([]detector.HandLandmarks{fixtures.MustLoad("hello").Hand})

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()
	if _, err := a.ProcessFrame(&frame); err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}

	handler := NewGestureHandler(nil, s)

	req := httptest.NewRequest(http.MethodGet, "/api/gestures", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listGesturesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Gestures) != len(gesture.Rules()) {
		t.Fatalf("expected %d gestures, got %d", len(gesture.Rules()), len(response.Gestures))
	}
	first := response.Gestures[0]
	if first.Label != "hello" || first.Order != 1 || first.Announced != 1 {
		t.Errorf("unexpected first rule %+v", first)
	}
	if response.Thresholds != gesture.DefaultThresholds() {
		t.Errorf("thresholds = %+v, want defaults", response.Thresholds)
	}
}

func TestGestureHandler_MethodNotAllowed(t *testing.T) {
	handler := NewGestureHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/gestures", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestRecognizeHandler(t *testing.T) {
	s := newTestStore(t)
	a, det := newTestApp(t, s)
	det.SetHands([]detector.HandLandmarks{fixtures.MustLoad("thank you").Hand})
	handler := NewRecognizeHandler(a)
	body := jpegBody(t)

	post := func() recognizeResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/recognize?mirror=1", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		var resp recognizeResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	first := post()
	if first.Gesture != "thank you" || !first.IsNew || first.Hands != 1 {
		t.Errorf("first response = %+v", first)
	}
	img, err := base64.StdEncoding.DecodeString(first.Image)
	if err != nil || len(img) < 2 || img[0] != 0xFF || img[1] != 0xD8 {
		t.Errorf("image is not a base64 JPEG (err=%v)", err)
	}

	second := post()
	if second.IsNew {
		t.Error("repeat should not be new")
	}
	if second.Display != "thank you" {
		t.Errorf("Display = %q, want thank you", second.Display)
	}
}

func TestRecognizeHandler_BadRequests(t *testing.T) {
	a, _ := newTestApp(t, nil)
	handler := NewRecognizeHandler(a)

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"empty body", http.MethodPost, "", http.StatusBadRequest},
		{"not an image", http.MethodPost, "definitely not a jpeg", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/recognize", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSessionHandler(t *testing.T) {
	a, det := newTestApp(t, nil)
	handler := NewSessionHandler(a)

	do := func(method, body string) sessionResponse {
		t.Helper()
		req := httptest.NewRequest(method, "/api/session", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", method, http.StatusOK, rec.Code)
		}
		var resp sessionResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	initial := do(http.MethodGet, "")
	if initial.Display != gesture.NoGesture || !initial.Enabled {
		t.Errorf("initial session = %+v", initial)
	}

	det.SetHands([]detector.HandLandmarks{fixtures.MustLoad("good job").Hand})
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()
	a.ProcessFrame(&frame)

	if got := do(http.MethodGet, ""); got.Last != "good job" {
		t.Errorf("Last = %q, want good job", got.Last)
	}

	reset := do(http.MethodDelete, "")
	if reset.ID == initial.ID || reset.Last != "" {
		t.Errorf("reset session = %+v", reset)
	}

	disabled := do(http.MethodPatch, `{"enabled": false}`)
	if disabled.Enabled || a.IsEnabled() {
		t.Error("expected detection to be disabled")
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/session", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("PATCH without enabled: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAnnouncementHandler(t *testing.T) {
	s := newTestStore(t)
	a, det := newTestApp(t, s)

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()
	for _, name := range []string{"hello", "yes", "no"} {
		det.SetHands([]detector.HandLandmarks{fixtures.MustLoad(name).Hand})
		if _, err := a.ProcessFrame(&frame); err != nil {
			t.Fatalf("ProcessFrame(%s) error = %v", name, err)
		}
	}

	handler := NewAnnouncementHandler(s)

	t.Run("recent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/announcements?limit=2", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var resp listAnnouncementsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Announcements) != 2 || resp.Announcements[0].Gesture != "no" {
			t.Errorf("unexpected announcements %+v", resp.Announcements)
		}
	})

	t.Run("by session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/announcements?session_id="+a.Session().ID(), nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var resp listAnnouncementsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Announcements) != 3 || resp.Announcements[0].Gesture != "hello" {
			t.Errorf("unexpected announcements %+v", resp.Announcements)
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/announcements?limit=-1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}
