package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogleTTS_Synthesize(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"ie":     q.Get("ie"),
			"client": q.Get("client"),
			"tl":     q.Get("tl"),
			"q":      q.Get("q"),
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-fake-mp3"))
	}))
	defer srv.Close()

	tts := NewGoogleTTS(srv.URL, "en")
	data, err := tts.Synthesize(context.Background(), "thank you")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(data) != "ID3-fake-mp3" {
		t.Errorf("unexpected audio %q", data)
	}

	want := map[string]string{"ie": "UTF-8", "client": "tw-ob", "tl": "en", "q": "thank you"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestGoogleTTS_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "empty" {
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tts := NewGoogleTTS(srv.URL, "en")

	t.Run("too long", func(t *testing.T) {
		_, err := tts.Synthesize(context.Background(), strings.Repeat("a", MaxTextLength+1))
		if !errors.Is(err, ErrTextTooLong) {
			t.Errorf("error = %v, want ErrTextTooLong", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if _, err := tts.Synthesize(context.Background(), ""); !errors.Is(err, ErrEmptyText) {
			t.Errorf("error = %v, want ErrEmptyText", err)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := tts.Synthesize(context.Background(), "hello")
		if err == nil || !strings.Contains(err.Error(), "429") {
			t.Errorf("error = %v, want status 429", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		if _, err := tts.Synthesize(context.Background(), "empty"); err == nil {
			t.Error("expected error for empty response")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := tts.Synthesize(ctx, "hello"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestNewGoogleTTS_Defaults(t *testing.T) {
	tts := NewGoogleTTS("", "")
	if tts.Endpoint != DefaultEndpoint || tts.Language != "en" {
		t.Errorf("unexpected defaults: %+v", tts)
	}
}
