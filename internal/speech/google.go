package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the longest text the translate TTS endpoint accepts.
const MaxTextLength = 100

// DefaultEndpoint is the Google Translate text-to-speech endpoint.
const DefaultEndpoint = "https://translate.google.com/translate_tts"

var (
	// ErrTextTooLong is returned for text over MaxTextLength characters.
	ErrTextTooLong = errors.New("text too long for synthesis")

	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("empty text")
)

// GoogleTTS synthesizes MP3 audio with the Google Translate TTS endpoint.
type GoogleTTS struct {
	Endpoint string
	Language string
	Client   *http.Client
}

// NewGoogleTTS creates a GoogleTTS for lang. An empty endpoint uses
// DefaultEndpoint.
func NewGoogleTTS(endpoint, lang string) *GoogleTTS {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if lang == "" {
		lang = "en"
	}
	return &GoogleTTS{
		Endpoint: endpoint,
		Language: lang,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Synthesize implements Synthesizer.
func (g *GoogleTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return nil, fmt.Errorf("%w: %d characters, max %d", ErrTextTooLong, n, MaxTextLength)
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.Language)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("tts response was empty")
	}

	return data, nil
}
