package speech

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ayusman/mudra/internal/store"
)

// ClipIndex records cached audio files. *store.AudioRepository satisfies it.
type ClipIndex interface {
	Get(text string) (*store.AudioClip, error)
	Put(c *store.AudioClip) error
	MarkPlayed(text string) error
}

// Cache keeps synthesized audio on disk, one file per text.
type Cache struct {
	dir   string
	index ClipIndex
}

// NewCache creates a Cache in dir. index may be nil.
func NewCache(dir string, index ClipIndex) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audio cache dir: %w", err)
	}
	return &Cache{dir: dir, index: index}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the file that holds audio for text.
func (c *Cache) Path(text string) string {
	return filepath.Join(c.dir, FileName(text))
}

// Lookup returns the cached file for text if it exists on disk.
func (c *Cache) Lookup(text string) (string, bool) {
	path := c.Path(text)
	if c.index != nil {
		clip, err := c.index.Get(text)
		if err == nil {
			path = clip.Path
		} else if !errors.Is(err, store.ErrNotFound) {
			return "", false
		}
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return "", false
	}
	return path, true
}

// Store writes data for text and indexes it.
func (c *Cache) Store(text string, data []byte) (string, error) {
	path := c.Path(text)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}

	if c.index != nil {
		clip := &store.AudioClip{Text: text, Path: path, SizeBytes: int64(len(data))}
		if err := c.index.Put(clip); err != nil {
			return "", fmt.Errorf("index audio clip: %w", err)
		}
	}

	return path, nil
}

// MarkPlayed bumps the play count for text in the index.
func (c *Cache) MarkPlayed(text string) error {
	if c.index == nil {
		return nil
	}
	err := c.index.MarkPlayed(text)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// FileName maps text to a stable MP3 file name: "thank you" -> "thank-you.mp3".
func FileName(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		h := fnv.New32a()
		h.Write([]byte(text))
		slug = fmt.Sprintf("clip-%08x", h.Sum32())
	}

	return slug + ".mp3"
}
