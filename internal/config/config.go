// Package config loads mudra settings from a YAML file layered over defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// DirName is the data directory created under the user's home.
const DirName = ".mudra"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the top-level mudra.yml document.
type Config struct {
	DataDir    string             `yaml:"data_dir"`
	Server     ServerConfig       `yaml:"server"`
	Camera     CameraConfig       `yaml:"camera"`
	Detector   detector.Config    `yaml:"detector"`
	Classifier gesture.Thresholds `yaml:"classifier"`
	Speech     SpeechConfig       `yaml:"speech"`
	Store      StoreConfig        `yaml:"store"`
	Tray       TrayConfig         `yaml:"tray"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir,omitempty"`
}

// CameraConfig selects and shapes the capture device.
type CameraConfig struct {
	Device int  `yaml:"device"`
	FPS    int  `yaml:"fps"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Mirror bool `yaml:"mirror"`
}

// SpeechConfig controls the spoken announcement of new gestures.
type SpeechConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Language string        `yaml:"language"`
	Endpoint string        `yaml:"endpoint"`
	Player   []string      `yaml:"player"` // argv; the audio file path is appended
	Timeout  time.Duration `yaml:"timeout"`
	CacheDir string        `yaml:"cache_dir,omitempty"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// TrayConfig toggles the system tray icon.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration rooted at ~/.mudra.
func Default() *Config {
	dataDir := DirName
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, DirName)
	}

	return &Config{
		DataDir: dataDir,
		Server: ServerConfig{
			Addr: ":8080",
		},
		Camera: CameraConfig{
			Device: 0,
			FPS:    5,
			Width:  640,
			Height: 480,
			Mirror: true,
		},
		Detector:   detector.DefaultConfig(),
		Classifier: gesture.DefaultThresholds(),
		Speech: SpeechConfig{
			Enabled:  true,
			Language: "en",
			Endpoint: "https://translate.google.com/translate_tts",
			Player:   defaultPlayer(),
			Timeout:  10 * time.Second,
		},
	}
}

func defaultPlayer() []string {
	if _, err := os.Stat("/usr/bin/afplay"); err == nil {
		return []string{"afplay"}
	}
	return []string{"mpg123", "-q"}
}

// Load reads path and overlays it on Default. A missing file is not an
// error when path is empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and fills derived paths.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	if c.Camera.FPS <= 0 {
		return fmt.Errorf("%w: camera.fps must be > 0, got %d", ErrInvalidConfig, c.Camera.FPS)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("%w: camera size must be positive, got %dx%d", ErrInvalidConfig, c.Camera.Width, c.Camera.Height)
	}
	if c.Detector.MaxHands < 1 {
		return fmt.Errorf("%w: detector.max_hands must be >= 1, got %d", ErrInvalidConfig, c.Detector.MaxHands)
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return fmt.Errorf("%w: detector.min_confidence must be in [0,1], got %v", ErrInvalidConfig, c.Detector.MinConfidence)
	}

	t := c.Classifier
	if t.Lateral <= 0 || t.Alignment <= 0 || t.Pinch <= 0 {
		return fmt.Errorf("%w: classifier thresholds must be positive", ErrInvalidConfig)
	}

	if c.Speech.Enabled {
		if len(c.Speech.Player) == 0 {
			return fmt.Errorf("%w: speech.player is required when speech is enabled", ErrInvalidConfig)
		}
		if c.Speech.Language == "" {
			return fmt.Errorf("%w: speech.language is required", ErrInvalidConfig)
		}
	}

	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.DataDir, "mudra.db")
	}
	if c.Speech.CacheDir == "" {
		c.Speech.CacheDir = filepath.Join(c.DataDir, "audio")
	}
	if c.Speech.Timeout <= 0 {
		c.Speech.Timeout = 10 * time.Second
	}

	return nil
}

// EnsureDirs creates the data and audio cache directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, filepath.Dir(c.Store.Path), c.Speech.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
