package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/speech"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

var serveFlags struct {
	addr     string
	noSpeech bool
	noCamera bool
	tray     bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the camera pipeline and the web UI",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "HTTP listen address (overrides server.addr)")
	f.BoolVar(&serveFlags.noSpeech, "no-speech", false, "do not speak announced gestures")
	f.BoolVar(&serveFlags.noCamera, "no-camera", false, "only serve the HTTP API; frames arrive via POST /api/recognize")
	f.BoolVar(&serveFlags.tray, "tray", false, "show a system tray icon")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.addr != "" {
		cfg.Server.Addr = serveFlags.addr
	}
	if serveFlags.noSpeech {
		cfg.Speech.Enabled = false
	}
	if serveFlags.tray {
		cfg.Tray.Enabled = true
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	speaker, err := newSpeaker(cfg, st)
	if err != nil {
		return err
	}

	a := app.New(app.Config{
		Store: st,
		CameraConfig: capture.Config{
			DeviceID: cfg.Camera.Device,
			FPS:      cfg.Camera.FPS,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			Mirror:   cfg.Camera.Mirror,
		},
		DetectorConfig: cfg.Detector,
		Thresholds:     cfg.Classifier,
		Speaker:        speaker,
		SpeakTimeout:   cfg.Speech.Timeout,
	})
	defer a.Close()

	if !serveFlags.noCamera {
		if err := a.Start(); err != nil {
			log.Printf("Camera unavailable (%v); serving API only", err)
		}
	}

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		log.Printf("Serving static files from: %s", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		App:       a,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting server on %s", cfg.Server.Addr)

	if !cfg.Tray.Enabled {
		return srv.Run(ctx, cfg.Server.Addr)
	}

	// The tray must own the main goroutine.
	t := newTray(a, cfg.Server.Addr, stop)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer t.Quit()
		return srv.Run(gctx, cfg.Server.Addr)
	})
	t.Run()
	stop()
	return g.Wait()
}

func newSpeaker(cfg *config.Config, st *store.Store) (speech.Announcer, error) {
	if !cfg.Speech.Enabled {
		return speech.Nop{}, nil
	}

	cache, err := speech.NewCache(cfg.Speech.CacheDir, st.AudioClips())
	if err != nil {
		return nil, err
	}

	player, err := speech.NewCommandPlayer(cfg.Speech.Player, cfg.Speech.Timeout)
	if err != nil {
		return nil, err
	}

	tts := speech.NewGoogleTTS(cfg.Speech.Endpoint, cfg.Speech.Language)
	return speech.NewSpeaker(tts, cache, player), nil
}

func newTray(a *app.App, addr string, quit func()) *tray.Tray {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnReset(func() { a.ResetSession() })
	t.OnOpen(func() { openBrowser(uiURL(addr)) })
	t.OnQuit(quit)

	events, _ := a.Subscribe()
	go t.Follow(events)

	return t
}

func uiURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
