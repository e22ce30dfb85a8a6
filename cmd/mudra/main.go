// mudra recognizes static sign-language hand poses from a webcam and speaks
// each newly detected gesture.
//
// Usage:
//
//	mudra serve [--config=<file>] [--addr=<addr>] [--no-speech] [--tray]
//	mudra classify <landmarks.json|image> [--mirror] [--out=<file>]
//	mudra gestures
//	mudra history [--limit=N]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mudra",
	Short: "Sign-language gesture recognition with spoken announcements",
	Long:  "mudra classifies hand poses from a webcam into a fixed gesture vocabulary,\nannotates the video and speaks each newly detected gesture.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to mudra.yml (defaults built in)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(gesturesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
