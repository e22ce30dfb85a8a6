package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/ayusman/mudra/internal/gesture"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// printLabel writes a gesture label, dimmed when nothing was recognized.
func printLabel(w io.Writer, label gesture.Label) {
	if label == gesture.Unknown {
		yellow.Fprintf(w, "%s\n", label)
		return
	}
	green.Fprintf(w, "%s\n", label)
}

func printHeader(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, format+"\n", a...)
}

func printNote(w io.Writer, format string, a ...any) {
	faint.Fprintln(w, fmt.Sprintf(format, a...))
}
