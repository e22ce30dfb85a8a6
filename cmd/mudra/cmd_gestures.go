package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/gesture"
)

var gesturesCmd = &cobra.Command{
	Use:   "gestures",
	Short: "List the gesture rules in evaluation order",
	RunE:  runGestures,
}

func runGestures(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Rules (first match wins)")

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, r := range gesture.Rules() {
		fmt.Fprintf(tw, "%2d\t%s\t%s\n", i+1, r.Label, r.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	t := cfg.Classifier
	printNote(out, "thresholds: lateral=%.3f alignment=%.3f pinch=%.3f", t.Lateral, t.Alignment, t.Pinch)
	return nil
}
