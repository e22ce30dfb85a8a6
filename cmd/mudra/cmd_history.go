package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/store"
)

var historyFlags struct {
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently announced gestures",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "number of announcements to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	recent, err := st.Announcements().Recent(historyFlags.limit)
	if err != nil {
		return fmt.Errorf("list announcements: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(recent) == 0 {
		fmt.Fprintln(out, "No gestures announced yet.")
		return nil
	}

	printHeader(out, "Recent announcements")
	for _, a := range recent {
		fmt.Fprintf(out, "  %s  %-10s  %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04:05"), a.Gesture, shortID(a.SessionID))
	}

	counts, err := st.Announcements().CountByGesture()
	if err != nil {
		return fmt.Errorf("count announcements: %w", err)
	}

	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	printHeader(out, "Totals")
	for _, l := range labels {
		fmt.Fprintf(out, "  %-10s  %d\n", l, counts[l])
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
