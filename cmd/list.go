package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/tt/internal/display"
	"github.com/joescharf/tt/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked timers",
	Long: `Show a summary table of every timer in the data directory:
session count, accumulated time, and when it last ran.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	timers, err := s.ListTimers()
	if err != nil {
		return err
	}

	if len(timers) == 0 {
		ui.Info("No timers yet. Run 'tt' to start one.")
		return nil
	}

	table := ui.Table([]string{"Timer", "Sessions", "Total", "Last Active"})

	for _, info := range timers {
		lastActive := "n/a"
		if !info.LastEnd.IsZero() {
			lastActive = timeAgo(info.LastEnd)
		}

		name := output.Cyan(info.Title)
		if info.Skipped > 0 {
			name = fmt.Sprintf("%s %s", name,
				output.Yellow(fmt.Sprintf("(%d bad lines)", info.Skipped)))
		}

		table.Append([]string{
			name,
			fmt.Sprintf("%d", info.Sessions),
			display.Duration(info.Total),
			lastActive,
		})
	}

	table.Render()
	return nil
}

// timeAgo renders a timestamp as a coarse relative age.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}
