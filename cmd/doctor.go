package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/tt/internal/display"
	"github.com/joescharf/tt/internal/health"
	"github.com/joescharf/tt/internal/output"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check data directory integrity",
	Long: `Scan every timer's files for problems:

  - record lines that no longer parse
  - stale session locks left by crashed processes
  - journals whose record file is gone`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorRun()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	report, err := health.NewChecker(s).Check()
	if err != nil {
		return err
	}

	ui.Info("Data directory: %s", report.DataDir)

	if len(report.Timers) == 0 && len(report.OrphanJournals) == 0 {
		ui.Info("Nothing to check yet.")
		return nil
	}

	table := ui.Table([]string{"Timer", "Records", "Bad Lines", "Total", "Journal", "Lock"})
	for _, tr := range report.Timers {
		bad := "-"
		if tr.Malformed > 0 {
			bad = output.Red(fmt.Sprintf("%d", tr.Malformed))
		}
		journal := "-"
		if tr.HasJournal {
			journal = "yes"
		}
		lock := "-"
		switch {
		case tr.LivePID != 0:
			lock = output.Green(fmt.Sprintf("live (pid %d)", tr.LivePID))
		case tr.StaleLock:
			lock = output.Red("stale")
		}

		table.Append([]string{
			output.Cyan(tr.Title),
			fmt.Sprintf("%d", tr.Records),
			bad,
			display.Duration(tr.Total),
			journal,
			lock,
		})
	}
	table.Render()

	for _, orphan := range report.OrphanJournals {
		ui.Warning("Orphaned journal: %s", orphan)
	}

	if !report.Healthy() {
		return fmt.Errorf("found problems in %s", report.DataDir)
	}

	ui.Success("All timers check out.")
	return nil
}
