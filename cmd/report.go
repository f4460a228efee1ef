package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/tt/internal/display"
	"github.com/joescharf/tt/internal/models"
)

var (
	reportFormat string
	exportTimer  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session records as JSON, CSV, or Markdown",
	Long:  "Export raw session records for one timer or all of them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

func init() {
	exportCmd.Flags().StringVar(&reportFormat, "format", "json", "Output format: json, csv, markdown")
	exportCmd.Flags().StringVar(&exportTimer, "timer", "", "Export a single timer (default: all)")
	rootCmd.AddCommand(exportCmd)
}

func exportRun() error {
	sessions, err := collectSessions(exportTimer)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "Title", "Start", "End", "Elapsed"})
		for _, sess := range sessions {
			w.Write([]string{sess.ID, sess.Title,
				sess.Start.Format("2006-01-02T15:04:05"),
				sess.End.Format("2006-01-02T15:04:05"),
				display.Duration(sess.Duration())})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Sessions")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Timer | Start | End | Elapsed |")
		fmt.Fprintln(ui.Out, "|-------|-------|-----|---------|")
		for _, sess := range sessions {
			fmt.Fprintf(ui.Out, "| %s | %s | %s | %s |\n",
				sess.Title,
				sess.Start.Format("2006-01-02 15:04:05"),
				sess.End.Format("2006-01-02 15:04:05"),
				display.Duration(sess.Duration()))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", reportFormat)
	}
}

// collectSessions loads every record for one timer, or for all timers in
// listing order.
func collectSessions(title string) ([]*models.Session, error) {
	s, err := getStore()
	if err != nil {
		return nil, err
	}

	if title != "" {
		slug := models.Slug(title)
		if !s.Exists(slug) {
			return nil, fmt.Errorf("unknown timer: %s", title)
		}
		h, err := s.History(slug)
		if err != nil {
			return nil, err
		}
		return h.Sessions, nil
	}

	timers, err := s.ListTimers()
	if err != nil {
		return nil, err
	}

	var all []*models.Session
	for _, info := range timers {
		h, err := s.History(info.Slug)
		if err != nil {
			return nil, err
		}
		all = append(all, h.Sessions...)
	}
	return all, nil
}

var reportCmd = &cobra.Command{
	Use:   "report [timer]",
	Short: "Generate reports",
	Long: `Generate summary reports of tracked time.

Running bare 'tt report' is the same as 'tt report daily'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := ""
		if len(args) == 1 {
			title = args[0]
		}
		return reportDailyRun(title)
	},
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily [timer]",
	Short: "Per-day totals for one timer or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := ""
		if len(args) == 1 {
			title = args[0]
		}
		return reportDailyRun(title)
	},
}

func init() {
	reportCmd.AddCommand(reportDailyCmd)
	rootCmd.AddCommand(reportCmd)
}

func reportDailyRun(title string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	var histories []*models.History
	if title != "" {
		slug := models.Slug(title)
		if !s.Exists(slug) {
			return fmt.Errorf("unknown timer: %s", title)
		}
		h, err := s.History(slug)
		if err != nil {
			return err
		}
		histories = append(histories, h)
	} else {
		timers, err := s.ListTimers()
		if err != nil {
			return err
		}
		for _, info := range timers {
			h, err := s.History(info.Slug)
			if err != nil {
				return err
			}
			histories = append(histories, h)
		}
	}

	fmt.Fprintln(ui.Out, "# Daily Report")
	fmt.Fprintln(ui.Out)

	for _, h := range histories {
		fmt.Fprintf(ui.Out, "## %s\n", h.Title)
		for _, day := range h.PerDay() {
			fmt.Fprintf(ui.Out, "- %s: %s\n", day.Date, display.Duration(day.Total))
		}
		fmt.Fprintf(ui.Out, "- Total: %s across %d session(s)\n",
			display.Duration(h.Total()), len(h.Sessions))
		fmt.Fprintln(ui.Out)
	}

	return nil
}
