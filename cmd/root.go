package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/tt/internal/display"
	"github.com/joescharf/tt/internal/input"
	"github.com/joescharf/tt/internal/output"
	"github.com/joescharf/tt/internal/session"
	"github.com/joescharf/tt/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose   bool
	newTimer  bool
	loadTimer bool
)

var rootCmd = &cobra.Command{
	Use:   "tt",
	Short: "Terminal timer - track time across work sessions",
	Long: `tt tracks time spent on named tasks from the terminal.
A session shows a live elapsed clock; the space bar pauses and resumes,
and every completed stretch is appended to a per-timer log so totals
survive across sittings.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rootRun()
	}

	rootCmd.Flags().BoolVarP(&newTimer, "new", "n", false, "Start a new timer without the launch prompt")
	rootCmd.Flags().BoolVarP(&loadTimer, "load", "l", false, "Load an existing timer without the launch prompt")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/tt/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "tt")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TT")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".config", "tt")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("refresh_interval", "1s")
	viper.SetDefault("display.color", true)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	if !viper.GetBool("display.color") {
		color.NoColor = true
	}

	// The store opens lazily so config/version run without touching disk.
}

// rootRun handles `tt` with no subcommand: apply the -n/-l shortcuts, or
// ask which way to go.
func rootRun() error {
	if newTimer && loadTimer {
		return fmt.Errorf("--new and --load are mutually exclusive")
	}

	switch {
	case newTimer:
		return runNew()
	case loadTimer:
		return runLoad()
	}

	prompter := input.NewPrompter(os.Stdin, ui)
	choice, err := prompter.LaunchChoice()
	if err != nil {
		return err
	}
	switch choice {
	case input.ChoiceNew:
		return runNew()
	case input.ChoiceLoad:
		return runLoad()
	default:
		return nil
	}
}

// runNew asks for a fresh title and starts tracking it.
func runNew() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	prompter := input.NewPrompter(os.Stdin, ui)
	title, err := prompter.Title(s.Exists)
	if err != nil {
		return err
	}

	return session.Run(session.Options{
		UI:       ui,
		Store:    s,
		Title:    title,
		Interval: viper.GetDuration("refresh_interval"),
		In:       os.Stdin,
	})
}

// runLoad picks an existing timer and resumes it with its history loaded.
func runLoad() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	timers, err := s.ListTimers()
	if err != nil {
		return err
	}
	if len(timers) == 0 {
		ui.Note("No existing timers found. Creating a new one.")
		return runNew()
	}

	labels := make([]string, len(timers))
	for i, info := range timers {
		labels[i] = fmt.Sprintf("%s (%d sessions, %s)", info.Title, info.Sessions, display.Duration(info.Total))
	}

	prompter := input.NewPrompter(os.Stdin, ui)
	idx, err := prompter.Pick(labels)
	if err != nil {
		return err
	}

	picked := timers[idx]
	history, err := s.History(picked.Slug)
	if err != nil {
		return err
	}

	return session.Run(session.Options{
		UI:       ui,
		Store:    s,
		Title:    history.Title,
		History:  history,
		Interval: viper.GetDuration("refresh_interval"),
		In:       os.Stdin,
	})
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	s, err := store.NewFileStore(viper.GetString("data_dir"))
	if err != nil {
		return nil, fmt.Errorf("open data directory: %w", err)
	}

	dataStore = s
	return dataStore, nil
}
