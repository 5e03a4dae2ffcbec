package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MarcDevWorkspace/mathpad/internal/config"
	"github.com/MarcDevWorkspace/mathpad/internal/latex"
	"github.com/MarcDevWorkspace/mathpad/internal/log"
	"github.com/MarcDevWorkspace/mathpad/internal/mode/playground"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mathpad",
	Short: "A structural editor core for a LaTeX math subset",
	Long: `Mathpad parses a LaTeX math subset into an editable tree and prints,
checks, and rewrites it in canonical form. Run without a subcommand to
open the interactive playground.`,
	Version: version,
	RunE:    runPlayground,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/mathpad/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging to mathpad-debug.log")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("text_commands", defaults.TextCommands)
	viper.SetDefault("environments", defaults.Environments)
	viper.SetDefault("id_scheme", defaults.IDScheme)
	viper.SetDefault("fmt.diff", defaults.Fmt.Diff)

	viper.SetEnvPrefix("MATHPAD")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .mathpad/config.yaml (current directory)
		// 2. ~/.config/mathpad/config.yaml (user config)
		if _, err := os.Stat(".mathpad/config.yaml"); err == nil {
			viper.SetConfigFile(".mathpad/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "mathpad"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write the commented default config and read it back.
			defaultPath := ".mathpad/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		} else {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if cfg.Debug {
		if _, err := log.Init("mathpad-debug.log"); err == nil {
			log.SetEnabled(true)
			log.SetMinLevel(log.LevelDebug)
			log.Info(log.CatConfig, "Debug logging enabled", "config", viper.ConfigFileUsed())
		}
	} else {
		log.SetEnabled(false)
	}
}

// parseOptions builds latex parse options from the loaded config.
func parseOptions() (latex.Options, error) {
	if err := config.Validate(cfg); err != nil {
		return latex.Options{}, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := latex.Options{TextCommands: cfg.TextCommands}
	if cfg.IDScheme == "uuid" {
		opts.IDs = latex.UUIDGen{}
	}
	return opts, nil
}

// readSource reads the LaTeX source for a command: from the file argument
// when given, otherwise from stdin.
func readSource(args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

func runPlayground(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}

	model := playground.New(opts)
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
