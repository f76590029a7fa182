// Package cli provides the Cobra command structure for codeintel.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/codeintel/internal/config"
	"github.com/dshills/codeintel/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
	color      string
	language   string
	engine     string
	live       bool
}

// session is the resolved state every subcommand runs with.
type session struct {
	flags globalFlags
	cfg   *config.Config
}

// NewRootCommand creates the root codeintel command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "codeintel",
		Short: "Inspect styled text the way completion code sees it",
		Long: `codeintel tokenizes source files and exposes the styled-text accessors
used by code intelligence: per-position characters and styles, line
arithmetic, contiguous style runs and windowed backward/forward walks.

Files are read through a static accessor by default. With --live the file
is loaded into an editable view behind a document and read through a
deferred accessor instead.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.setup(); err != nil {
				return err
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.flags.configPath, "config", "", "path to config file (toml or yaml)")
	flags.BoolVar(&s.flags.debug, "debug", false, "enable debug logging")
	flags.StringVar(&s.flags.color, "color", "auto", "colorize output: auto, always, never")
	flags.StringVar(&s.flags.language, "lang", "", "language to lex as instead of detecting it")
	flags.StringVar(&s.flags.engine, "engine", "", "lexer engine: rules, chroma, auto")
	flags.BoolVar(&s.flags.live, "live", false, "read through a live view instead of a static buffer")

	rootCmd.AddCommand(newTokensCommand(s))
	rootCmd.AddCommand(newInspectCommand(s))
	rootCmd.AddCommand(newWalkCommand(s))
	rootCmd.AddCommand(newWatchCommand(s))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// setup loads the configuration and applies the environment and flags on
// top of it.
func (s *session) setup() error {
	cfg, err := config.Load(s.flags.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if s.flags.debug {
		cfg.Log.Level = "debug"
	}
	if s.flags.language != "" {
		cfg.Lexer.Language = s.flags.language
	}
	if s.flags.engine != "" {
		cfg.Lexer.Engine = s.flags.engine
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.SetLevel(cfg.Log.Level)
	s.cfg = cfg
	return nil
}
