// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/gl-audit/internal/config"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/validation"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Format string
	Sheets []string
	AI     bool
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "gl-audit",
		Short: "Analyze general-ledger spreadsheet exports for audit review.",
		Long: `gl-audit reads general-ledger exports (XLSX, XLS or CSV), locates the
header row of each sheet, resolves the date, amount, account and counterparty
columns, and produces account relationships, anomaly flags, a Benford
first-digit test and a reviewable transaction sample.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE:  initialize,
		PersistentPostRunE: shutdown,
	}

	// SharedFlags holds the flags common to all commands
	SharedFlags = CommonFlags{}

	// Configuration flags
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	CSVDelimiter string

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (directory for batch)")
	flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (directory for batch); stdout when empty")
	flags.StringVarP(&SharedFlags.Format, "format", "f", "", "Report format: json, yaml or text (default from config)")
	flags.StringSliceVarP(&SharedFlags.Sheets, "sheet", "s", nil, "Analyze only the named sheets (repeatable)")
	flags.BoolVar(&SharedFlags.AI, "ai", false, "Send each sheet summary to the AI model for review")

	flags.StringVar(&ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.gl-audit, .gl-audit or .)")
	flags.StringVar(&LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&LogFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&CSVDelimiter, "csv-delimiter", "", "CSV delimiter for input and export")
}

// initialize loads the configuration, applies command-line overrides and
// builds the container.
func initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfigFrom(ConfigFile)
	if err != nil {
		return err
	}
	if err := ApplyFlags(cfg, SharedFlags, LogLevel, LogFormat, CSVDelimiter); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	appContainer = c
	warnPermissions(c.GetLogger(), ConfigFile)
	c.GetLogger().Debug("Configuration loaded",
		logging.F("config_file", ConfigFile),
		logging.F("log_level", cfg.Log.Level),
		logging.F(logging.FieldPolicy, cfg.Sampling.Policy))
	return nil
}

// ApplyFlags overrides configuration values with the flags that were set.
func ApplyFlags(cfg *config.Config, flags CommonFlags, logLevel, logFormat, delimiter string) error {
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if delimiter != "" {
		if len([]rune(delimiter)) != 1 {
			return fmt.Errorf("CSV delimiter must be a single character, got: %s", delimiter)
		}
		cfg.CSV.Delimiter = delimiter
	}
	if flags.Format != "" {
		if err := validation.IsValidOutputFormat(flags.Format); err != nil {
			return err
		}
		cfg.Output.Format = strings.ToLower(flags.Format)
	}
	if flags.AI {
		cfg.AI.Enabled = true
	}
	return nil
}

// warnPermissions warns when a config file that may hold an API key is
// readable by others.
func warnPermissions(logger logging.Logger, path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
		logger.Warn("Config file permissions", logging.F(logging.FieldFile, path), logging.F(logging.FieldReason, err.Error()))
	}
}

func shutdown(cmd *cobra.Command, args []string) error {
	if appContainer == nil {
		return nil
	}
	return appContainer.Close()
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}
