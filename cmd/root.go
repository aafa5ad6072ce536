package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/eva/internal/config"
	"github.com/mj1618/eva/internal/logging"
	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eva",
	Short: "Voice-driven desktop automation",
	Long: `eva turns spoken or typed commands into desktop actions. A command is
classified into an intent, expanded into a plan of primitive steps and
executed against the live desktop.`,
	SilenceUsage: true,
}

// cfg is the configuration loaded by the root command before any subcommand runs.
var cfg = config.Default()

// logger is the process logger, writing to stderr.
var logger = slog.Default()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json (default yaml, json when piped)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("config", config.DefaultPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().String("env", ".env", "Path to a .env file (optional)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().String("classifier", "", "Classifier: pattern or semantic (default from config)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Log desktop actions instead of performing them")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		flags := rootCmd.PersistentFlags()

		envPath, _ := flags.GetString("env")
		if err := config.LoadEnvFile(envPath); err != nil {
			return err
		}
		path, _ := flags.GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		loaded.ApplyEnv(os.Getenv)
		if v, _ := flags.GetString("log-level"); v != "" {
			loaded.LogLevel = v
		}
		if v, _ := flags.GetString("classifier"); v != "" {
			loaded.Classifier = v
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg = loaded

		l, err := logging.Setup(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = l

		// Smart default: piped output (another program) gets JSON, a
		// terminal gets YAML.
		format, _ := flags.GetString("format")
		if format == "" {
			format = string(output.FormatYAML)
			if output.IsPiped() {
				format = string(output.FormatJSON)
			}
		}
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = flags.GetBool("pretty")
		return nil
	}
}
