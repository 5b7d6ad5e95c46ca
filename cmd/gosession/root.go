package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	logFormat  string
	logLevel   string
	secret     string
	redisAddr  string
	keyPrefix  string
}

// NewRootCmd creates the root command for the gosession CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "gosession",
		Short:         "Credential and session tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.logFormat, opts.logLevel)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file path")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.secret, "secret", "", "signing secret (defaults to $GOSESSION_SECRET)")
	flags.StringVar(&opts.redisAddr, "redis-addr", "", "redis address holding the signing keyring")
	flags.StringVar(&opts.keyPrefix, "key-prefix", "gosession", "redis key prefix for the keyring")
	registerConfigFlags(flags)

	cmd.AddCommand(newHashCmd(opts))
	cmd.AddCommand(newVerifyCmd(opts))
	cmd.AddCommand(newTokenCmd(opts))
	cmd.AddCommand(newKeysCmd(opts))
	cmd.AddCommand(newReportCmd(opts))

	return cmd
}

// setupLogging configures the default slog logger.
func setupLogging(w io.Writer, format, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format %q: must be 'json' or 'text'", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func (o *globalOptions) signingSecret() []byte {
	if o.secret != "" {
		return []byte(o.secret)
	}
	return []byte(os.Getenv("GOSESSION_SECRET"))
}
