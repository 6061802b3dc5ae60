package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yuriy-kovalchuk/porkbun-cli/internal/config"
	"github.com/yuriy-kovalchuk/porkbun-cli/internal/porkbun"
)

var Version = "dev"

// rootOptions carries global flag state into subcommands.
type rootOptions struct {
	configFile string
	verbose    bool
	log        logr.Logger
}

var root rootOptions

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "porkbun-cli",
		Short:   "Manage Porkbun domains: DNS records, SSL bundles, pricing",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&root.configFile, "config", "",
		"YAML config file; overrides PYRK_CONFIG_FILE and individual PYRK_* variables")
	cmd.PersistentFlags().BoolVarP(&root.verbose, "verbose", "v", false,
		"verbose logging on stderr")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		log, err := newLogger(root.verbose)
		if err != nil {
			return err
		}
		root.log = log
		return nil
	}

	cmd.AddCommand(newCmdPing())
	cmd.AddCommand(newCmdPricing())
	cmd.AddCommand(newCmdSSL())
	cmd.AddCommand(newCmdDNS())
	return cmd
}

// newLogger builds the zap-backed logr sink. Results go to stdout, logs to
// stderr; without --verbose only warnings and errors are shown.
func newLogger(verbose bool) (logr.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, fmt.Errorf("build logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// newClient loads configuration and builds the API gateway.
func newClient() (*porkbun.Client, error) {
	cfg, err := config.Load(root.configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return porkbun.New(root.log.WithName("porkbun"), porkbun.Options{
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretAPIKey,
		ForceV4:   cfg.ForceV4,
		Delay:     time.Duration(cfg.RateLimit * float64(time.Second)),
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
	})
}

// newPublicClient builds a gateway for unauthenticated endpoints. Config is
// still loaded for endpoint and rate settings, but credentials are optional.
func newPublicClient() (*porkbun.Client, error) {
	cfg, err := config.Load(root.configFile)
	if err != nil {
		return nil, err
	}
	return porkbun.NewPublic(root.log.WithName("porkbun"), porkbun.Options{
		ForceV4: cfg.ForceV4,
		Delay:   time.Duration(cfg.RateLimit * float64(time.Second)),
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	}), nil
}

// printJSON renders a command result on stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func main() {
	rootCmd := newRootCmd()
	rootCmd.SetContext(context.Background())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
