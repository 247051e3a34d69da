// Package cli implements the osvector command line: one-shot build and
// search invocations against an OpenSearch cluster.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/config"
	logpkg "github.com/kailas-cloud/osvector/internal/logger"
	"github.com/kailas-cloud/osvector/internal/usecase/invoke"
)

// ServiceFactory wires the invocation service for a loaded runtime config.
// The returned func releases its resources.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*invoke.Service, func(), error)

type globalOptions struct {
	configFile string
	logLevel   string
	pretty     bool
}

// NewRootCommand creates the root command.
func NewRootCommand(version, commit, date string, newService ServiceFactory) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "osvector",
		Short: "OpenSearch vector store node",
		Long: `osvector ingests records into an OpenSearch k-NN index and runs
similarity searches against it.

Example usage:
  osvector build --opensearch-url http://localhost:9200 --index-name docs --text "hello"
  osvector search --file invocation.yaml -q "greeting"
  osvector inputs`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"runtime config file (default is config/$ENV.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", true, "indent JSON output")

	rootCmd.AddCommand(newBuildCommand(opts, newService))
	rootCmd.AddCommand(newSearchCommand(opts, newService))
	rootCmd.AddCommand(newInputsCommand(opts))
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// loadConfig reads --config, or config/$ENV.yaml. A missing environment file
// yields the defaults so ad-hoc flags can still drive a run.
func (o *globalOptions) loadConfig() (config.Config, error) {
	if o.configFile != "" {
		cfg, err := config.LoadFile(o.configFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(config.GetEnv())
	if errors.Is(err, fs.ErrNotExist) {
		return config.Parse(nil) //nolint:wrapcheck // defaults only
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o *globalOptions) newLogger() (*zap.Logger, error) {
	l, err := logpkg.NewLogger("cli", o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return l, nil
}

func (o *globalOptions) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
