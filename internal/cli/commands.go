package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/osvector/internal/component"
	"github.com/kailas-cloud/osvector/internal/component/opensearch"
	logpkg "github.com/kailas-cloud/osvector/internal/logger"
	"github.com/kailas-cloud/osvector/internal/usecase/invoke"
)

type runFunc func(ctx context.Context, svc *invoke.Service, req *invoke.Request) (any, error)

func newBuildCommand(g *globalOptions, newService ServiceFactory) *cobra.Command {
	f := &invocationFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Ingest records into an OpenSearch vector index",
		Long: `Embed the ingest data and index it into OpenSearch. The index is created
when missing. Every run re-ingests.

Examples:
  osvector build --opensearch-url http://localhost:9200 --index-name docs --text "first" --text "second"
  osvector build -f invocation.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInvocation(cmd, g, f, newService,
				func(ctx context.Context, svc *invoke.Service, req *invoke.Request) (any, error) {
					return svc.Build(ctx, req) //nolint:wrapcheck // printed as-is
				})
		},
	}
	f.register(cmd, false)
	return cmd
}

func newSearchCommand(g *globalOptions, newService ServiceFactory) *cobra.Command {
	f := &invocationFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Ingest records and run a similarity search",
		Long: `Build the vector store from the ingest data, then return the records
nearest to the query. A blank query returns an empty list.

Examples:
  osvector search --opensearch-url http://localhost:9200 --index-name docs -q "hello" -k 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInvocation(cmd, g, f, newService,
				func(ctx context.Context, svc *invoke.Service, req *invoke.Request) (any, error) {
					return svc.Search(ctx, req) //nolint:wrapcheck // printed as-is
				})
		},
	}
	f.register(cmd, true)
	return cmd
}

func runInvocation(
	cmd *cobra.Command, g *globalOptions, f *invocationFlags, newService ServiceFactory, run runFunc,
) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := f.applyEmbedder(&cfg); err != nil {
		return err
	}
	req, err := f.request(cmd)
	if err != nil {
		return err
	}

	logger, err := g.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx := logpkg.ContextWithLogger(cmd.Context(), logger)

	svc, cleanup, err := newService(ctx, &cfg, logger)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer cleanup()

	res, err := run(ctx, svc, req)
	if err != nil {
		return err
	}
	return g.writeJSON(cmd.OutOrStdout(), res)
}

func newInputsCommand(g *globalOptions) *cobra.Command {
	var legacy bool
	cmd := &cobra.Command{
		Use:   "inputs",
		Short: "Print the component input schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if legacy {
				return g.writeJSON(cmd.OutOrStdout(), struct {
					Component   component.Descriptor             `json:"component"`
					BuildConfig map[string]component.FieldConfig `json:"build_config"`
				}{opensearch.LegacyDescriptor, opensearch.NewLegacy(nil).BuildConfig()})
			}
			return g.writeJSON(cmd.OutOrStdout(), struct {
				Component component.Descriptor `json:"component"`
				Inputs    []component.Input    `json:"inputs"`
			}{opensearch.Descriptor, opensearch.Inputs()})
		},
	}
	cmd.Flags().BoolVar(&legacy, "legacy", false, "print the legacy build config instead")
	return cmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if version == "dev" || version == "" {
				version = "development"
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "osvector %s (%s) built on %s\n", version, commit, date)
			_, _ = fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
