package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprout/pkg/cache"
	"github.com/matzehuels/sprout/pkg/pipeline"
	"github.com/matzehuels/sprout/pkg/server"
)

const (
	defaultAddr = ":8080"

	// apiKeyPrefix separates server cache entries from CLI entries.
	apiKeyPrefix = "api:"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxSteps int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grow pipeline over HTTP",
		Long: `Serve the grow pipeline over HTTP until interrupted.

Set SPROUT_REDIS_URL to share the cache between several server instances.
With --verbose every pipeline stage, cache lookup and request is logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, maxSteps, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&maxSteps, "max-steps", pipeline.DefaultMaxSteps, "largest step count a request may ask for")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxSteps int, noCache bool) error {
	if maxSteps <= 0 {
		return fmt.Errorf("max-steps must be positive, got %d", maxSteps)
	}
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(backend, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
	defer runner.Close()

	srv := server.New(runner, c.Logger, server.WithMaxSteps(maxSteps))
	printInfo("Listening on %s", StyleHighlight.Render(addr))
	return srv.ListenAndServe(ctx, addr)
}
