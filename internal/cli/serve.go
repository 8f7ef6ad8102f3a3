package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/provflow/pkg/cache"
	"github.com/matzehuels/provflow/pkg/observability/prom"
	"github.com/matzehuels/provflow/pkg/pipeline"
	"github.com/matzehuels/provflow/pkg/server"
	"github.com/matzehuels/provflow/pkg/store"
)

// serveFlags configures the HTTP service. Empty values fall back to the
// config file, then to built-in defaults.
type serveFlags struct {
	addr     string
	redis    string
	mongo    string
	database string
	noCache  bool
	timeout  time.Duration
}

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ordering and diagram API over HTTP",
		Long: `Serve the ordering and diagram API over HTTP.

Routes:
  GET  /healthz            liveness and build info
  POST /v1/minimize        order one snapshot pair
  POST /v1/crossings       count crossings for a given order
  POST /v1/diagrams        run the pipeline and store the diagram
  GET  /v1/diagrams[/{id}] list or fetch stored diagrams
  GET  /metrics            Prometheus metrics

Orderings are cached in Redis when --redis is set; without it the service
runs uncached. Diagrams are stored in MongoDB when --mongo is set, in memory
otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", fmt.Sprintf("listen address (default %q)", server.DefaultAddr))
	cmd.Flags().StringVar(&flags.redis, "redis", "", "Redis URL for the ordering cache, e.g. redis://localhost:6379/0")
	cmd.Flags().StringVar(&flags.mongo, "mongo", "", "MongoDB URI for stored diagrams, e.g. mongodb://localhost:27017")
	cmd.Flags().StringVar(&flags.database, "database", "", fmt.Sprintf("MongoDB database (default %q)", store.DefaultDatabase))
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&flags.timeout, "request-timeout", server.DefaultRequestTimeout, "per-request time limit")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	flags = c.serveDefaults(flags)
	logger := loggerFromContext(ctx)

	ch := cache.Cache(cache.NewNullCache())
	if flags.redis != "" && !flags.noCache {
		rc, err := cache.NewRedisCache(ctx, flags.redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		ch = rc
		logger.Info("using redis cache")
	}
	runner := pipeline.NewRunner(ch, nil, logger)
	defer runner.Close()

	var st store.Store = store.NewMemoryStore()
	if flags.mongo != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: flags.mongo, Database: flags.database})
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		st = ms
		logger.Info("using mongo store", "database", flags.database)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	prom.New(prometheus.DefaultRegisterer).Register()

	srv := server.New(runner, st, logger,
		server.WithMetrics(prometheus.DefaultGatherer),
		server.WithRequestTimeout(flags.timeout))
	return srv.Run(ctx, flags.addr)
}

// serveDefaults fills unset flags from the config file and built-in
// defaults.
func (c *CLI) serveDefaults(f serveFlags) serveFlags {
	if f.addr == "" {
		f.addr = c.Config.Server.Addr
	}
	if f.addr == "" {
		f.addr = server.DefaultAddr
	}
	if f.redis == "" {
		f.redis = c.Config.Cache.Redis
	}
	if f.noCache || c.Config.Cache.Disabled {
		f.noCache = true
	}
	if f.mongo == "" {
		f.mongo = c.Config.Store.Mongo
	}
	if f.database == "" {
		f.database = c.Config.Store.Database
	}
	if f.database == "" {
		f.database = store.DefaultDatabase
	}
	return f
}
