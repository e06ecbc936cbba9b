package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ptplot/internal/server"
	"github.com/matzehuels/ptplot/pkg/cache"
	"github.com/matzehuels/ptplot/pkg/pipeline"
	"github.com/matzehuels/ptplot/pkg/storage"
)

type serveOpts struct {
	addr     string
	redisURL string
	mongoURI string
	mongoDB  string
	ttl      time.Duration
	noCache  bool
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     server.DefaultAddr,
		redisURL: os.Getenv(envRedisURL),
		mongoDB:  "ptplot",
		ttl:      storage.DefaultTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render server",
		Long: `Serve runs the render API. POST /render takes a JSON plot spec and tracking
CSV and stores every artifact it produces; stored renders are served from
/plots/{id}.

Renders are kept in memory unless --mongo-uri names a MongoDB deployment.
The render cache is local unless --redis (or PTPLOT_REDIS_URL) names a
Redis instance.`,
		Example: `  ptplot serve --addr :8080
  ptplot serve --redis redis://localhost:6379/0 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", opts.redisURL, "Redis URL for a shared render cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for stored renders")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", opts.ttl, "how long stored renders are kept")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	var ch cache.Cache
	var err error
	switch {
	case opts.noCache:
		ch = cache.NewNullCache()
	case opts.redisURL != "":
		ch, err = cache.NewRedisCache(ctx, opts.redisURL)
		logger.Info("using redis cache")
	default:
		ch, err = newCache(ctx, false)
	}
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, nil, logger)
	defer runner.Close()

	var store storage.Store = storage.NewMemoryStore()
	if opts.mongoURI != "" {
		ms, err := storage.NewMongoStore(ctx, storage.MongoConfig{URI: opts.mongoURI, Database: opts.mongoDB})
		if err != nil {
			return err
		}
		store = ms
		logger.Info("storing renders in mongodb", "database", opts.mongoDB)
	}
	defer store.Close(context.Background())

	go cleanupLoop(ctx, store, time.Hour)

	srv := server.New(server.Config{
		Addr:   opts.addr,
		Runner: runner,
		Store:  store,
		Logger: logger,
		TTL:    opts.ttl,
	})
	printSuccess("Serving on %s", opts.addr)
	return srv.ListenAndServe(ctx)
}

// cleanupLoop removes expired renders every interval until ctx is done.
func cleanupLoop(ctx context.Context, store storage.Store, interval time.Duration) {
	logger := loggerFromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil {
				logger.Warn("cleanup failed", "err", err)
			}
		}
	}
}
