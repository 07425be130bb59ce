package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/gbrtax/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr        string
		redisAddr   string
		cacheTTL    time.Duration
		memoryCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reserve calculation as a JSON API",
		Long: `Starts an HTTP server with the endpoints

  GET  /healthz
  GET  /v1/tables
  POST /v1/reserves   scenario body, optional ?strategy=
  POST /v1/compare    scenario body, optional ?base= and ?strategies=
  POST /v1/tax        {"income": ..., "increment": ...}

Responses can be cached in Redis (--redis-addr) or in process (--memory-cache).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := server.Options{DefaultTable: a.taxTable, Logger: a.logger}
			switch {
			case redisAddr != "":
				rc := server.NewRedisCache(redisAddr, cacheTTL)
				defer rc.Close()
				pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				err := rc.Ping(pingCtx)
				cancel()
				if err != nil {
					a.logger.Warn("redis unavailable, caching will fail until it is reachable",
						zap.String("addr", redisAddr), zap.Error(err))
				}
				opts.Cache = rc
			case memoryCache:
				opts.Cache = server.NewMemoryCache()
			}

			return server.New(opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the response cache, e.g. localhost:6379")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 10*time.Minute, "Lifetime of cached responses in Redis")
	cmd.Flags().BoolVar(&memoryCache, "memory-cache", false, "Cache responses in process memory")
	return cmd
}
