package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/bakery-api/internal/config"
	api "github.com/rogerio-castellano/bakery-api/internal/http"
	"github.com/rogerio-castellano/bakery-api/internal/http/ban"
	rl "github.com/rogerio-castellano/bakery-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/bakery-api/internal/redissvc"
	"github.com/rogerio-castellano/bakery-api/internal/seed"
)

const (
	visitorCleanupInterval = time.Minute
	visitorMaxIdle         = 5 * time.Minute
)

var serveMemory bool

// bakery serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var s *store
		if serveMemory {
			s = newMemoryStore()
			res, err := seed.Run(ctx, s.bakeries, s.bakedGoods)
			if err != nil {
				return err
			}
			log.Info().Int("bakeries", res.Bakeries).Int("baked_goods", res.BakedGoods).Msg("in-memory store seeded")
		} else {
			s, err = openSQLStore(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
		}
		defer s.Close()
		s.install()

		opts := []api.Option{api.WithLogger(log)}
		if cfg.RateLimit.Enabled {
			limiterOpt, closeRedis, err := rateLimiting(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeRedis()
			opts = append(opts, limiterOpt)
		}

		srv := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      api.NewRouter(opts...),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Bool("memory", serveMemory).Msg("server running")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

// rateLimiting builds the limiter option and starts its background loops,
// which stop with ctx. Ban tracking is only active when redis is configured.
func rateLimiting(ctx context.Context, cfg *config.Config, log zerolog.Logger) (api.Option, func(), error) {
	rs, err := redissvc.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartCleanupLoop(ctx, visitorCleanupInterval, visitorMaxIdle)

	var tracker *ban.Tracker
	if rs != nil {
		tracker = ban.NewTracker(rs.Rdb(), cfg.RateLimit.MaxStrikes, cfg.RateLimit.BanDuration, log)
		go tracker.StartDailySummary(ctx)
	} else {
		log.Warn().Msg("redis not configured, rate limited clients will not be banned")
	}

	closeRedis := func() {
		if err := rs.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	return api.WithRateLimiter(limiter, tracker), closeRedis, nil
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Serve from an in-memory store seeded with sample data")
}
