package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/typed-emitter/internal/app"
	"github.com/KirkDiggler/typed-emitter/internal/config"
	"github.com/KirkDiggler/typed-emitter/internal/logging"
	"github.com/KirkDiggler/typed-emitter/internal/orders"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Default().Fatal().Err(err).Msg("failed to load config")
	}

	log := newLogger(cfg)
	logging.SetDefault(log)
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providerCfg := &app.ProviderConfig{
		Emitter: cfg.EmitterSettings(),
		Logger:  &log,
	}

	redisClient := connectRedis(ctx, cfg.Redis.URL, log)
	if redisClient != nil {
		providerCfg.OrderRepository = orders.NewRedis(redisClient)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("error closing Redis connection")
			}
		}()
	}

	var reg *prometheus.Registry
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		providerCfg.Registerer = reg
	}

	provider, err := app.NewProvider(providerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create provider")
	}
	defer func() {
		if err := provider.Close(); err != nil {
			log.Error().Err(err).Msg("failed to unload subscribers")
		}
	}()

	if err := runDemo(ctx, provider, log); err != nil {
		log.Error().Err(err).Msg("demo flow failed")
	}

	if reg == nil {
		log.Info().Msg("done")
		return
	}

	server := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsHandler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics, press CTRL-C to exit")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to stop metrics server")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.Format == "json" {
		return logging.New(os.Stderr, level)
	}
	return logging.NewConsole(os.Stderr, level)
}

// connectRedis returns nil when Redis is not configured or not reachable, in
// which case orders are kept in memory
func connectRedis(ctx context.Context, url string, log zerolog.Logger) *redis.Client {
	if url == "" {
		log.Info().Msg("no REDIS_URL found, using in-memory repository")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse Redis URL, falling back to in-memory repository")
		return nil
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn().Err(err).Str("addr", opts.Addr).Msg("failed to connect to Redis, falling back to in-memory repository")
		return nil
	}

	log.Info().Str("addr", opts.Addr).Msg("using Redis for persistence")
	return client
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
