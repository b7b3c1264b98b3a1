package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"akvabot/internal/aqua"
	"akvabot/internal/bot"
	"akvabot/internal/commands"
	"akvabot/internal/config"
	"akvabot/internal/metrics"
	"akvabot/internal/session"
	"akvabot/internal/stats"
	"akvabot/internal/vk"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("AKVABOT_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Missing platform credentials are fatal: the loop never starts.
	if cfg.VK.AccessToken == "" || cfg.VK.AccessToken == "YOUR_TOKEN_HERE" {
		logger.Fatal().Msg("set vk.access_token in config")
	}
	if cfg.VK.GroupID == "" {
		logger.Fatal().Msg("set vk.group_id in config")
	}

	sink, err := stats.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer sink.Close()

	tickets := aqua.NewClient(cfg.Aqua.BaseURL, cfg.Aqua.SiteID)
	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.Aqua.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		tickets.UseRedisCache(rdb, time.Duration(cfg.Aqua.CacheTTLSeconds)*time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Backup.Enabled {
		if cfg.Backup.StoragePath == "" {
			cfg.Backup.StoragePath = "data/backups"
		}
		backup := stats.NewBackup(cfg.Database.Path, cfg.Backup.StoragePath, cfg.BackupInterval(), cfg.Backup.RetentionDays, &logger)
		go backup.Run(ctx)
	}

	// The admin surface edits the command file; the bot just reloads it.
	cmdStore := commands.NewStore()
	if err := commands.Watch(ctx, cfg.Commands.Path, cfg.CommandsReloadInterval(), func(cmds []commands.Command) {
		cmdStore.Replace(cmds)
		logger.Info().Int("commands", len(cmds)).Msg("command table reloaded")
	}); err != nil {
		logger.Error().Err(err).Msg("commands watch failed")
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, sink, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	client := vk.NewClient(cfg.VK.AccessToken, cfg.VK.GroupID, cfg.VK.APIVersion, &logger)
	sessions := session.NewStore()
	router := bot.NewRouter(client, tickets, sessions, sink, cmdStore, &logger)
	poller := bot.NewPoller(client, router, client, sink, &logger)

	logger.Info().Msg("akvabot started")
	if err := poller.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("long poll init failed")
	}
}

func startHealthServer(ctx context.Context, port int, sink *stats.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := sink.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
