// Package main provides the entry point for the game set refresh daemon.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gameline/internal/cache"
	"github.com/yourusername/gameline/internal/config"
	"github.com/yourusername/gameline/internal/datasource"
	"github.com/yourusername/gameline/internal/fallback"
	"github.com/yourusername/gameline/internal/health"
	"github.com/yourusername/gameline/internal/logger"
	"github.com/yourusername/gameline/internal/reference"
	"github.com/yourusername/gameline/internal/scheduler"
	"github.com/yourusername/gameline/internal/service"
)

// Build information - set via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("GAMELINE_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.ApplyEstimatorDefaults(cfg)

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Gameline refresh daemon starting")

	// Static reference tables: seed data for fallback and reasoning
	library := reference.DefaultLibrary()

	generator := fallback.NewGenerator(library, appLog)

	// A sport without reference teams is a configuration error; fail here,
	// once, rather than per request
	if err := generator.ValidateSports(cfg.Sources.Sports); err != nil {
		appLog.WithError(err).Fatal("Fallback generator cannot cover configured sports")
	}

	// Fetch gateway over the secure relay
	httpLogger := log.New(os.Stdout, "gateway: ", log.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           cfg.GatewayTimeout(),
		MaxRetries:        cfg.Gateway.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      2 * time.Second,
		RateLimit:         cfg.Gateway.RateLimit,
		CircuitBreakerMax: cfg.Gateway.CircuitBreakerMax,
	}, httpLogger)
	gateway := datasource.NewGateway(httpClient, datasource.GatewayConfig{
		RelayURL:      cfg.Gateway.RelayURL,
		UpstreamHosts: cfg.Gateway.UpstreamHosts,
		Timeout:       cfg.GatewayTimeout(),
	}, httpLogger)
	defer gateway.Close()

	factory := datasource.NewFactory(gateway, httpLogger)
	sources, err := factory.NewGameSources(cfg.Sources)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create game sources")
	}

	store := cache.NewGameSetCache(cfg.CacheTTL(), cfg.Cache.MaxSize)

	pipeline := service.NewPipeline(
		sources,
		service.NewNormalizer(appLog),
		service.NewValidator(appLog),
		store,
		generator,
		cfg.CacheWindow(),
		appLog,
	)

	// Optional live score stream patches cached game scores
	if cfg.Sources.Stream.Enabled && cfg.Sources.Stream.URL != "" {
		streamLogger := log.New(os.Stdout, "stream: ", log.LstdFlags)
		stream := datasource.NewStreamClient(cfg.Sources.Stream.URL, streamLogger)
		stream.AddHandler(pipeline.ApplyScoreUpdate)
		go func() {
			const staleAfter = 90 * time.Second
			for {
				if err := stream.ConnectWithRetry(context.Background()); err != nil {
					appLog.WithError(err).Warn("Live score stream unavailable, continuing without it")
					return
				}
				if err := stream.Subscribe(cfg.Sources.Sports); err != nil {
					appLog.WithError(err).Warn("Live score subscription failed")
				}
				// Heartbeats keep the message clock fresh; silence past the
				// threshold means the connection is dead even if the socket
				// has not errored yet
				for stream.IsConnected() {
					if stream.IsStale(staleAfter) {
						appLog.WithField("last_message", stream.LastMessageTime()).Warn("Live score stream went quiet, reconnecting")
						stream.Close()
						break
					}
					time.Sleep(5 * time.Second)
				}
			}
		}()
		defer stream.Close()
	}

	// Health and metrics endpoint
	var healthServer *health.Server
	if cfg.Metrics.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
		})
		healthServer.Start()
	}

	// Background refresh keeps the cache warm
	sched := scheduler.NewScheduler(pipeline, cfg.Sources.Sports, time.Duration(cfg.Refresh.TimeoutSeconds)*time.Second, appLog)
	if cfg.Refresh.Enabled {
		if err := sched.ScheduleRefresh(cfg.Refresh.CronExpression); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule refresh")
		}
		sched.Start()
		defer sched.Stop()
	}

	if healthServer != nil {
		healthServer.SetReady(true)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	appLog.WithField("signal", sig.String()).Info("Shutting down")

	if healthServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Shutdown(ctx); err != nil {
			appLog.WithError(err).Error("Health server shutdown failed")
		}
	}
}
