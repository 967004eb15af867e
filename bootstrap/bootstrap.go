// Package bootstrap assembles the application from its parts: config,
// logger, metrics, ledger, gateways, notification sink, worker pool and
// the HTTP server.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/clock"
	"github.com/topiclens/topiclens/adapters/discord"
	"github.com/topiclens/topiclens/adapters/gemini"
	httpadapter "github.com/topiclens/topiclens/adapters/http"
	"github.com/topiclens/topiclens/adapters/idgen"
	"github.com/topiclens/topiclens/adapters/memory"
	"github.com/topiclens/topiclens/adapters/metrics"
	"github.com/topiclens/topiclens/adapters/youtube"
	"github.com/topiclens/topiclens/app"
	"github.com/topiclens/topiclens/config"
	"github.com/topiclens/topiclens/domain/provider"
)

// App holds the assembled application.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Service    *app.Service
	HTTPServer *http.Server

	pool *app.Pool
	sink *discord.Sink
}

// New builds the application from configuration.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	logger := newLogger(cfg.Logging)
	clk := clock.Real{}
	idGen := idgen.UUID{}

	var mc *metrics.Collector
	if cfg.Metrics.Enabled {
		mc = metrics.New()
	} else {
		// A nil registerer leaves the series unregistered while the
		// instrumentation call sites stay unconditional.
		mc = metrics.NewWithRegistry(nil)
	}

	ledger := memory.NewLedger(map[string]int64{
		provider.Gemini:  cfg.Providers.Gemini.DailyLimit,
		provider.YouTube: cfg.Providers.YouTube.DailyLimit,
	}, clk)
	mc.ObserveQuota(provider.Gemini, 0, cfg.Providers.Gemini.DailyLimit)
	mc.ObserveQuota(provider.YouTube, 0, cfg.Providers.YouTube.DailyLimit)

	creds := memory.NewCredentialStore(cfg.Providers.Gemini.APIKey, cfg.Providers.YouTube.APIKey)

	aiGateway := gemini.New(gemini.Config{
		BaseURL: cfg.Providers.Gemini.BaseURL,
		Model:   cfg.Providers.Gemini.Model,
		Timeout: cfg.Providers.Gemini.Timeout,
	}, ledger, clk, logger)

	videoGateway := youtube.New(youtube.Config{
		BaseURL: cfg.Providers.YouTube.BaseURL,
		Timeout: cfg.Providers.YouTube.Timeout,
	}, ledger, clk, logger)

	sink := discord.NewSink(discord.Config{
		WebhookURL: cfg.Notify.WebhookURL,
		Timeout:    cfg.Notify.Timeout,
	}, mc, logger)

	pool := app.NewPool(cfg.Pool.Workers, cfg.Pool.QueueSize, mc, logger)

	service := app.NewService(ledger, creds, aiGateway, videoGateway, pool, clk, mc, logger)

	handler := httpadapter.NewHandler(service, sink, clk, logger)
	routerCfg := httpadapter.RouterConfig{
		Notifier:       sink,
		IDGen:          idGen,
		Clock:          clk,
		RequestTimeout: cfg.Server.RequestTimeout,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = mc
	}
	router := httpadapter.NewRouter(handler, logger, routerCfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info().
		Bool("gemini_configured", cfg.Providers.Gemini.APIKey != "").
		Bool("youtube_configured", cfg.Providers.YouTube.APIKey != "").
		Bool("notifications", sink.Enabled()).
		Msg("application assembled")

	return &App{
		Config:     cfg,
		Logger:     logger,
		Service:    service,
		HTTPServer: server,
		pool:       pool,
		sink:       sink,
	}, nil
}

// Run starts the HTTP server and blocks until a signal or server error.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown stops the pieces in dependency order: stop accepting
// requests, drain the worker pool, then join in-flight notifications.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.sink != nil {
		a.sink.Close()
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
