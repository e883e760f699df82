package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nadzzz/devicely/internal/apps"
	"github.com/nadzzz/devicely/internal/cache"
	"github.com/nadzzz/devicely/internal/config"
	"github.com/nadzzz/devicely/internal/dispatch"
	"github.com/nadzzz/devicely/internal/errtrack"
	"github.com/nadzzz/devicely/internal/health"
	"github.com/nadzzz/devicely/internal/interpreter"
	claudeinterp "github.com/nadzzz/devicely/internal/interpreter/claude"
	geminiinterp "github.com/nadzzz/devicely/internal/interpreter/gemini"
	localinterp "github.com/nadzzz/devicely/internal/interpreter/local"
	openaiinterp "github.com/nadzzz/devicely/internal/interpreter/openai"
	"github.com/nadzzz/devicely/internal/provider"
)

// app holds everything a command needs to run conversions.
type app struct {
	cfg       *config.Config
	registry  *provider.Registry
	factory   *interpreter.Factory
	cache     cache.Cache
	reporter  errtrack.Reporter
	converter *dispatch.Converter
	table     apps.Table

	// redis is set when the cache is Redis-backed, for readiness checks.
	redis *cache.Redis
}

// loadApp reads configuration and credentials and wires the converter.
func loadApp(ctx context.Context, configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	config.SetupLogging(cfg.Logging)

	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, creds.ByProvider())
}

func newApp(ctx context.Context, cfg *config.Config, creds provider.Credentials) (*app, error) {
	a := &app{cfg: cfg, cache: cache.Noop{}, reporter: errtrack.Noop{}}

	a.registry = provider.NewRegistry(provider.Catalog(), cfg.ActiveProvider(), cfg.AI.Model)
	a.registry.Initialize(creds)
	warnMalformedKeys(a.registry, creds)

	if snap := a.registry.Current(); !snap.Usable {
		slog.Warn("active provider has no credential",
			"provider", snap.ID,
			"available", snap.Available)
	}

	a.factory = interpreter.NewFactory(creds,
		interpreter.WithTimeout(cfg.AI.Timeout),
		interpreter.WithRateLimits(cfg.RateLimits()),
		interpreter.WithBaseURLs(cfg.BaseURLs()))
	a.factory.Register(provider.ProtocolOpenAI, openaiinterp.Build)
	a.factory.Register(provider.ProtocolGemini, geminiinterp.Build)
	a.factory.Register(provider.ProtocolClaude, claudeinterp.Build)
	a.factory.Register(provider.ProtocolOllama, localinterp.Build)

	table := apps.Default()
	if cfg.Apps.File != "" {
		loaded, err := apps.LoadFile(cfg.Apps.File)
		if err != nil {
			return nil, fmt.Errorf("loading app table: %w", err)
		}
		table = loaded
		slog.Info("loaded app table", "path", cfg.Apps.File, "apps", table.Len())
	}

	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "redis":
			r, err := cache.NewRedis(ctx, cache.RedisConfig{
				Addr:     cfg.Cache.RedisAddr,
				Password: cfg.Cache.RedisPassword,
				DB:       cfg.Cache.RedisDB,
			})
			if err != nil {
				return nil, fmt.Errorf("connecting response cache: %w", err)
			}
			a.cache, a.redis = r, r
		default:
			a.cache = cache.NewMemory(cfg.Cache.MaxEntries)
		}
		slog.Info("response cache enabled", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL)
	}

	if cfg.ErrorTracking.SentryDSN != "" {
		s, err := errtrack.NewSentry(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, version)
		if err != nil {
			return nil, fmt.Errorf("initialising sentry: %w", err)
		}
		a.reporter = s
		slog.Info("error tracking enabled", "environment", cfg.ErrorTracking.Environment)
	}

	a.table = table
	a.converter = dispatch.New(a.registry, a.factory, table,
		dispatch.WithGeneration(cfg.AI.Temperature, cfg.AI.MaxOutputTokens),
		dispatch.WithCache(a.cache, cfg.Cache.TTL),
		dispatch.WithReporter(a.reporter))
	return a, nil
}

// registerChecks adds readiness checks for the app's dependencies.
func (a *app) registerChecks(h *health.Server) {
	h.AddCheck("providers", func(context.Context) error {
		if len(a.registry.ListAvailable()) == 0 {
			return errors.New("no provider has a credential")
		}
		return nil
	})
	if a.redis != nil {
		h.AddCheck("cache", a.redis.Health)
	}
}

// close releases backends, the cache and buffered error reports.
func (a *app) close() {
	if err := a.factory.Close(); err != nil {
		slog.Error("closing backends", "error", err)
	}
	if err := a.cache.Close(); err != nil {
		slog.Error("closing cache", "error", err)
	}
	a.reporter.Flush(flushTimeout)
}

func warnMalformedKeys(reg *provider.Registry, creds provider.Credentials) {
	for _, d := range reg.ListAvailable() {
		if err := d.ValidateAPIKey(creds[d.ID]); err != nil {
			slog.Warn("credential looks malformed", "provider", d.ID, "env", d.CredentialEnv, "error", err)
		}
	}
}
