package providers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/manifest"
	"github.com/km-arc/go-container/framework/metrics"
	"github.com/km-arc/go-container/framework/routing"
)

// Abstracts bound by the framework providers.
const (
	Config  = "config"
	Logger  = "logger"
	Router  = "router"
	Metrics = "metrics"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration as "config".
// A preloaded Config is registered as an instance; otherwise .env is read
// on first resolution.
//
// Bound abstracts:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config != nil {
		app.Instance(Config, p.Config)
	} else {
		envFiles := p.EnvFiles
		app.Singleton(Config, container.Func(func() *config.Config {
			return config.Load(envFiles...)
		}))
	}
	return app.Alias(Config, "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the zap logger as "logger". A given Logger is
// registered as-is; otherwise one is built from "config".
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		app.Instance(Logger, p.Logger)
		return nil
	}
	app.Singleton(Logger, container.Func(func(cfg *config.Config) (*zap.Logger, error) {
		return logging.New(cfg)
	}, Config))
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Actions routed through it
// resolve controllers from the application container.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton(Router, container.Func(
		func(c *container.Container, cfg *config.Config, logger *zap.Logger) *routing.Router {
			return routing.New(
				routing.WithContainer(c),
				routing.WithLogger(logger),
				routing.WithDebug(cfg.App.Debug),
			)
		},
		container.SelfAbstract, Config, Logger,
	))
	return nil
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus collector as "metrics" and, at
// boot, serves it on the router under Path (default "/metrics").
type MetricsServiceProvider struct {
	container.BaseProvider
	Path string
}

func (p *MetricsServiceProvider) Register(app *container.Container) error {
	app.Singleton(Metrics, container.Func(func(c *container.Container) (*metrics.Collector, error) {
		return metrics.New(c, metrics.Options{GoMetrics: true})
	}, container.SelfAbstract))
	return nil
}

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	collector, err := container.Resolve[*metrics.Collector](app, Metrics)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](app, Router)
	if err != nil {
		return err
	}
	path := p.Path
	if path == "" {
		path = "/metrics"
	}
	router.Handle(path, collector.Handler())
	return nil
}

// ── ManifestServiceProvider ───────────────────────────────────────────────────

// ManifestServiceProvider applies a YAML binding manifest. An empty Path
// registers nothing.
type ManifestServiceProvider struct {
	container.BaseProvider
	Path string
}

func (p *ManifestServiceProvider) Register(app *container.Container) error {
	if p.Path == "" {
		return nil
	}
	m, err := manifest.Load(p.Path)
	if err != nil {
		return err
	}
	if err := m.Apply(app); err != nil {
		return fmt.Errorf("%s: %w", p.Path, err)
	}
	app.Logger().Info("manifest applied",
		zap.String("path", p.Path),
		zap.Strings("abstracts", m.Abstracts()))
	return nil
}
