package main

import (
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSteve2/robotframework-tools/internal/config"
	redisadapter "github.com/MrSteve2/robotframework-tools/pkg/adapters/redis"
	"github.com/MrSteve2/robotframework-tools/pkg/library"
	"github.com/MrSteve2/robotframework-tools/pkg/observability"
	"github.com/MrSteve2/robotframework-tools/pkg/remote"
	"github.com/MrSteve2/robotframework-tools/pkg/toolslibrary"
)

// catalog maps configuration names to the built-in library templates.
var catalog = map[string]func(opts map[string]any, logger *slog.Logger) (*library.Template, error){
	"tools": func(opts map[string]any, logger *slog.Logger) (*library.Template, error) {
		var cfg toolslibrary.Config
		if err := mapstructure.Decode(opts, &cfg); err != nil {
			return nil, fmt.Errorf("tools options: %w", err)
		}
		cfg.Logger = logger
		return toolslibrary.NewTemplate(cfg)
	},
	"redis": func(opts map[string]any, logger *slog.Logger) (*library.Template, error) {
		return redisadapter.NewTemplate(logger)
	},
}

func buildTemplate(lc config.LibraryConfig, logger *slog.Logger) (*library.Template, error) {
	factory, ok := catalog[lc.Name]
	if !ok {
		return nil, fmt.Errorf("unknown library %q, available: tools, redis", lc.Name)
	}
	return factory(lc.Options, logger)
}

// buildBridge assembles the dispatch bridge from the configuration. The
// returned gatherer is nil when metrics are disabled.
func buildBridge(cfg config.Config, logger *slog.Logger) (*remote.Bridge, prometheus.Gatherer, error) {
	opts := []remote.Option{
		remote.WithLogger(logger),
		remote.WithRegisterKeywords(cfg.RegisterKeywordsEnabled()),
		remote.WithIntrospection(cfg.Introspection),
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		opts = append(opts, remote.WithMetrics(observability.NewMetrics(reg)))
		gatherer = reg
	}

	var libs []*library.Library
	for _, lc := range cfg.Libraries {
		tpl, err := buildTemplate(lc, logger)
		if err != nil {
			return nil, nil, err
		}
		libs = append(libs, tpl.NewInstance())
	}
	for _, lc := range cfg.Importable {
		tpl, err := buildTemplate(lc, logger)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, remote.WithImportable(tpl))
	}
	if len(cfg.AllowImport) > 0 {
		opts = append(opts, remote.WithAllowImport(cfg.AllowImport...))
	}

	bridge, err := remote.NewBridge(libs, opts...)
	if err != nil {
		return nil, nil, err
	}
	return bridge, gatherer, nil
}
