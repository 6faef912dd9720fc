package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"riskradar/internal/engine"
	"riskradar/internal/server"
	"riskradar/internal/source"
	"riskradar/internal/threat"
)

func main() {
	cfg := server.LoadConfig()

	sources := source.DefaultCatalog()
	if cfg.SourcesFile != "" {
		loaded, err := source.Load(cfg.SourcesFile)
		if err != nil {
			slog.Error("load source catalog", "file", cfg.SourcesFile, "err", err)
			os.Exit(1)
		}
		sources = loaded
	}
	slog.Info("catalog loaded", "sources", len(sources), "enabled", len(source.Enabled(sources)))

	store := threat.NewMemoryStore()
	eng := engine.New(sources, store, cfg.Workers, cfg.ScrapeInterval)
	srv := server.New(eng, cfg)

	go srv.StartMetrics(cfg.MetricsAddr)
	go eng.Start(context.Background())

	slog.Info("listening", "addr", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, srv.Router()); err != nil {
		slog.Error("server error", "err", err)
	}
}
