package main

import (
	"flag"
	"log/slog"
	"os"

	"riskradar/internal/source"
)

func main() {
	file := flag.String("file", "", "source catalog YAML; defaults to the built-in catalog")
	flag.Parse()

	sources := source.DefaultCatalog()
	if *file != "" {
		loaded, err := source.Load(*file)
		if err != nil {
			slog.Error("load catalog", "file", *file, "err", err)
			os.Exit(1)
		}
		sources = loaded
	}

	invalid := 0
	for _, src := range sources {
		v := src.Validate()
		for _, e := range v.Errors {
			slog.Error("invalid source", "name", src.Name, "problem", e)
		}
		for _, warn := range v.Warnings {
			slog.Warn("source warning", "name", src.Name, "warning", warn)
		}
		if !v.Valid {
			invalid++
		}
	}

	slog.Info("catalog checked",
		"sources", len(sources),
		"enabled", len(source.Enabled(sources)),
		"invalid", invalid)
	if invalid > 0 {
		os.Exit(1)
	}
}
