package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"meetassist/app/api"
	"meetassist/app/client/langchain"
	"meetassist/app/client/openaicompat"
	"meetassist/app/config"
	"meetassist/app/service/assistant"
	"meetassist/app/service/generation"
	"meetassist/app/service/history"
	"meetassist/app/service/mcptools"
	"meetassist/app/service/suggestion"
	"meetassist/app/service/summary"
	"meetassist/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, newGenerator)
	do.Provide(di, generation.New)
	do.Provide(di, summary.New)
	do.Provide(di, suggestion.New)
	do.Provide(di, history.New)
	do.Provide(di, assistant.New)
	do.Provide(di, api.New)
	do.Provide(di, mcptools.New)

	slog.Info("Service started",
		"provider", cfg.Generation.Provider,
		"model", cfg.Generation.Model,
	)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*api.Server](di).Run(); err != nil {
			slog.Error("HTTP server stopped", "error", err)
		}
		cancel()
	}()

	if cfg.MCP.Enabled {
		go func() {
			if err := do.MustInvoke[*mcptools.Service](di).Serve(appCtx, os.Stdin, os.Stdout); err != nil {
				slog.Error("MCP server stopped", "error", err)
			}
		}()
	}

	<-appCtx.Done()
}

func newGenerator(di *do.Injector) (generation.Generator, error) {
	cfg := do.MustInvoke[*config.Config](di)

	switch cfg.Generation.Provider {
	case config.ProviderLangChain:
		return langchain.NewClient(di)
	default:
		return openaicompat.NewClient(di)
	}
}
