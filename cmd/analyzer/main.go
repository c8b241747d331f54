package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/emotiscope/config"
	"github.com/spacesedan/emotiscope/internal/classifier"
	"github.com/spacesedan/emotiscope/internal/clients"
	"github.com/spacesedan/emotiscope/internal/logging"
	"github.com/spacesedan/emotiscope/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.GetAppConfig()
	if config.IsProduction(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	c, err := classifier.New(cfg.Server)
	if err != nil {
		slog.Error("[Main] Failed to initialize classifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer c.Close()

	translator := clients.GetOpenAIClient(cfg.Server.OpenAIKey, cfg.Server.OpenAIModel)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewServer(c, translator).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("[Main] Analyzer listening",
			slog.String("addr", cfg.Server.Addr),
			slog.String("classifier", c.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("[Main] Shutting down analyzer...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
}
