package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-gateway/infrastructure/cache"
	"media-gateway/infrastructure/clients/ffmpeg"
	"media-gateway/infrastructure/clients/ytdlp"
	"media-gateway/infrastructure/configuration"
	"media-gateway/infrastructure/logger"
	"media-gateway/infrastructure/pipeline"
	"media-gateway/infrastructure/updater"
	httpHandler "media-gateway/interfaces/http"
	"media-gateway/server"
	"media-gateway/usecase"

	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	cfg := configuration.C

	extractor := ytdlp.NewClient(
		cfg.Downloader.YtDlpPath,
		cfg.Downloader.SocketTimeoutSeconds,
		cfg.Downloader.ProcessTimeout(),
	)
	transcoder := ffmpeg.NewTranscoder(cfg.Downloader.FfmpegPath)
	runner := pipeline.NewRunner()
	infoCache := cache.NewInfoCache(cfg.Downloader.CacheTTL())

	downloadUsecase := usecase.NewDownloadUsecase(extractor, transcoder, runner, infoCache)
	downloadHandler := httpHandler.NewDownloadHandler(downloadUsecase)
	healthHandler := httpHandler.NewHealthHandler(extractor)

	router := server.InitiateRouter(downloadHandler, healthHandler, cfg.Cors.AllowOrigins, cfg.Downloader.FrontendDist)

	// Extractor self-update loop, independent of request handling.
	selfUpdater := updater.NewUpdater(cfg.Downloader.UpdateInterval(), cfg.Downloader.UpdateCommand)
	g.Go(func() error {
		err := selfUpdater.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	port := cfg.App.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
		// Downloads stream for an unbounded time; no write timeout.
		ReadTimeout:  0,
		WriteTimeout: 0,
	}
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
