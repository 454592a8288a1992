package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/TaskApp/internal/config"
	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/handler"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// runServer запускает HTTP сервер и ждёт отмены ctx.
func runServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	useCases *usecase.UseCases,
	publisher ports.TokenUsagePublisher,
) error {
	h := handler.NewHandler(useCases, logger)
	recorder := handler.NewUsageRecorder(publisher, useCases.UpdateTokenLastUsed, logger)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           handler.NewRouter(h, recorder, cfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", serverAddr, "async_token_usage", publisher != nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping http server")

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
