package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fhfa-go/server/internal/config"
	"fhfa-go/server/internal/database"
	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/router"
	"fhfa-go/server/internal/timer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf := config.Conf
	config.Watch(log)

	if err := database.Init(log, conf.Database); err != nil {
		return err
	}

	opts, err := engineOptions(log, projectRoot, conf)
	if err != nil {
		return err
	}
	store := engine.NewStore(ctx, log, opts)
	defer store.Close()

	driver := timer.NewDriver(log, conf.Assessment.TickInterval, store)
	driver.Start(ctx)

	r := router.Setup(log, store, conf.Server)
	srv := &http.Server{
		Addr:              ":" + conf.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening on http://localhost:" + conf.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to run Gin server", zap.Error(err))
			stop()
			<-driver.Done()
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
			return err
		}
	}
	stop()
	<-driver.Done()
	return nil
}
