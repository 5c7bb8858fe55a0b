package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tychan/site-api/internal/router"
	"github.com/tychan/site-api/pkg/database"
	"github.com/tychan/site-api/pkg/utilities"
)

var (
	serveAddr    string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server (default).",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides HTTP_ADDR")
		c.Flags().BoolVar(&serveMigrate, "migrate", false, "create missing tables before serving")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting site-api")

	if err := utilities.SetSnowflakeNode(cfg.SnowflakeNode); err != nil {
		return err
	}

	// init db
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	sugar.Infow("database connected", "driver", cfg.Database.Driver)

	if serveMigrate || cfg.Database.Driver == database.DriverSQLite {
		if err := database.EnsureSchema(cmd.Context(), db); err != nil {
			return err
		}
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.RegisterRoutes(sugar, db, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// run server in background
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	sugar.Infow("service is running; press Ctrl+C to stop", "addr", addr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		sugar.Errorw("http server failed", "err", err)
		return err
	}

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
	return nil
}
