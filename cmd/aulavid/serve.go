package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aulavid/aulavid/internal/api"
	"github.com/aulavid/aulavid/internal/geoip"
	"github.com/aulavid/aulavid/internal/server"
	"github.com/aulavid/aulavid/internal/session"
	"github.com/aulavid/aulavid/web"
)

func serveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile, ".env.local")
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional file with environment variables")

	return cmd
}

func serve(cfg config) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	codec, err := session.NewCodec(cfg.SessionSecret, cfg.SessionMaxAge)
	if err != nil {
		return fmt.Errorf("session codec: %w", err)
	}

	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	locator := geoip.New(cfg.GeoIPDatabase)
	defer locator.Close()

	srv := server.New(server.Config{
		API:            api.NewClient(cfg.APIBaseURL, cfg.APITimeout),
		SessionCodec:   codec,
		StaticFS:       staticFS,
		BaseURL:        cfg.BaseURL,
		MediaOrigin:    cfg.mediaOrigin(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		GuardTimeout:   cfg.GuardTimeout,
		Locator:        locator,
		TrustProxy:     cfg.TrustProxy,
	})
	defer srv.Close()

	log.Printf("remote api: %s", cfg.APIBaseURL)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("aulavid listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-shutdownCh:
	}
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Println("shutdown complete")
	return nil
}
