package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/inventory_system/internal/cache"
	"github.com/Skotchmaster/inventory_system/internal/events"
	"github.com/Skotchmaster/inventory_system/internal/httpserver"
	"github.com/Skotchmaster/inventory_system/internal/identity"
	"github.com/Skotchmaster/inventory_system/internal/search"
	"github.com/Skotchmaster/inventory_system/internal/service"
	pkgdb "github.com/Skotchmaster/inventory_system/pkg/db"
	"github.com/Skotchmaster/inventory_system/pkg/tokens"
)

// inventory serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		return serve(rt)
	},
}

func serve(rt *runtime) error {
	l := rt.logger

	ts, err := tokens.NewService(rt.cfg.JWTSecret)
	if err != nil {
		return err
	}
	if len(rt.cfg.JWTSecret) == 0 {
		l.Warn("jwt_secret_generated", "reason", "JWT_SECRET not set, tokens will not survive a restart")
	}

	publisher := events.New(rt.cfg.KafkaBrokers)
	defer func() {
		if err := publisher.Close(); err != nil {
			l.Warn("kafka_close_error", "error", err)
		}
	}()

	idx, err := search.Connect(rt.cfg.ESURL, rt.cfg.ESUser, rt.cfg.ESPassword)
	if err != nil {
		return err
	}
	if idx.Enabled() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := idx.Ping(pingCtx); err != nil {
			l.Warn("elasticsearch_unavailable", "error", err)
		}
		cancel()
	}

	userCache := cache.New(cache.Connect(rt.cfg.RedisAddr), cache.DefaultTTL)
	defer func() { _ = userCache.Close() }()

	e := httpserver.New(&httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: service.NewAuthService(rt.repo, ts, publisher)},
		Orders:    &httpserver.OrderHTTP{Svc: service.NewOrderService(rt.repo, rt.repo, publisher)},
		Products:  &httpserver.ProductHTTP{Svc: service.NewProductService(rt.repo, idx)},
		Suppliers: &httpserver.SupplierHTTP{Svc: service.NewSupplierService(rt.repo)},
		Resolver:  identity.NewResolver(ts, rt.repo, userCache),
		Ready:     func(ctx context.Context) error { return pkgdb.Ping(ctx, rt.db) },
		Logger:    l,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(rt.cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Warn("shutdown_error", "error", err)
	}
	l.Info("server_stopped")
	return nil
}
