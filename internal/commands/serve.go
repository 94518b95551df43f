package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cellar/auth"
	db "cellar/internal/database"
	"cellar/internal/handlers"
	"cellar/internal/orders"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, map[string]string{"http.addr": "addr"})
			if err != nil {
				return err
			}
			if cfg.AuthSecret == "" {
				return errors.New("auth.secret is not set, every request would be rejected")
			}

			DB, err := db.Connect(cfg.DB)
			if err != nil {
				return err
			}
			if err := db.Migrate(DB); err != nil {
				return err
			}

			products := db.NewProductRepo(DB)
			composer := orders.NewComposer(products, db.NewOrderRepo(DB))
			h := handlers.New(products, composer)

			srv := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           handlers.Router(h, auth.Init(cfg.AuthSecret), cfg.CORSOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return run(srv)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}

// run держит сервер до SIGINT/SIGTERM и затем дает активным запросам завершиться
func run(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case s := <-sig:
		log.WithField("signal", s.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
