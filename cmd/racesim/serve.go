package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/api"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/config"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/logger"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/sessionstore"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP, one race session per client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe listens on the configured port and serves internal/api's router
// until ctx is cancelled, then shuts the server down with a 5s grace
// period, in the same shape as the teacher's own run(ctx, logger, config).
func runServe(ctx context.Context) error {
	log, file := logger.New()
	defer file.Close()

	settings := config.LoadServerSettings()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", settings.Port))
	if err != nil {
		return fmt.Errorf("serve: listen: %w", err)
	}

	h := api.NewHandler(sessionstore.New(), log)
	s := &http.Server{Handler: h.Routes()}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", ln.Addr().String())
		err := s.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}
