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
	"go.uber.org/zap"

	"github.com/nathoo/drgrpg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the turn API over HTTP",
	Long: `Loads the world, opens the player store, and answers
POST /game/api/turn until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		eng, err := a.engine()
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              a.cfg.Listen,
			Handler:           server.New(eng, a.log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			a.log.Info("listening",
				zap.String("addr", a.cfg.Listen),
				zap.Int("rooms", len(a.world.Catalog.Rooms)),
				zap.String("store", a.cfg.Store.Driver),
			)
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.log.Info("shutting down")
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
