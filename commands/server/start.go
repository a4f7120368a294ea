package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/arbiter/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultBind is the address the abci server listens on unless
// configured otherwise.
const DefaultBind = "tcp://localhost:26658"

// StartCmd initializes the application, and runs the abci server until the
// process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				select {
				case <-sig:
					cancel()
				case <-ctx.Done():
				}
			}()
			return startServer(ctx, gen, logger)
		},
	}
}

func startServer(ctx context.Context, gen AppGenerator, logger log.Logger) error {
	opts := Options{
		Home:   viper.GetString(FlagHome),
		Store:  viper.GetString(FlagStore),
		Logger: logger,
		Debug:  viper.GetBool(FlagDebug),
	}
	app, err := gen(opts)
	if err != nil {
		return err
	}

	addr := viper.GetString(FlagBind)
	if addr == "" {
		addr = DefaultBind
	}
	return serve(ctx, app, addr, logger)
}

// serve runs the abci server until ctx is done.
func serve(ctx context.Context, app abci.Application, addr string, logger log.Logger) error {
	logger.Info("Starting ABCI app", "bind", addr)

	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	return svr.Stop()
}
