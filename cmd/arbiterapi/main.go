package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/client"
	"github.com/iov-one/arbiter/cmd/arbiterapi/handlers"
	"github.com/iov-one/arbiter/commands/server"
	"github.com/iov-one/arbiter/errors"
	"github.com/sirupsen/logrus"
)

type configuration struct {
	HTTP       string
	Tendermint string
	LogLevel   string
	LogFile    string
}

func main() {
	conf := configuration{
		HTTP:       env("HTTP", ":8000"),
		Tendermint: env("TENDERMINT", "http://localhost:26657"),
		LogLevel:   env("LOG_LEVEL", "info"),
		LogFile:    env("LOG_FILE", ""),
	}
	logger := server.NewLogrus(conf.LogLevel, os.Stdout, conf.LogFile)
	log := logger.WithField("prefix", "arbiterapi")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, conf, log); err != nil {
		log.WithError(err).Fatal("api server failed")
	}
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// run serves the API until the context is cancelled.
func run(ctx context.Context, conf configuration, log *logrus.Entry) error {
	ledger := client.NewClient(client.NewHTTPConnection(conf.Tendermint))
	api := handlers.NewAPI(ledger, log)

	srv := &http.Server{
		Addr:              conf.HTTP,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":       conf.HTTP,
			"tendermint": conf.Tendermint,
			"version":    arbiter.Version(),
		}).Info("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrState, err.Error())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	return nil
}
