package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mrytd "github.com/iov-one/mryt/cmd/mrytd/app"
	"github.com/iov-one/mryt/commands/server"
	"github.com/iov-one/weave/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const shutdownTimeout = 5 * time.Second

// startCmd runs the ABCI socket server and, unless disabled with an empty
// http_addr, the HTTP read API. Both stop on SIGINT or SIGTERM.
func startCmd(conf config, logger log.Logger, args []string) error {
	flags, err := server.ParseStartFlags(server.StartFlags{
		Bind:  conf.ABCIBind,
		Debug: conf.Debug,
	}, args)
	if err != nil {
		return err
	}

	application, err := mrytd.GenerateApp(conf.DBDir, logger, flags.Debug)
	if err != nil {
		return err
	}
	application = server.Synchronized(application)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.HTTPAddr != "" {
		srv := newHTTPServer(conf.HTTPAddr, newAPI(application, logger.With("module", "api")))
		go func() {
			logger.Info("Starting HTTP API", "addr", conf.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP API failed", "err", err)
				stop()
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Error("HTTP API shutdown", "err", err)
			}
		}()
	}

	if err := server.Serve(ctx, application, flags.Bind, logger); err != nil {
		return errors.Wrap(err, "abci server")
	}
	return nil
}
