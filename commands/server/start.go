package server

import (
	"context"
	"flag"

	"github.com/iov-one/weave/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"

	// DefaultBind is the address tendermint connects to by default.
	DefaultBind = "tcp://localhost:26658"
)

// StartFlags are the command line options of the start command.
type StartFlags struct {
	Bind  string
	Debug bool
}

// ParseStartFlags parses the start command arguments. Given defaults are
// used for flags that are not present.
func ParseStartFlags(defaults StartFlags, args []string) (StartFlags, error) {
	res := defaults
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&res.Bind, flagBind, defaults.Bind, "address server listens on")
	startFlags.BoolVar(&res.Debug, flagDebug, defaults.Debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return res, errors.Wrap(errors.ErrInput, err.Error())
	}
	return res, nil
}

// Serve runs the ABCI socket server for the application until the context
// is cancelled.
func Serve(ctx context.Context, app abci.Application, addr string, logger log.Logger) error {
	logger.Info("Starting ABCI app", "bind", addr)

	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start abci server")
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	return svr.Stop()
}
