package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/weave/errors"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns the daemon logger. With no log file configured,
// everything is written to stdout. The returned closer must be called
// before exiting to flush the log file.
func newLogger(conf config) (log.Logger, io.Closer, error) {
	var w io.WriteCloser = nopCloser{os.Stdout}
	if conf.LogFile != "" {
		path := conf.LogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(conf.Home, path)
		}
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    conf.LogMaxSize,
			MaxBackups: 5,
			Compress:   true,
		}
	}

	level, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "mryt")
	return log.NewFilter(logger, level), w, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
