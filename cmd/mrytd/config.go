package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/mryt/commands/server"
	"github.com/iov-one/weave/errors"
	"github.com/spf13/viper"
)

const (
	configFileName = "mrytd.toml"
	envPrefix      = "MRYTD"
)

// config is the daemon setup. It is loaded from <home>/config/mrytd.toml,
// environment variables prefixed with MRYTD_ take precedence.
type config struct {
	Home     string
	ABCIBind string
	HTTPAddr string
	DBDir    string
	Debug    bool
	LogFile  string
	LogLevel string
	// LogMaxSize is the size in megabytes at which the log file is rotated.
	LogMaxSize int
}

func defaultConfig(home string) config {
	return config{
		Home:       home,
		ABCIBind:   server.DefaultBind,
		HTTPAddr:   "localhost:8000",
		DBDir:      home,
		LogLevel:   "info",
		LogMaxSize: 100,
	}
}

// loadConfig reads the daemon configuration. A missing configuration file is
// not an error, defaults and environment are used instead.
func loadConfig(home string) (config, error) {
	defaults := defaultConfig(home)

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("abci_bind", defaults.ABCIBind)
	v.SetDefault("http_addr", defaults.HTTPAddr)
	v.SetDefault("db_dir", defaults.DBDir)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_max_size", defaults.LogMaxSize)

	path := filepath.Join(home, "config", configFileName)
	switch _, err := os.Stat(path); {
	case err == nil:
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return defaults, errors.Wrapf(errors.ErrInput, "config file %s: %s", path, err)
		}
	case !os.IsNotExist(err):
		return defaults, errors.Wrapf(errors.ErrInput, "config file %s: %s", path, err)
	}

	conf := config{
		Home:       home,
		ABCIBind:   v.GetString("abci_bind"),
		HTTPAddr:   v.GetString("http_addr"),
		DBDir:      v.GetString("db_dir"),
		Debug:      v.GetBool("debug"),
		LogFile:    v.GetString("log_file"),
		LogLevel:   v.GetString("log_level"),
		LogMaxSize: v.GetInt("log_max_size"),
	}
	if conf.LogMaxSize <= 0 {
		return conf, errors.Wrapf(errors.ErrInput, "log_max_size must be positive, got %d", conf.LogMaxSize)
	}
	return conf, nil
}
