package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/mryt/commands/server"
	"github.com/iov-one/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, "config")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0600))
}

func TestLoadConfigDefaults(t *testing.T) {
	home := t.TempDir()

	conf, err := loadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(home), conf)
	assert.Equal(t, server.DefaultBind, conf.ABCIBind)
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
abci_bind = "tcp://0.0.0.0:46658"
http_addr = ""
debug = true
log_file = "mrytd.log"
log_level = "error"
`)

	conf, err := loadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "tcp://0.0.0.0:46658", conf.ABCIBind)
	assert.Equal(t, "", conf.HTTPAddr)
	assert.True(t, conf.Debug)
	assert.Equal(t, "mrytd.log", conf.LogFile)
	assert.Equal(t, "error", conf.LogLevel)
	assert.Equal(t, home, conf.DBDir)
}

func TestLoadConfigEnvironment(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `http_addr = "localhost:9000"`)
	t.Setenv("MRYTD_HTTP_ADDR", "localhost:9100")
	t.Setenv("MRYTD_DB_DIR", "/var/lib/mryt")

	conf, err := loadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9100", conf.HTTPAddr)
	assert.Equal(t, "/var/lib/mryt", conf.DBDir)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]struct {
		content string
	}{
		"malformed file": {
			content: `abci_bind = [`,
		},
		"invalid log size": {
			content: `log_max_size = -1`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, tc.content)
			_, err := loadConfig(home)
			if !errors.ErrInput.Is(err) {
				t.Fatalf("want ErrInput, got %+v", err)
			}
		})
	}
}
