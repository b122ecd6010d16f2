package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const tendermintGenesis = `{
  "genesis_time": "2024-03-01T12:00:00Z",
  "chain_id": "test-chain-Q8kTb5",
  "validators": []
}`

func setupHome(t *testing.T, genesis string) string {
	t.Helper()
	home, err := ioutil.TempDir("", "mrytd-home")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(home) })

	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	if genesis != "" {
		path := filepath.Join(home, "config", "genesis.json")
		require.NoError(t, ioutil.WriteFile(path, []byte(genesis), 0600))
	}
	return home
}

func genState(args []string) (json.RawMessage, error) {
	ticker := "LPT"
	if len(args) > 0 {
		ticker = args[0]
	}
	return json.Marshal(map[string]string{"ticker": ticker})
}

func readAppState(t *testing.T, home string) map[string]string {
	t.Helper()
	doc, err := readGenesis(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	assert.Equal(t, `"test-chain-Q8kTb5"`, string(doc["chain_id"]))
	var state map[string]string
	require.NoError(t, json.Unmarshal(doc[appStateKey], &state))
	return state
}

func TestInitCmd(t *testing.T) {
	logger := log.NewNopLogger()
	home := setupHome(t, tendermintGenesis)

	require.NoError(t, InitCmd(genState, logger, home, nil))
	assert.Equal(t, map[string]string{"ticker": "LPT"}, readAppState(t, home))

	err := InitCmd(genState, logger, home, []string{"ETH"})
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	require.NoError(t, InitCmd(genState, logger, home, []string{"-f", "ETH"}))
	assert.Equal(t, map[string]string{"ticker": "ETH"}, readAppState(t, home))
}

func TestInitCmdErrors(t *testing.T) {
	logger := log.NewNopLogger()

	err := InitCmd(genState, logger, setupHome(t, ""), nil)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)

	err = InitCmd(genState, logger, setupHome(t, "{not json"), nil)
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	broken := func([]string) (json.RawMessage, error) { return json.RawMessage(`{"a":`), nil }
	err = InitCmd(broken, logger, setupHome(t, tendermintGenesis), nil)
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	failing := func([]string) (json.RawMessage, error) { return nil, errors.ErrCurrency }
	err = InitCmd(failing, logger, setupHome(t, tendermintGenesis), nil)
	assert.True(t, errors.ErrCurrency.Is(err), "%+v", err)
}
