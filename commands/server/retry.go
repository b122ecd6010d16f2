package server

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	iavlstore "github.com/iov-one/weave/store/iavl"
	"github.com/tendermint/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"
)

const (
	flagUntilError = "error"
	flagMaxTries   = "max"
)

type retryArgs struct {
	dbPath     string
	blockPath  string
	debug      bool
	untilError bool
	maxTries   int
}

func parseRetryArgs(args []string) (retryArgs, error) {
	if len(args) < 2 {
		return retryArgs{}, errors.Wrap(errors.ErrInput,
			"usage: cmd retry <path to mryt.db> <path to block.json> [-debug] [-error] [-max=N]")
	}
	res := retryArgs{
		dbPath:    args[0],
		blockPath: args[1],
	}
	retryFlags := flag.NewFlagSet("retry", flag.ContinueOnError)
	retryFlags.BoolVar(&res.debug, flagDebug, false, "print out debug info")
	retryFlags.BoolVar(&res.untilError, flagUntilError, false, "retry multiple times until an error appears")
	retryFlags.IntVar(&res.maxTries, flagMaxTries, 10, "maximum number of times to retry if -error is passed")
	if err := retryFlags.Parse(args[2:]); err != nil {
		return res, errors.Wrap(errors.ErrInput, err.Error())
	}
	return res, nil
}

// InlineAppGenerator builds the application on top of an already opened
// store.
type InlineAppGenerator func(weave.CommitKVStore, log.Logger, bool) abci.Application

// RetryCmd replays the last committed block of a stored vault state. The
// state is rolled back by one version and the block transactions are
// delivered again, so that the recomputed app hash can be compared with the
// committed one. With -error the replay is repeated, at most -max times,
// until a different hash shows up.
func RetryCmd(makeApp InlineAppGenerator, logger log.Logger, out io.Writer, args []string) error {
	flags, err := parseRetryArgs(args)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "--> Loading Block")
	blockJSON, err := ioutil.ReadFile(flags.blockPath)
	if err != nil {
		return errors.Wrap(errors.ErrNotFound, err.Error())
	}
	var block *types.Block
	if err := cdc.UnmarshalJSON(blockJSON, &block); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	fmt.Fprintln(out, "--> Loading Database")
	tree, ver, err := readTree(flags.dbPath)
	if err != nil {
		return errors.Wrap(err, "error reading abci data")
	}
	if ver != block.Header.Height {
		return errors.Wrapf(errors.ErrState,
			"block is at height %d, stored state at %d", block.Header.Height, ver)
	}

	build := func(kv weave.CommitKVStore) abci.Application {
		return makeApp(kv, logger, flags.debug)
	}
	r := rerun{out: out, build: build}
	return r.retryBlock(tree, block, flags.untilError, flags.maxTries)
}

func readTree(dir string) (*iavl.MutableTree, int64, error) {
	db, err := openDb(dir)
	if err != nil {
		return nil, 0, err
	}
	tree := iavl.NewMutableTree(db, iavlstore.DefaultCacheSize)
	ver, err := tree.Load()
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if ver == 0 {
		return nil, 0, errors.Wrap(errors.ErrState, "iavl tree is empty")
	}
	return tree, ver, nil
}

type rerun struct {
	out   io.Writer
	build func(weave.CommitKVStore) abci.Application
}

func (r rerun) retryBlock(tree *iavl.MutableTree, block *types.Block, untilError bool, maxTries int) error {
	fmt.Fprintf(r.out, "Original Height: %d\n", block.Header.Height)
	fmt.Fprintf(r.out, "Original Hash: %X\n", tree.Hash())

	same, err := r.rerunBlock(tree, block)
	if err != nil {
		return err
	}
	for same && untilError && maxTries > 0 {
		maxTries--
		if same, err = r.rerunBlock(tree, block); err != nil {
			return err
		}
	}
	return nil
}

func (r rerun) rerunBlock(tree *iavl.MutableTree, block *types.Block) (bool, error) {
	origHash := tree.Hash()
	backHeight := block.Header.Height - 1

	fmt.Fprintf(r.out, "Rollback to height: %d\n", backHeight)
	if _, err := tree.LoadVersionForOverwriting(backHeight); err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	app := r.build(iavlstore.NewCommitStoreFromTree(tree))

	fmt.Fprintln(r.out, "---> Begin Block")
	app.BeginBlock(abci.RequestBeginBlock{Hash: block.Header.Hash(), Header: toAbciHeader(block.Header)})
	for i, tx := range block.Txs {
		res := app.DeliverTx(tx)
		fmt.Fprintf(r.out, "---> Deliver Tx %d: code=%d %s\n", i, res.Code, res.Log)
	}
	fmt.Fprintln(r.out, "---> End Block")
	app.EndBlock(abci.RequestEndBlock{Height: block.Header.Height})
	hash := app.Commit().Data
	fmt.Fprintf(r.out, "Recomputed Hash: %X\n", hash)

	return bytes.Equal(origHash, hash), nil
}

// toAbciHeader copies the fields the application reads from the header.
func toAbciHeader(h types.Header) abci.Header {
	return abci.Header{
		ChainID:  h.ChainID,
		Height:   h.Height,
		Time:     h.Time,
		NumTxs:   h.NumTxs,
		TotalTxs: h.TotalTxs,
		AppHash:  h.AppHash,
	}
}
