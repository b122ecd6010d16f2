package mrytest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Runner provides a translation layer between an ABCI interface and an
// application. It takes care of serializing transactions and creating blocks
// with a controlled block time.
type Runner struct {
	chainID string
	height  int64
	now     time.Time
	t       Tester
	app     abci.Application
}

// NewRunner creates a Runner instance. The first block is created with the
// given time. Use Advance to move the clock forward between blocks.
func NewRunner(t Tester, app abci.Application, chainID string, start time.Time) *Runner {
	return &Runner{
		chainID: chainID,
		now:     start,
		t:       t,
		app:     app,
	}
}

// Now returns the time used for the next block.
func (r *Runner) Now() time.Time {
	return r.now
}

// Advance moves the block clock forward.
func (r *Runner) Advance(d time.Duration) {
	r.now = r.now.Add(d)
}

// InitChain serialize to JSON given genesis and loads it. The genesis state
// is committed with the first block.
func (r *Runner) InitChain(genesis interface{}) {
	r.t.Helper()

	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		r.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}

	if h := r.app.Info(abci.RequestInfo{}).LastBlockHeight; h != 0 {
		r.t.Fatalf("cannot initialize after a block, height=%d", h)
	}
	r.app.InitChain(abci.RequestInitChain{
		Time:          r.now,
		ChainId:       r.chainID,
		AppStateBytes: raw,
	})
	if !r.InBlock(func() error { return nil }) {
		r.t.Fatalf("genesis did not change the state")
	}
}

// CheckTx translates given transaction into ABCI interface and executes.
func (r *Runner) CheckTx(tx weave.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	if res := r.app.CheckTx(raw); res.Code != errors.SuccessABCICode {
		return errors.ABCIError(res.Code, res.Log)
	}
	return nil
}

// DeliverTx translates given transaction into ABCI interface and executes.
// The ABCI error code is mapped back to the registered error, so that
// errors.ErrXyz.Is can be used on the result.
func (r *Runner) DeliverTx(tx weave.Tx) (*weave.DeliverResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal transaction")
	}
	return weave.ParseDeliverOrError(r.app.DeliverTx(raw))
}

// InBlock begins a block and runs given function. All transactions executed
// within given function are part of newly created block. Upon success the
// block is finished and changes committed.
// InBlock returns true if the application state was modified.
//
// Any failure is ending the test instantly.
func (r *Runner) InBlock(executeTx func() error) bool {
	r.t.Helper()

	r.height++
	initialHash := r.app.Info(abci.RequestInfo{}).LastBlockAppHash

	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
			Time:    r.now,
		},
	})

	if err := executeTx(); err != nil {
		r.t.Fatalf("operation failed with %+v", err)
	}

	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})

	finalHash := r.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}
