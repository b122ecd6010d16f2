package vault

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/store"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/weavetest/assert"
)

const (
	collateralTicker = "LPT"
	receiptTicker    = "MRYT"
)

// genesisTime is the block time of the first block in all tests.
var genesisTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     store.CacheableKVStore
	tokens *token.BaseController
	ctrl   *Controller
	conf   *Configuration
	// issuer is the authority of the collateral mint.
	issuer weave.Address
}

// newFixture returns an initialized vault with the collateral mint
// registered and no deposits.
func newFixture(t testing.TB) *fixture {
	t.Helper()

	f := &fixture{
		db:     newStore(),
		tokens: token.NewController(),
		issuer: weavetest.NewCondition().Address(),
		conf: &Configuration{
			Metadata:         &weave.Metadata{Schema: 1},
			Admin:            weavetest.NewCondition().Address(),
			CollateralAsset:  LPToken,
			CollateralTicker: collateralTicker,
			ReceiptTicker:    receiptTicker,
		},
	}
	f.ctrl = NewController(f.tokens)

	assert.Nil(t, f.tokens.CreateMint(f.db, collateralTicker, f.issuer))
	assert.Nil(t, gconf.Save(f.db, configPkg, f.conf))
	assert.Nil(t, f.ctrl.Initialize(f.db, f.conf))
	return f
}

// fund gives collateral to the owner.
func (f *fixture) fund(t testing.TB, owner weave.Address, amount uint64) {
	t.Helper()
	assert.Nil(t, f.tokens.Mint(f.db, owner, coin.NewCoin(amount, collateralTicker), f.issuer))
}

func (f *fixture) balance(t testing.TB, owner weave.Address, ticker string) uint64 {
	t.Helper()
	n, err := f.tokens.Balance(f.db, owner, ticker)
	assert.Nil(t, err)
	return n
}

func (f *fixture) ledger(t testing.TB) *Ledger {
	t.Helper()
	l, err := f.ctrl.Ledger(f.db)
	assert.Nil(t, err)
	return l
}

// positionsTotal returns the sum of all stored position amounts.
func (f *fixture) positionsTotal(t testing.TB) uint64 {
	t.Helper()
	it, err := f.db.Iterator([]byte("pos:"), []byte("pos;"))
	assert.Nil(t, err)
	defer it.Release()

	var total uint64
	for {
		_, raw, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return total
		}
		assert.Nil(t, err)
		var p Position
		assert.Nil(t, p.Unmarshal(raw))
		total += p.Amount
	}
}

// assertSupplyConservation fails the test if the receipt supply recorded in
// the ledger is not equal to the sum of all positions.
func (f *fixture) assertSupplyConservation(t testing.TB) {
	t.Helper()
	if got, want := f.ledger(t).TotalReceiptSupply, f.positionsTotal(t); got != want {
		t.Fatalf("receipt supply %d, positions total %d", got, want)
	}
}

// newStore returns an in-memory store with the schema of all packages used by
// the vault initialized.
func newStore() store.CacheableKVStore {
	db := store.MemStore()
	migration.MustInitPkg(db, packageName, "token")
	return db
}

func atTime(t time.Time) weave.Context {
	return weave.WithBlockTime(context.Background(), t)
}
