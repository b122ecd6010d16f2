package token

import (
	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
)

const optKey = "tokens"

// GenesisMint is used to parse the json from genesis file
type GenesisMint struct {
	Ticker    string        `json:"ticker"`
	Authority weave.Address `json:"authority"`
}

// GenesisWallet is used to parse the json from genesis file
// use weave.Address, so address in hex, not base64
type GenesisWallet struct {
	Address weave.Address `json:"address"`
	Coins   []coin.Coin   `json:"coins"`
}

// Genesis is the content of the "tokens" genesis section.
type Genesis struct {
	Mints   []GenesisMint   `json:"mints"`
	Wallets []GenesisWallet `json:"wallets"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will register all mints and fund all wallets declared in the
// genesis. Every coin must use a ticker of a declared mint.
func (Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, db weave.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	control := NewController()
	for i, m := range gen.Mints {
		if err := control.CreateMint(db, m.Ticker, m.Authority); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}
	for i, w := range gen.Wallets {
		if err := w.Address.Validate(); err != nil {
			return errors.Wrapf(err, "wallet #%d", i)
		}
		for _, c := range w.Coins {
			if err := control.issue(db, w.Address, c); err != nil {
				return errors.Wrapf(err, "wallet #%d", i)
			}
		}
	}
	return nil
}
