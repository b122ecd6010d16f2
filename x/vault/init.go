package vault

import (
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis saves the vault configuration read from the "conf" genesis
// section, then creates the ledger and the receipt token mint. The
// collateral mint is expected to be declared in the tokens section.
func (Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, db weave.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, configPkg, &conf); err != nil {
		return err
	}
	return NewController(token.NewController()).Initialize(db, &conf)
}
