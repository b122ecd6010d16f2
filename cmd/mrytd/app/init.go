package mrytd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/crypto"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	defaultCollateralTicker = "LPT"
	defaultReceiptTicker    = "MRYT"
	// devFunds is the collateral given to the generated account.
	devFunds = 123456789
)

// schemaPackages lists the packages that version their models and messages.
var schemaPackages = []string{"sigs", "token", "vault"}

// GenesisOptions is the app_state section of the genesis file.
type GenesisOptions struct {
	Conf             GenesisConf     `json:"conf"`
	InitializeSchema []GenesisSchema `json:"initialize_schema"`
	Tokens           token.Genesis   `json:"tokens"`
}

// GenesisSchema declares the schema version a package starts with.
type GenesisSchema struct {
	Pkg string `json:"pkg"`
	Ver uint32 `json:"ver"`
}

// GenesisConf holds the configuration of all extensions that store it with
// the gconf package.
type GenesisConf struct {
	Migration migration.Configuration `json:"migration"`
	Vault     vault.Configuration     `json:"vault"`
}

// GenInitOptions returns the app state of a development chain, where a
// single account administers the vault and owns the collateral mint.
//
// Arguments are optional: [collateral ticker] [address]. If no address is
// given a new key is generated and printed out, so that it can be imported
// by a client.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := defaultCollateralTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) || ticker == defaultReceiptTicker {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr weave.Address
	if len(args) > 1 {
		var err error
		if addr, err = weave.ParseAddress(args[1]); err != nil {
			return nil, err
		}
	} else {
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	schema := make([]GenesisSchema, 0, len(schemaPackages))
	for _, pkg := range schemaPackages {
		schema = append(schema, GenesisSchema{Pkg: pkg, Ver: 1})
	}

	opts := GenesisOptions{
		InitializeSchema: schema,
		Conf: GenesisConf{
			Migration: migration.Configuration{Admin: addr},
			Vault: vault.Configuration{
				Metadata:         &weave.Metadata{Schema: 1},
				Admin:            addr,
				CollateralAsset:  vault.LPToken,
				CollateralTicker: ticker,
				ReceiptTicker:    defaultReceiptTicker,
			},
		},
		Tokens: token.Genesis{
			Mints: []token.GenesisMint{
				{Ticker: ticker, Authority: addr},
			},
			Wallets: []token.GenesisWallet{
				{Address: addr, Coins: []coin.Coin{coin.NewCoin(devFunds, ticker)}},
			},
		},
	}
	return json.MarshalIndent(opts, "", "  ")
}

// GenerateApp returns the node application storing its state under home.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// an empty home keeps the state in memory
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "mryt.db")
	}

	stack := Stack(vault.DefaultMetrics())
	application, err := Application("mrytd", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	application.WithLogger(logger)
	return application, nil
}

// InlineApp will take a previously prepared CommitStore and return a
// complete Application. It is used to replay blocks against a copy of the
// state.
func InlineApp(kv weave.CommitKVStore, logger log.Logger, debug bool) abci.Application {
	stack := Stack(nil)
	ctx := context.Background()
	store := app.NewStoreApp("mrytd", kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, TxDecoder, stack, nil, debug)
	base.WithInit(Initializers())
	base.WithLogger(logger)
	return base
}

// Initializers returns the genesis initializers of all extensions, in the
// order they must be run. Schema versions are initialized first, and vault
// requires the collateral mint to exist.
func Initializers() weave.Initializer {
	return app.ChainInitializers(
		&migration.Initializer{},
		&token.Initializer{},
		&vault.Initializer{},
	)
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey creates a new ed25519 key pair and returns its address
// together with the JSON encoded keys. The keys can be imported by a client
// to spend what genesis gives to the address.
func GenerateCoinKey() (weave.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
