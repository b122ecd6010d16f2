package token

import (
	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
)

func init() {
	migration.MustRegister(1, &Wallet{}, migration.NoModification)
	migration.MustRegister(1, &Mint{}, migration.NoModification)
}

// packageName is used to track the schema version of all models and
// messages declared in this package.
const packageName = "token"

// Wallet holds all the coins owned by a single address. Wallet is stored
// under the owner address.
type Wallet struct {
	Metadata *weave.Metadata `json:"metadata"`
	Coins    coin.Coins      `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) GetMetadata() *weave.Metadata {
	return w.Metadata
}

// Validate requires that all coins are in alphabetical
// order and that each coin is valid in it's own right
func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	errs = errors.AppendField(errs, "Coins", w.Coins.Validate())
	return errs
}

func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{
		Metadata: w.Metadata.Copy(),
		Coins:    w.Coins.Clone(),
	}
}

// NewWalletBucket returns a bucket storing Wallet models under owner
// addresses.
func NewWalletBucket() orm.ModelBucket {
	return migration.NewModelBucket(packageName, orm.NewModelBucket("wallet", &Wallet{}))
}

// Mint is the registration of a token. Only the authority address can
// increase or decrease the supply of that token. Mint is stored under the
// ticker.
type Mint struct {
	Metadata  *weave.Metadata `json:"metadata"`
	Ticker    string          `json:"ticker"`
	Authority weave.Address   `json:"authority"`
	Supply    uint64          `json:"supply"`
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) GetMetadata() *weave.Metadata {
	return m.Metadata
}

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !coin.IsCC(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	return errs
}

func (m *Mint) Copy() orm.CloneableData {
	cpy := *m
	cpy.Metadata = m.Metadata.Copy()
	cpy.Authority = append(weave.Address(nil), m.Authority...)
	return &cpy
}

// NewMintBucket returns a bucket storing Mint models under tickers.
func NewMintBucket() orm.ModelBucket {
	return migration.NewModelBucket(packageName, orm.NewModelBucket("mint", &Mint{}))
}
