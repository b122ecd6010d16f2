package vault

import (
	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
)

func init() {
	migration.MustRegister(1, &Ledger{}, migration.NoModification)
	migration.MustRegister(1, &Position{}, migration.NoModification)
}

const (
	// packageName is used to track the schema version of all models and
	// messages declared in this package.
	packageName = "vault"

	// ledgerKey is the key of the only ledger in the ledger bucket.
	ledgerKey = "ledger"

	// configPkg is the name under which the configuration is saved using
	// gconf.
	configPkg = "vault"
)

// Ledger holds the global vault counters. There is exactly one ledger,
// created when loading the genesis.
type Ledger struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Admin is recorded when the vault is created. No operation requires
	// it.
	Admin              weave.Address `json:"admin"`
	TotalStaked        uint64        `json:"total_staked"`
	TotalYield         uint64        `json:"total_yield"`
	TotalReceiptSupply uint64        `json:"total_receipt_supply"`
}

var _ orm.Model = (*Ledger)(nil)

func (l *Ledger) GetMetadata() *weave.Metadata {
	return l.Metadata
}

func (l *Ledger) Copy() orm.CloneableData {
	cpy := *l
	cpy.Metadata = l.Metadata.Copy()
	cpy.Admin = append(weave.Address(nil), l.Admin...)
	return &cpy
}

func (l *Ledger) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", l.Metadata.Validate())
	errs = errors.AppendField(errs, "Admin", l.Admin.Validate())
	return errs
}

// NewLedgerBucket returns a bucket holding the ledger singleton.
func NewLedgerBucket() orm.ModelBucket {
	return migration.NewModelBucket(packageName, orm.NewModelBucket("_vault", &Ledger{}))
}

// Position is the stake of a single depositor. Position is stored under
// the owner address.
type Position struct {
	Metadata *weave.Metadata `json:"metadata"`
	Owner    weave.Address   `json:"owner"`
	Amount   uint64          `json:"amount"`
	// LockStart is the block time of the most recent deposit.
	LockStart weave.UnixTime `json:"lock_start"`
}

var _ orm.Model = (*Position)(nil)

func (p *Position) GetMetadata() *weave.Metadata {
	return p.Metadata
}

func (p *Position) Copy() orm.CloneableData {
	cpy := *p
	cpy.Metadata = p.Metadata.Copy()
	cpy.Owner = append(weave.Address(nil), p.Owner...)
	return &cpy
}

func (p *Position) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", p.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", p.Owner.Validate())
	if p.LockStart < 0 {
		errs = errors.Append(errs, errors.Field("LockStart", errors.ErrInput, "negative time"))
	}
	return errs
}

// NewPositionBucket returns a bucket storing Position models under owner
// addresses.
func NewPositionBucket() orm.ModelBucket {
	return migration.NewModelBucket(packageName, orm.NewModelBucket("pos", &Position{}))
}

// Configuration is the vault setup, saved using gconf.
type Configuration struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Admin is copied into the ledger on initialization.
	Admin           weave.Address   `json:"admin"`
	CollateralAsset CollateralAsset `json:"collateral_asset"`
	// CollateralTicker is the token accepted for deposits.
	CollateralTicker string `json:"collateral_ticker"`
	// ReceiptTicker is the token issued to depositors. The vault owns the
	// mint of this token.
	ReceiptTicker string `json:"receipt_ticker"`
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Admin", c.Admin.Validate())
	errs = errors.AppendField(errs, "CollateralAsset", c.CollateralAsset.Validate())
	if !coin.IsCC(c.CollateralTicker) {
		errs = errors.Append(errs, errors.Field("CollateralTicker", errors.ErrCurrency, "invalid ticker %q", c.CollateralTicker))
	}
	if !coin.IsCC(c.ReceiptTicker) {
		errs = errors.Append(errs, errors.Field("ReceiptTicker", errors.ErrCurrency, "invalid ticker %q", c.ReceiptTicker))
	} else if c.ReceiptTicker == c.CollateralTicker {
		errs = errors.Append(errs, errors.Field("ReceiptTicker", errors.ErrCurrency, "must differ from the collateral ticker"))
	}
	return errs
}

// CustodyCondition is the condition owning all deposited collateral.
func (c *Configuration) CustodyCondition() weave.Condition {
	return weave.NewCondition("vault", "custody", []byte(c.CollateralTicker))
}

// CustodyAddress is the wallet holding all deposited collateral.
func (c *Configuration) CustodyAddress() weave.Address {
	return c.CustodyCondition().Address()
}

// MinterCondition is the condition registered as the receipt token mint
// authority.
func (c *Configuration) MinterCondition() weave.Condition {
	return weave.NewCondition("vault", "minter", []byte(c.ReceiptTicker))
}

// MinterAddress is the receipt token mint authority.
func (c *Configuration) MinterAddress() weave.Address {
	return c.MinterCondition().Address()
}

// YieldRate is the annual yield rate in percent, rounded to two decimal
// places. It is computed on demand and never stored.
type YieldRate struct {
	Rate float64 `json:"rate"`
}

// OperationResult is returned in the deliver result of the yield
// operations.
type OperationResult struct {
	// Amount is the yield accrued or the yield compounded.
	Amount uint64 `json:"amount"`
}
