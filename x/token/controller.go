package token

import (
	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/orm"
)

// Controller is the functionality needed by other extensions to work with
// tokens.
type Controller interface {
	// Balance returns the amount of given token owned by the address.
	Balance(db weave.ReadOnlyKVStore, owner weave.Address, ticker string) (uint64, error)

	// Transfer moves coins from the source to the destination wallet. It
	// fails with ErrAmount if the source does not hold enough coins.
	Transfer(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error

	// Mint creates new coins in the destination wallet. Authority must
	// be the address registered with the mint of that ticker.
	Mint(db weave.KVStore, dest weave.Address, amount coin.Coin, authority weave.Address) error

	// Burn destroys coins held by the source wallet. Authority must be
	// the address registered with the mint of that ticker.
	Burn(db weave.KVStore, src weave.Address, amount coin.Coin, authority weave.Address) error

	// CreateMint registers a new token ticker.
	CreateMint(db weave.KVStore, ticker string, authority weave.Address) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	wallets orm.ModelBucket
	mints   orm.ModelBucket
}

var _ Controller = (*BaseController)(nil)

// NewController returns a controller operating on the default buckets.
func NewController() *BaseController {
	return &BaseController{
		wallets: NewWalletBucket(),
		mints:   NewMintBucket(),
	}
}

func (c *BaseController) Balance(db weave.ReadOnlyKVStore, owner weave.Address, ticker string) (uint64, error) {
	w, err := c.wallet(db, owner)
	if err != nil {
		return 0, err
	}
	return w.Coins.Balance(ticker), nil
}

func (c *BaseController) Transfer(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	if _, err := c.mint(db, amount.Ticker); err != nil {
		return err
	}
	if err := c.subtract(db, src, amount); err != nil {
		return err
	}
	return c.add(db, dest, amount)
}

func (c *BaseController) Mint(db weave.KVStore, dest weave.Address, amount coin.Coin, authority weave.Address) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive mint")
	}
	m, err := c.authorizedMint(db, amount.Ticker, authority)
	if err != nil {
		return err
	}
	if m.Supply, err = coin.Add(m.Supply, amount.Amount); err != nil {
		return errors.Wrap(err, "supply")
	}
	if _, err := c.mints.Put(db, []byte(m.Ticker), m); err != nil {
		return errors.Wrap(err, "cannot save mint")
	}
	return c.add(db, dest, amount)
}

func (c *BaseController) Burn(db weave.KVStore, src weave.Address, amount coin.Coin, authority weave.Address) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive burn")
	}
	m, err := c.authorizedMint(db, amount.Ticker, authority)
	if err != nil {
		return err
	}
	if err := c.subtract(db, src, amount); err != nil {
		return err
	}
	if m.Supply, err = coin.Sub(m.Supply, amount.Amount); err != nil {
		return errors.Wrap(err, "supply")
	}
	if _, err := c.mints.Put(db, []byte(m.Ticker), m); err != nil {
		return errors.Wrap(err, "cannot save mint")
	}
	return nil
}

func (c *BaseController) CreateMint(db weave.KVStore, ticker string, authority weave.Address) error {
	switch err := c.mints.Has(db, []byte(ticker)); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "mint %s", ticker)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	m := &Mint{
		Metadata:  &weave.Metadata{Schema: 1},
		Ticker:    ticker,
		Authority: authority,
	}
	if _, err := c.mints.Put(db, []byte(ticker), m); err != nil {
		return errors.Wrap(err, "cannot save mint")
	}
	return nil
}

// issue adds coins to a wallet and increases the supply without an
// authority check. It is used only when loading the genesis state.
func (c *BaseController) issue(db weave.KVStore, dest weave.Address, amount coin.Coin) error {
	m, err := c.mint(db, amount.Ticker)
	if err != nil {
		return err
	}
	if m.Supply, err = coin.Add(m.Supply, amount.Amount); err != nil {
		return errors.Wrap(err, "supply")
	}
	if _, err := c.mints.Put(db, []byte(m.Ticker), m); err != nil {
		return errors.Wrap(err, "cannot save mint")
	}
	return c.add(db, dest, amount)
}

func (c *BaseController) mint(db weave.ReadOnlyKVStore, ticker string) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, []byte(ticker), &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", ticker)
	}
	return &m, nil
}

func (c *BaseController) authorizedMint(db weave.ReadOnlyKVStore, ticker string, authority weave.Address) (*Mint, error) {
	m, err := c.mint(db, ticker)
	if err != nil {
		return nil, err
	}
	if !m.Authority.Equals(authority) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the %s mint authority", authority, ticker)
	}
	return m, nil
}

// wallet returns the wallet of given owner or an empty one if none was
// stored yet.
func (c *BaseController) wallet(db weave.ReadOnlyKVStore, owner weave.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.wallets.One(db, owner, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

func (c *BaseController) add(db weave.KVStore, owner weave.Address, amount coin.Coin) error {
	w, err := c.wallet(db, owner)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return errors.Wrapf(err, "cannot add to %s wallet", owner)
	}
	if _, err := c.wallets.Put(db, owner, w); err != nil {
		return errors.Wrap(err, "cannot save wallet")
	}
	return nil
}

func (c *BaseController) subtract(db weave.KVStore, owner weave.Address, amount coin.Coin) error {
	w, err := c.wallet(db, owner)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Subtract(amount); err != nil {
		return errors.Wrapf(err, "insufficient funds in %s wallet", owner)
	}
	if _, err := c.wallets.Put(db, owner, w); err != nil {
		return errors.Wrap(err, "cannot save wallet")
	}
	return nil
}
