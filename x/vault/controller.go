package vault

import (
	"math"
	"time"

	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
	"github.com/iov-one/weave/orm"
)

const (
	// MinLockPeriod is the time that must pass since the last deposit
	// before a position can be withdrawn from.
	MinLockPeriod = 7 * 24 * time.Hour

	// MaxWithdrawalPercent is the largest share of a position, in
	// percent, that can be withdrawn with a single operation.
	MaxWithdrawalPercent = 20

	// AccrualPercent is the yield, in percent of the staked total, added
	// by a single accrual.
	AccrualPercent = 1

	// ReinvestDivisor selects the part of the accrued yield that a single
	// compounding moves into the staked funds.
	ReinvestDivisor = 2
)

// Controller executes vault operations. Each operation loads the ledger
// from the store, so a controller holds no state of its own and can be
// shared.
type Controller struct {
	tokens    token.Controller
	ledgers   orm.ModelBucket
	positions orm.ModelBucket
	metrics   *Metrics
}

// NewController returns a controller moving tokens using given token
// controller.
func NewController(tokens token.Controller) *Controller {
	return &Controller{
		tokens:    tokens,
		ledgers:   NewLedgerBucket(),
		positions: NewPositionBucket(),
	}
}

// WithMetrics makes the controller publish the ledger after every
// successful change.
func (c *Controller) WithMetrics(m *Metrics) *Controller {
	c.metrics = m
	return c
}

// Initialize creates the ledger and registers the receipt token mint with
// the vault as the only authority. It fails if the vault was already
// initialized.
func (c *Controller) Initialize(db weave.KVStore, conf *Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "configuration")
	}
	switch err := c.ledgers.Has(db, []byte(ledgerKey)); {
	case err == nil:
		return errors.Wrap(errors.ErrDuplicate, "vault already initialized")
	case !errors.ErrNotFound.Is(err):
		return err
	}
	ledger := &Ledger{
		Metadata: &weave.Metadata{Schema: 1},
		Admin:    conf.Admin,
	}
	if _, err := c.ledgers.Put(db, []byte(ledgerKey), ledger); err != nil {
		return errors.Wrap(err, "cannot save ledger")
	}
	if err := c.tokens.CreateMint(db, conf.ReceiptTicker, conf.MinterAddress()); err != nil {
		return errors.Wrap(err, "receipt mint")
	}
	c.metrics.SetLedger(ledger)
	return nil
}

// Ledger returns the current ledger state.
func (c *Controller) Ledger(db weave.ReadOnlyKVStore) (*Ledger, error) {
	var l Ledger
	if err := c.ledgers.One(db, []byte(ledgerKey), &l); err != nil {
		return nil, errors.Wrap(err, "ledger")
	}
	return &l, nil
}

// Position returns the position of given owner. ErrNotFound is returned if
// the owner never deposited.
func (c *Controller) Position(db weave.ReadOnlyKVStore, owner weave.Address) (*Position, error) {
	var p Position
	if err := c.positions.One(db, owner, &p); err != nil {
		return nil, errors.Wrapf(err, "position %s", owner)
	}
	return &p, nil
}

// GetOrCreatePosition returns the position of given owner. A new, empty
// position is returned if none exists yet. The new position is not stored
// until it is saved by the caller.
func (c *Controller) GetOrCreatePosition(db weave.ReadOnlyKVStore, owner weave.Address) (*Position, error) {
	switch p, err := c.Position(db, owner); {
	case err == nil:
		return p, nil
	case errors.ErrNotFound.Is(err):
		return &Position{
			Metadata: &weave.Metadata{Schema: 1},
			Owner:    owner,
		}, nil
	default:
		return nil, err
	}
}

// Configuration returns the vault configuration.
func (c *Controller) Configuration(db weave.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, configPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "vault configuration")
	}
	return &conf, nil
}

// Deposit moves collateral from the depositor into the custody and issues
// the same amount of receipt tokens. The lock of the depositor position
// starts again at the current block time.
func (c *Controller) Deposit(ctx weave.Context, db weave.KVStore, depositor weave.Address, amount uint64) (*Position, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	now, err := weave.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	lockStart := weave.AsUnixTime(now)

	var pos *Position
	err = c.atomic(db, func(db weave.KVStore) (*Ledger, error) {
		conf, err := c.Configuration(db)
		if err != nil {
			return nil, err
		}
		ledger, err := c.Ledger(db)
		if err != nil {
			return nil, err
		}

		collateral := coin.NewCoin(amount, conf.CollateralTicker)
		if err := c.tokens.Transfer(db, depositor, conf.CustodyAddress(), collateral); err != nil {
			return nil, errors.Wrap(err, "collateral transfer")
		}
		if ledger.TotalStaked, err = coin.Add(ledger.TotalStaked, amount); err != nil {
			return nil, errors.Wrap(err, "total staked")
		}

		receipt := coin.NewCoin(amount, conf.ReceiptTicker)
		if err := c.tokens.Mint(db, depositor, receipt, conf.MinterAddress()); err != nil {
			return nil, errors.Wrap(err, "receipt mint")
		}
		if ledger.TotalReceiptSupply, err = coin.Add(ledger.TotalReceiptSupply, amount); err != nil {
			return nil, errors.Wrap(err, "total receipt supply")
		}

		p, err := c.GetOrCreatePosition(db, depositor)
		if err != nil {
			return nil, err
		}
		pos = p
		if pos.Amount, err = coin.Add(pos.Amount, amount); err != nil {
			return nil, errors.Wrap(err, "position amount")
		}
		if lockStart < pos.LockStart {
			return nil, errors.Wrapf(errors.ErrState, "block time %s before lock start %s", lockStart, pos.LockStart)
		}
		pos.LockStart = lockStart

		if _, err := c.positions.Put(db, depositor, pos); err != nil {
			return nil, errors.Wrap(err, "cannot save position")
		}
		if _, err := c.ledgers.Put(db, []byte(ledgerKey), ledger); err != nil {
			return nil, errors.Wrap(err, "cannot save ledger")
		}
		return ledger, nil
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// Withdraw burns receipt tokens of the depositor and returns the same
// amount of collateral from the custody. The lock period must have passed
// and the amount cannot exceed MaxWithdrawalPercent of the position.
func (c *Controller) Withdraw(ctx weave.Context, db weave.KVStore, depositor weave.Address, amount uint64) (*Position, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	now, err := weave.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}

	var pos *Position
	err = c.atomic(db, func(db weave.KVStore) (*Ledger, error) {
		p, err := c.Position(db, depositor)
		if err != nil {
			return nil, err
		}
		if err := checkWithdrawal(p, weave.AsUnixTime(now), amount); err != nil {
			return nil, err
		}
		pos = p

		conf, err := c.Configuration(db)
		if err != nil {
			return nil, err
		}
		ledger, err := c.Ledger(db)
		if err != nil {
			return nil, err
		}

		receipt := coin.NewCoin(amount, conf.ReceiptTicker)
		if err := c.tokens.Burn(db, depositor, receipt, conf.MinterAddress()); err != nil {
			return nil, errors.Wrap(err, "receipt burn")
		}
		if ledger.TotalReceiptSupply, err = coin.Sub(ledger.TotalReceiptSupply, amount); err != nil {
			return nil, errors.Wrap(err, "total receipt supply")
		}

		collateral := coin.NewCoin(amount, conf.CollateralTicker)
		if err := c.tokens.Transfer(db, conf.CustodyAddress(), depositor, collateral); err != nil {
			return nil, errors.Wrap(err, "collateral transfer")
		}
		if ledger.TotalStaked, err = coin.Sub(ledger.TotalStaked, amount); err != nil {
			return nil, errors.Wrap(err, "total staked")
		}

		if pos.Amount, err = coin.Sub(pos.Amount, amount); err != nil {
			return nil, errors.Wrap(err, "position amount")
		}

		if _, err := c.positions.Put(db, depositor, pos); err != nil {
			return nil, errors.Wrap(err, "cannot save position")
		}
		if _, err := c.ledgers.Put(db, []byte(ledgerKey), ledger); err != nil {
			return nil, errors.Wrap(err, "cannot save ledger")
		}
		return ledger, nil
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// checkWithdrawal ensures that the position is unlocked at given time and
// that the amount is within the withdrawal cap.
func checkWithdrawal(pos *Position, now weave.UnixTime, amount uint64) error {
	if now < pos.LockStart.Add(MinLockPeriod) {
		return errors.Wrapf(ErrEarlyWithdrawal, "locked until %s", pos.LockStart.Add(MinLockPeriod))
	}
	allowed, err := MaxWithdrawal(pos.Amount)
	if err != nil {
		return err
	}
	if amount > allowed {
		return errors.Wrapf(ErrWithdrawalTooHigh, "%d requested, at most %d allowed", amount, allowed)
	}
	return nil
}

// MaxWithdrawal returns the largest amount that can be withdrawn at once
// from a position of given size.
func MaxWithdrawal(positionAmount uint64) (uint64, error) {
	scaled, err := coin.Mul(positionAmount, MaxWithdrawalPercent)
	if err != nil {
		return 0, errors.Wrap(err, "withdrawal cap")
	}
	return scaled / 100, nil
}

// AccrueYield adds AccrualPercent of the staked total to the yield. The
// accrued amount is returned.
func (c *Controller) AccrueYield(db weave.KVStore) (uint64, error) {
	var accrued uint64
	err := c.atomic(db, func(db weave.KVStore) (*Ledger, error) {
		ledger, err := c.Ledger(db)
		if err != nil {
			return nil, err
		}
		scaled, err := coin.Mul(ledger.TotalStaked, AccrualPercent)
		if err != nil {
			return nil, errors.Wrap(err, "yield")
		}
		accrued = scaled / 100
		if ledger.TotalYield, err = coin.Add(ledger.TotalYield, accrued); err != nil {
			return nil, errors.Wrap(err, "total yield")
		}
		if _, err := c.ledgers.Put(db, []byte(ledgerKey), ledger); err != nil {
			return nil, errors.Wrap(err, "cannot save ledger")
		}
		return ledger, nil
	})
	if err != nil {
		return 0, err
	}
	return accrued, nil
}

// CompoundYield moves a part of the accrued yield into the staked total.
// Compounded funds are not credited to any position, so after compounding
// the staked total is greater than the sum of all positions. The
// compounded amount is returned.
func (c *Controller) CompoundYield(ctx weave.Context, db weave.KVStore) (uint64, error) {
	var reinvest uint64
	err := c.atomic(db, func(db weave.KVStore) (*Ledger, error) {
		ledger, err := c.Ledger(db)
		if err != nil {
			return nil, err
		}
		reinvest = ledger.TotalYield / ReinvestDivisor
		if ledger.TotalYield, err = coin.Sub(ledger.TotalYield, reinvest); err != nil {
			return nil, errors.Wrap(err, "total yield")
		}
		if ledger.TotalStaked, err = coin.Add(ledger.TotalStaked, reinvest); err != nil {
			return nil, errors.Wrap(err, "total staked")
		}
		if _, err := c.ledgers.Put(db, []byte(ledgerKey), ledger); err != nil {
			return nil, errors.Wrap(err, "cannot save ledger")
		}
		return ledger, nil
	})
	if err != nil {
		return 0, err
	}
	weave.GetLogger(ctx).Info("auto-compounding yield into staked funds", "amount", reinvest)
	return reinvest, nil
}

// ReportRate returns the yield rate of the vault in percent, rounded to two
// decimal places. Zero is returned when nothing is staked.
func (c *Controller) ReportRate(db weave.ReadOnlyKVStore) (float64, error) {
	ledger, err := c.Ledger(db)
	if err != nil {
		return 0, err
	}
	return yieldRate(ledger), nil
}

func yieldRate(l *Ledger) float64 {
	if l.TotalStaked == 0 {
		return 0
	}
	rate := float64(l.TotalYield) / float64(l.TotalStaked) * 100
	return math.Round(rate*100) / 100
}

// atomic runs fn on a cache wrap of the store if it is supported, so that a
// failing operation leaves no partial writes behind. The ledger returned by
// fn is published once the changes are written.
func (c *Controller) atomic(db weave.KVStore, fn func(weave.KVStore) (*Ledger, error)) error {
	cacheable, ok := db.(weave.CacheableKVStore)
	if !ok {
		ledger, err := fn(db)
		if err != nil {
			return err
		}
		c.metrics.SetLedger(ledger)
		return nil
	}

	cache := cacheable.CacheWrap()
	ledger, err := fn(cache)
	if err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write changes")
	}
	c.metrics.SetLedger(ledger)
	return nil
}
