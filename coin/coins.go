package coin

import (
	"sort"

	"github.com/iov-one/weave/errors"
)

// Coins is the content of a wallet: at most one non zero coin per ticker,
// ordered by ticker.
type Coins []*Coin

// index returns the position of the ticker in the set, or the position it
// must be inserted at when absent.
func (cs Coins) index(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}

// Balance returns the amount of given currency held.
func (cs Coins) Balance(ticker string) uint64 {
	if i, ok := cs.index(ticker); ok {
		return cs[i].Amount
	}
	return 0
}

// Contains returns true if the set holds at least given value.
func (cs Coins) Contains(c Coin) bool {
	return c.IsZero() || cs.Balance(c.Ticker) >= c.Amount
}

// Clone returns a deep copy of the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	cpy := make(Coins, len(cs))
	for i, c := range cs {
		cpy[i] = c.Clone()
	}
	return cpy
}

// Add returns the set increased by c. Zero value coins are ignored. The
// receiver may be modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	i, ok := cs.index(c.Ticker)
	if ok {
		sum, err := cs[i].Add(c)
		if err != nil {
			return nil, err
		}
		cs[i] = &sum
		return cs, nil
	}
	cs = append(cs, nil)
	copy(cs[i+1:], cs[i:])
	cs[i] = &c
	return cs, nil
}

// Subtract returns the set decreased by c. A ticker is removed from the set
// once its amount reaches zero. ErrAmount is returned if the set does not
// hold enough. The receiver may be modified.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	i, ok := cs.index(c.Ticker)
	if !ok {
		return nil, errors.Wrapf(errors.ErrAmount, "no %s to subtract from", c.Ticker)
	}
	rest, err := cs[i].Subtract(c)
	if err != nil {
		return nil, err
	}
	if rest.IsZero() {
		return append(cs[:i], cs[i+1:]...), nil
	}
	cs[i] = &rest
	return cs, nil
}

// Combine returns a new set holding the coins of both sets. Neither set is
// modified.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	for _, c := range o {
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// IsEmpty returns true if the set holds nothing.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Equals returns true if both sets hold the same coins.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if !c.Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate returns an error unless every coin is valid and not zero, and
// tickers are unique and ordered.
func (cs Coins) Validate() error {
	var errs error
	for i, c := range cs {
		if c == nil {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrEmpty, "coin #%d", i))
			continue
		}
		if err := c.Validate(); err != nil {
			errs = errors.Append(errs, errors.Wrapf(err, "coin #%d", i))
		}
		if c.IsZero() {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrState, "zero %s coin", c.Ticker))
		}
		if i > 0 && cs[i-1] != nil && cs[i-1].Ticker >= c.Ticker {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrState, "%s not after %s", c.Ticker, cs[i-1].Ticker))
		}
	}
	return errs
}
