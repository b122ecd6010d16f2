package coin

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/iov-one/weave/errors"
)

// IsCC reports whether the ticker is a three or four upper case letters
// currency code.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a single fungible asset. Amounts are indivisible
// units, there is no fractional part.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

// NewCoin returns a coin of given amount and ticker.
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp is NewCoin returning a pointer.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns the ticker.
func (c Coin) ID() string {
	return c.Ticker
}

// Add returns the sum of both coins. ErrCurrency is returned for coins of a
// different ticker and ErrOverflow if the sum does not fit in uint64.
func (c Coin) Add(o Coin) (Coin, error) {
	// A zero coin without a ticker is neutral.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", c.Ticker, o.Ticker)
	}
	sum, err := Add(c.Amount, o.Amount)
	if err != nil {
		return Coin{}, errors.Wrapf(err, "adding %d to %s", o.Amount, c)
	}
	c.Amount = sum
	return c, nil
}

// Subtract given amount. ErrAmount is returned if the value of this coin is
// not big enough.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	if c.Amount < o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrAmount, "cannot subtract %s from %s", o, c)
	}
	c.Amount -= o.Amount
	return c, nil
}

// Compare orders two coins by amount only, tickers are ignored. The result
// is 1, 0 or -1 when c is above, equal to or below o.
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals reports whether both ticker and amount match.
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty reports whether c is nil or holds nothing.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero reports a zero amount.
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive reports a non zero amount.
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE reports whether c has the ticker of o and holds at least as much.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType reports whether both coins share a ticker.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone returns a copy of c that can be modified independently.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate ensures that the coin has a valid currency code. Any amount is
// accepted, so you may want to make other checks in your business logic.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker)
	}
	return nil
}

// String provides a human readable representation of the coin. For a valid
// coin the result can be parsed back using ParseHumanFormat.
func (c Coin) String() string {
	s := strconv.FormatUint(c.Amount, 10)
	if c.Ticker != "" {
		s += " " + c.Ticker
	}
	return s
}

// UnmarshalJSON accepts both the human readable "<amount> <ticker>" string
// and the structured {"ticker": ..., "amount": ...} form.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Decoding into Coin would recurse into this method.
	var coin struct {
		Ticker string
		Amount uint64
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	c.Ticker = coin.Ticker
	c.Amount = coin.Amount
	return nil
}

var humanCoinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// ParseHumanFormat parse a human readable coin representation. Accepted
// format is a string:
//   "<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q", m[1])
	}
	return NewCoin(amount, m[2]), nil
}

// Set parses the human readable form into c, so that a coin can be used
// as a command line flag.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
