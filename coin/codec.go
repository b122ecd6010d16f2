package coin

import (
	"github.com/iov-one/mryt/wire"
)

func (c *Coin) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		String(1, c.Ticker).
		Uint64(2, c.Amount).
		Result()
}

func (c *Coin) Unmarshal(raw []byte) error {
	*c = Coin{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			c.Ticker, err = d.String()
		case 2:
			c.Amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}
