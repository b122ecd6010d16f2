package token

import (
	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/mryt/wire"
	"github.com/iov-one/weave"
)

func coinMarshallers(cs coin.Coins) []wire.Marshaller {
	ms := make([]wire.Marshaller, len(cs))
	for i, c := range cs {
		ms[i] = c
	}
	return ms
}

func (w *Wallet) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Message(1, w.Metadata).
		Repeated(2, coinMarshallers(w.Coins)...).
		Result()
}

func (w *Wallet) Unmarshal(raw []byte) error {
	*w = Wallet{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			w.Metadata = &weave.Metadata{}
			err = d.Message(w.Metadata)
		case 2:
			var c coin.Coin
			if err = d.Message(&c); err == nil {
				w.Coins = append(w.Coins, &c)
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (m *Mint) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Message(1, m.Metadata).
		String(2, m.Ticker).
		Bytes(3, m.Authority).
		Uint64(4, m.Supply).
		Result()
}

func (m *Mint) Unmarshal(raw []byte) error {
	*m = Mint{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Ticker, err = d.String()
		case 3:
			m.Authority, err = d.Bytes()
		case 4:
			m.Supply, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Message(1, m.Metadata).
		Bytes(2, m.Source).
		Bytes(3, m.Destination).
		Message(4, m.Amount).
		String(5, m.Memo).
		Result()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Source, err = d.Bytes()
		case 3:
			m.Destination, err = d.Bytes()
		case 4:
			m.Amount = &coin.Coin{}
			err = d.Message(m.Amount)
		case 5:
			m.Memo, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (m *MintMsg) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Message(1, m.Metadata).
		Bytes(2, m.Destination).
		Message(3, m.Amount).
		Result()
}

func (m *MintMsg) Unmarshal(raw []byte) error {
	*m = MintMsg{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Destination, err = d.Bytes()
		case 3:
			m.Amount = &coin.Coin{}
			err = d.Message(m.Amount)
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}
