package vault

import (
	"github.com/iov-one/mryt/wire"
	"github.com/iov-one/weave"
)

func (l *Ledger) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Message(1, l.Metadata).
		Bytes(2, l.Admin).
		Uint64(3, l.TotalStaked).
		Uint64(4, l.TotalYield).
		Uint64(5, l.TotalReceiptSupply).
		Result()
}

func (l *Ledger) Unmarshal(raw []byte) error {
	*l = Ledger{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			l.Metadata = &weave.Metadata{}
			err = d.Message(l.Metadata)
		case 2:
			l.Admin, err = d.Bytes()
		case 3:
			l.TotalStaked, err = d.Uint64()
		case 4:
			l.TotalYield, err = d.Uint64()
		case 5:
			l.TotalReceiptSupply, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (p *Position) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Message(1, p.Metadata).
		Bytes(2, p.Owner).
		Uint64(3, p.Amount).
		Int64(4, int64(p.LockStart)).
		Result()
}

func (p *Position) Unmarshal(raw []byte) error {
	*p = Position{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			p.Metadata = &weave.Metadata{}
			err = d.Message(p.Metadata)
		case 2:
			p.Owner, err = d.Bytes()
		case 3:
			p.Amount, err = d.Uint64()
		case 4:
			var v int64
			v, err = d.Int64()
			p.LockStart = weave.UnixTime(v)
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (c *Configuration) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Message(1, c.Metadata).
		Bytes(2, c.Admin).
		Int32(3, int32(c.CollateralAsset)).
		String(4, c.CollateralTicker).
		String(5, c.ReceiptTicker).
		Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			c.Metadata = &weave.Metadata{}
			err = d.Message(c.Metadata)
		case 2:
			c.Admin, err = d.Bytes()
		case 3:
			var v int32
			v, err = d.Int32()
			c.CollateralAsset = CollateralAsset(v)
		case 4:
			c.CollateralTicker, err = d.String()
		case 5:
			c.ReceiptTicker, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (r *YieldRate) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Double(1, r.Rate).
		Result()
}

func (r *YieldRate) Unmarshal(raw []byte) error {
	*r = YieldRate{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			r.Rate, err = d.Double()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (r *OperationResult) Marshal() ([]byte, error) {
	return wire.NewEncoder().
		Uint64(1, r.Amount).
		Result()
}

func (r *OperationResult) Unmarshal(raw []byte) error {
	*r = OperationResult{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			r.Amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func marshalTransfer(md *weave.Metadata, depositor weave.Address, amount uint64) ([]byte, error) {
	return wire.NewEncoder().
		Message(1, md).
		Bytes(2, depositor).
		Uint64(3, amount).
		Result()
}

func unmarshalTransfer(raw []byte) (*weave.Metadata, weave.Address, uint64, error) {
	var (
		md        *weave.Metadata
		depositor weave.Address
		amount    uint64
	)
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil {
			return nil, nil, 0, err
		}
		if !ok {
			return md, depositor, amount, nil
		}
		switch field {
		case 1:
			md = &weave.Metadata{}
			err = d.Message(md)
		case 2:
			depositor, err = d.Bytes()
		case 3:
			amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return nil, nil, 0, err
		}
	}
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return marshalTransfer(m.Metadata, m.Depositor, m.Amount)
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	md, depositor, amount, err := unmarshalTransfer(raw)
	if err != nil {
		return err
	}
	*m = DepositMsg{Metadata: md, Depositor: depositor, Amount: amount}
	return nil
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return marshalTransfer(m.Metadata, m.Depositor, m.Amount)
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	md, depositor, amount, err := unmarshalTransfer(raw)
	if err != nil {
		return err
	}
	*m = WithdrawMsg{Metadata: md, Depositor: depositor, Amount: amount}
	return nil
}

func marshalMetadataOnly(md *weave.Metadata) ([]byte, error) {
	return wire.NewEncoder().
		Message(1, md).
		Result()
}

func unmarshalMetadataOnly(raw []byte) (*weave.Metadata, error) {
	var md *weave.Metadata
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return md, nil
		}
		switch field {
		case 1:
			md = &weave.Metadata{}
			err = d.Message(md)
		default:
			err = d.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
}

func (m *AccrueYieldMsg) Marshal() ([]byte, error) {
	return marshalMetadataOnly(m.Metadata)
}

func (m *AccrueYieldMsg) Unmarshal(raw []byte) error {
	md, err := unmarshalMetadataOnly(raw)
	if err != nil {
		return err
	}
	*m = AccrueYieldMsg{Metadata: md}
	return nil
}

func (m *CompoundYieldMsg) Marshal() ([]byte, error) {
	return marshalMetadataOnly(m.Metadata)
}

func (m *CompoundYieldMsg) Unmarshal(raw []byte) error {
	md, err := unmarshalMetadataOnly(raw)
	if err != nil {
		return err
	}
	*m = CompoundYieldMsg{Metadata: md}
	return nil
}
