package mrytd

import (
	"github.com/iov-one/mryt/wire"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/x/sigs"
)

const (
	fieldSignatures       = 1
	fieldSendMsg          = 51
	fieldMintMsg          = 52
	fieldDepositMsg       = 60
	fieldWithdrawMsg      = 61
	fieldAccrueYieldMsg   = 62
	fieldCompoundYieldMsg = 63
)

func (tx *Tx) Marshal() ([]byte, error) {
	sigs := make([]wire.Marshaller, len(tx.Signatures))
	for i, s := range tx.Signatures {
		sigs[i] = s
	}
	e := wire.NewEncoder().Repeated(fieldSignatures, sigs...)

	switch s := tx.Sum.(type) {
	case nil:
	case *TxSendMsg:
		e.Message(fieldSendMsg, s.SendMsg)
	case *TxMintMsg:
		e.Message(fieldMintMsg, s.MintMsg)
	case *TxDepositMsg:
		e.Message(fieldDepositMsg, s.DepositMsg)
	case *TxWithdrawMsg:
		e.Message(fieldWithdrawMsg, s.WithdrawMsg)
	case *TxAccrueYieldMsg:
		e.Message(fieldAccrueYieldMsg, s.AccrueYieldMsg)
	case *TxCompoundYieldMsg:
		e.Message(fieldCompoundYieldMsg, s.CompoundYieldMsg)
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown sum: %T", s)
	}
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := wire.NewDecoder(raw)
	for {
		field, ok, err := d.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case fieldSignatures:
			s := &sigs.StdSignature{}
			if err = d.Message(s); err == nil {
				tx.Signatures = append(tx.Signatures, s)
			}
		case fieldSendMsg:
			m := &token.SendMsg{}
			err = d.Message(m)
			tx.Sum = &TxSendMsg{SendMsg: m}
		case fieldMintMsg:
			m := &token.MintMsg{}
			err = d.Message(m)
			tx.Sum = &TxMintMsg{MintMsg: m}
		case fieldDepositMsg:
			m := &vault.DepositMsg{}
			err = d.Message(m)
			tx.Sum = &TxDepositMsg{DepositMsg: m}
		case fieldWithdrawMsg:
			m := &vault.WithdrawMsg{}
			err = d.Message(m)
			tx.Sum = &TxWithdrawMsg{WithdrawMsg: m}
		case fieldAccrueYieldMsg:
			m := &vault.AccrueYieldMsg{}
			err = d.Message(m)
			tx.Sum = &TxAccrueYieldMsg{AccrueYieldMsg: m}
		case fieldCompoundYieldMsg:
			m := &vault.CompoundYieldMsg{}
			err = d.Message(m)
			tx.Sum = &TxCompoundYieldMsg{CompoundYieldMsg: m}
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
}
