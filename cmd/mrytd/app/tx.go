package mrytd

import (
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/x/sigs"
)

// Tx contains the message
type Tx struct {
	// Sum holds exactly one of the TxXyz wrappers declared below.
	Sum        isTxSum
	Signatures []*sigs.StdSignature
}

type isTxSum interface {
	isTxSum()
}

type TxSendMsg struct{ SendMsg *token.SendMsg }
type TxMintMsg struct{ MintMsg *token.MintMsg }
type TxDepositMsg struct{ DepositMsg *vault.DepositMsg }
type TxWithdrawMsg struct{ WithdrawMsg *vault.WithdrawMsg }
type TxAccrueYieldMsg struct{ AccrueYieldMsg *vault.AccrueYieldMsg }
type TxCompoundYieldMsg struct{ CompoundYieldMsg *vault.CompoundYieldMsg }

func (*TxSendMsg) isTxSum()          {}
func (*TxMintMsg) isTxSum()          {}
func (*TxDepositMsg) isTxSum()       {}
func (*TxWithdrawMsg) isTxSum()      {}
func (*TxAccrueYieldMsg) isTxSum()   {}
func (*TxCompoundYieldMsg) isTxSum() {}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg switches over all types defined in the protobuf file
func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Sum == nil {
		return nil, errors.Wrap(errors.ErrState, "message is <nil>")
	}
	return weave.ExtractMsgFromSum(tx.Sum)
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}

// NewTx wraps the message into a transaction. It returns an error for
// messages this application does not route.
func NewTx(msg weave.Msg) (*Tx, error) {
	var sum isTxSum
	switch m := msg.(type) {
	case *token.SendMsg:
		sum = &TxSendMsg{SendMsg: m}
	case *token.MintMsg:
		sum = &TxMintMsg{MintMsg: m}
	case *vault.DepositMsg:
		sum = &TxDepositMsg{DepositMsg: m}
	case *vault.WithdrawMsg:
		sum = &TxWithdrawMsg{WithdrawMsg: m}
	case *vault.AccrueYieldMsg:
		sum = &TxAccrueYieldMsg{AccrueYieldMsg: m}
	case *vault.CompoundYieldMsg:
		sum = &TxCompoundYieldMsg{CompoundYieldMsg: m}
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported message: %T", msg)
	}
	return &Tx{Sum: sum}, nil
}
