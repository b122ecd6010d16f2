package token

import (
	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &SendMsg{}, migration.NoModification)
	migration.MustRegister(1, &MintMsg{}, migration.NoModification)
}

const maxMemoSize int = 128

// SendMsg moves coins from the source to the destination wallet. Source
// signature is required.
type SendMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Source      weave.Address   `json:"source"`
	Destination weave.Address   `json:"destination"`
	Amount      *coin.Coin      `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

var _ weave.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "token/send"
}

func (m *SendMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Amount", validAmount(m.Amount))
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return errs
}

// MintMsg creates new coins and places them in the destination wallet.
// Signature of the mint authority is required.
type MintMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Destination weave.Address   `json:"destination"`
	Amount      *coin.Coin      `json:"amount"`
}

var _ weave.Msg = (*MintMsg)(nil)

// Path returns the routing path for this message
func (MintMsg) Path() string {
	return "token/mint"
}

func (m *MintMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// Validate makes sure that this is sensible
func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Amount", validAmount(m.Amount))
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func validAmount(c *coin.Coin) error {
	if coin.IsEmpty(c) {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return c.Validate()
}
