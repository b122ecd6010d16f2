package vault

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &DepositMsg{}, migration.NoModification)
	migration.MustRegister(1, &WithdrawMsg{}, migration.NoModification)
	migration.MustRegister(1, &AccrueYieldMsg{}, migration.NoModification)
	migration.MustRegister(1, &CompoundYieldMsg{}, migration.NoModification)
}

const (
	pathDepositMsg       = "vault/deposit"
	pathWithdrawMsg      = "vault/withdraw"
	pathAccrueYieldMsg   = "vault/accrue_yield"
	pathCompoundYieldMsg = "vault/compound_yield"
)

// DepositMsg moves collateral from the depositor into the vault and issues
// the same amount of receipt tokens. Depositor signature is required.
type DepositMsg struct {
	Metadata  *weave.Metadata `json:"metadata"`
	Depositor weave.Address   `json:"depositor"`
	Amount    uint64          `json:"amount"`
}

var _ weave.Msg = (*DepositMsg)(nil)

func (m *DepositMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// Path returns the routing path for this message
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate makes sure that this is sensible
func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	errs = errors.AppendField(errs, "Amount", validAmount(m.Amount))
	return errs
}

// WithdrawMsg burns receipt tokens of the depositor and returns the same
// amount of collateral. Depositor signature is required.
type WithdrawMsg struct {
	Metadata  *weave.Metadata `json:"metadata"`
	Depositor weave.Address   `json:"depositor"`
	Amount    uint64          `json:"amount"`
}

var _ weave.Msg = (*WithdrawMsg)(nil)

func (m *WithdrawMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// Path returns the routing path for this message
func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

// Validate makes sure that this is sensible
func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	errs = errors.AppendField(errs, "Amount", validAmount(m.Amount))
	return errs
}

// AccrueYieldMsg adds the simulated yield of one period to the ledger.
type AccrueYieldMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
}

var _ weave.Msg = (*AccrueYieldMsg)(nil)

func (m *AccrueYieldMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// Path returns the routing path for this message
func (AccrueYieldMsg) Path() string {
	return pathAccrueYieldMsg
}

func (m *AccrueYieldMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "invalid metadata")
}

// CompoundYieldMsg moves half of the accrued yield into the staked funds.
type CompoundYieldMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
}

var _ weave.Msg = (*CompoundYieldMsg)(nil)

func (m *CompoundYieldMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// Path returns the routing path for this message
func (CompoundYieldMsg) Path() string {
	return pathCompoundYieldMsg
}

func (m *CompoundYieldMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "invalid metadata")
}

func validAmount(amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return nil
}
