package vault

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	depositCost       int64 = 100
	withdrawCost      int64 = 100
	accrueYieldCost   int64 = 50
	compoundYieldCost int64 = 50

	tagDepositor = "vault.depositor"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl *Controller) {
	r = migration.SchemaMigratingRegistry(packageName, r)
	r.Handle(&DepositMsg{}, NewDepositHandler(auth, ctrl))
	r.Handle(&WithdrawMsg{}, NewWithdrawHandler(auth, ctrl))
	r.Handle(&AccrueYieldMsg{}, NewAccrueYieldHandler(ctrl))
	r.Handle(&CompoundYieldMsg{}, NewCompoundYieldHandler(ctrl))
}

// RegisterQuery will register the ledger as "/vault/ledger", positions as
// "/vault/positions" and the yield rate as "/vault/rate".
func RegisterQuery(qr weave.QueryRouter) {
	NewLedgerBucket().Register("vault/ledger", qr)
	NewPositionBucket().Register("vault/positions", qr)
	qr.Register("/vault/rate", NewRateQuery())
}

// DepositHandler handles DepositMsg.
type DepositHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = DepositHandler{}

// NewDepositHandler returns a handler for DepositMsg.
func NewDepositHandler(auth x.Authenticator, ctrl *Controller) DepositHandler {
	return DepositHandler{auth: auth, ctrl: ctrl}
}

func (h DepositHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: depositCost}, nil
}

func (h DepositHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	pos, err := h.ctrl.Deposit(ctx, db, msg.Depositor, msg.Amount)
	h.ctrl.metrics.ObserveOperation("deposit", err)
	if err != nil {
		return nil, err
	}
	return positionResult(pos)
}

func (h DepositHandler) validate(ctx weave.Context, tx weave.Tx) (*DepositMsg, error) {
	var msg DepositMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Depositor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	return &msg, nil
}

// WithdrawHandler handles WithdrawMsg.
type WithdrawHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = WithdrawHandler{}

// NewWithdrawHandler returns a handler for WithdrawMsg.
func NewWithdrawHandler(auth x.Authenticator, ctrl *Controller) WithdrawHandler {
	return WithdrawHandler{auth: auth, ctrl: ctrl}
}

func (h WithdrawHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h WithdrawHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	pos, err := h.ctrl.Withdraw(ctx, db, msg.Depositor, msg.Amount)
	h.ctrl.metrics.ObserveOperation("withdraw", err)
	if err != nil {
		return nil, err
	}
	return positionResult(pos)
}

func (h WithdrawHandler) validate(ctx weave.Context, tx weave.Tx) (*WithdrawMsg, error) {
	var msg WithdrawMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Depositor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	return &msg, nil
}

func positionResult(pos *Position) (*weave.DeliverResult, error) {
	raw, err := pos.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal position")
	}
	return &weave.DeliverResult{
		Data: raw,
		Tags: []common.KVPair{
			{Key: []byte(tagDepositor), Value: []byte(pos.Owner.String())},
		},
	}, nil
}

// AccrueYieldHandler handles AccrueYieldMsg. Any transaction can trigger
// an accrual.
type AccrueYieldHandler struct {
	ctrl *Controller
}

var _ weave.Handler = AccrueYieldHandler{}

// NewAccrueYieldHandler returns a handler for AccrueYieldMsg.
func NewAccrueYieldHandler(ctrl *Controller) AccrueYieldHandler {
	return AccrueYieldHandler{ctrl: ctrl}
}

func (h AccrueYieldHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg AccrueYieldMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &weave.CheckResult{GasAllocated: accrueYieldCost}, nil
}

func (h AccrueYieldHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg AccrueYieldMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	accrued, err := h.ctrl.AccrueYield(db)
	h.ctrl.metrics.ObserveOperation("accrue_yield", err)
	if err != nil {
		return nil, err
	}
	return amountResult(accrued)
}

// CompoundYieldHandler handles CompoundYieldMsg. Any transaction can
// trigger compounding.
type CompoundYieldHandler struct {
	ctrl *Controller
}

var _ weave.Handler = CompoundYieldHandler{}

// NewCompoundYieldHandler returns a handler for CompoundYieldMsg.
func NewCompoundYieldHandler(ctrl *Controller) CompoundYieldHandler {
	return CompoundYieldHandler{ctrl: ctrl}
}

func (h CompoundYieldHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg CompoundYieldMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &weave.CheckResult{GasAllocated: compoundYieldCost}, nil
}

func (h CompoundYieldHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg CompoundYieldMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	reinvested, err := h.ctrl.CompoundYield(ctx, db)
	h.ctrl.metrics.ObserveOperation("compound_yield", err)
	if err != nil {
		return nil, err
	}
	return amountResult(reinvested)
}

func amountResult(amount uint64) (*weave.DeliverResult, error) {
	raw, err := (&OperationResult{Amount: amount}).Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal result")
	}
	return &weave.DeliverResult{Data: raw}, nil
}
