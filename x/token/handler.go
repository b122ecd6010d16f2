package token

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/x"
)

const (
	sendTxCost int64 = 100
	mintTxCost int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control *BaseController) {
	r = migration.SchemaMigratingRegistry(packageName, r)
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
	r.Handle(&MintMsg{}, NewMintHandler(auth, control))
}

// RegisterQuery will register wallets as "/tokens/wallets" and mints as
// "/tokens/mints"
func RegisterQuery(qr weave.QueryRouter) {
	NewWalletBucket().Register("tokens/wallets", qr)
	NewMintBucket().Register("tokens/mints", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ weave.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(store, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx weave.Context, tx weave.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}

// MintHandler will handle minting of new coins
type MintHandler struct {
	auth    x.Authenticator
	control *BaseController
}

var _ weave.Handler = MintHandler{}

// NewMintHandler creates a handler for MintMsg
func NewMintHandler(auth x.Authenticator, control *BaseController) MintHandler {
	return MintHandler{
		auth:    auth,
		control: control,
	}
}

func (h MintHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, store, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: mintTxCost}, nil
}

func (h MintHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, m, err := h.validate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Mint(store, msg.Destination, *msg.Amount, m.Authority); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h MintHandler) validate(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*MintMsg, *Mint, error) {
	var msg MintMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	m, err := h.control.mint(store, msg.Amount.Ticker)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, m.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	return &msg, m, nil
}
