package vault

import "github.com/iov-one/weave/errors"

var (
	// ErrEarlyWithdrawal is returned when a withdrawal is requested before
	// the lock period of the position has passed.
	ErrEarlyWithdrawal = errors.Register(1000, "early withdrawal")

	// ErrWithdrawalTooHigh is returned when a withdrawal exceeds the
	// allowed share of the position.
	ErrWithdrawalTooHigh = errors.Register(1001, "withdrawal too high")
)
