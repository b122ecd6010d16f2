package coin

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/weave/errors"
)

// Add returns a + b. ErrOverflow is returned if the result does not fit in
// uint64.
func Add(a, b uint64) (uint64, error) {
	var z uint256.Int
	z.Add(uint256.NewInt(a), uint256.NewInt(b))
	if !z.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return z.Uint64(), nil
}

// Sub returns a - b. ErrOverflow is returned if b is greater than a.
func Sub(a, b uint64) (uint64, error) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(uint256.NewInt(a), uint256.NewInt(b)); underflow {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d - %d", a, b)
	}
	return z.Uint64(), nil
}

// Mul returns a * b. ErrOverflow is returned if the result does not fit in
// uint64.
func Mul(a, b uint64) (uint64, error) {
	var z uint256.Int
	z.Mul(uint256.NewInt(a), uint256.NewInt(b))
	if !z.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return z.Uint64(), nil
}
