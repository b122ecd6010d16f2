/*
Package coin defines the fungible asset amounts used across the
application. A Coin is an unsigned amount of a single currency, Coins is a
normalized set of coins held by a single owner.

All arithmetic is checked. Any operation that would not fit in uint64
fails with errors.ErrOverflow instead of wrapping around.
*/
package coin
