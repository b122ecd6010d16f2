/*
Package vault implements a staking vault.

Depositors lock collateral tokens in the vault custody and receive receipt
tokens at a fixed 1:1 rate. Each depositor owns a single position that
records the staked amount and the time of the last deposit. Receipt tokens
can be redeemed for collateral once the lock period has passed, with every
withdrawal capped to a fraction of the current position.

The protocol ledger keeps global counters of the staked collateral, the
simulated yield and the receipt supply. Yield accrual and compounding are
plain counter updates and do not move any tokens.
*/
package vault
