/*
Package token implements fungible tokens. Each token is registered by
creating a Mint, which names the only address allowed to create or
destroy tokens of that ticker. Balances are kept in a Wallet per owner
address.

Other extensions use the Controller to move funds on behalf of their
users. Direct transfers between users are done with SendMsg.
*/
package token
