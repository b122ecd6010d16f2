package mrytd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/mryt/commands"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/crypto"
	"github.com/iov-one/weave/x/sigs"
)

// Private keys are fixed for deterministic output. They are not secure at
// all, they only help checking the encoding.
var (
	source = makePrivKey("1234567890")
	dst    = makePrivKey("F00BA411").PublicKey().Address()
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex and uses the result as the private key seed.
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin)
}

// Examples returns one instance of every message and model, used by
// testgen to produce client fixtures.
func Examples() []commands.Example {
	pub := source.PublicKey()
	addr := pub.Address()

	lpt := coin.NewCoin(250, defaultCollateralTicker)
	wallet := &token.Wallet{
		Metadata: &weave.Metadata{Schema: 1},
		Coins:    coin.Coins{coin.NewCoinp(1000, defaultCollateralTicker), coin.NewCoinp(800, defaultReceiptTicker)},
	}
	user := &sigs.UserData{
		Metadata: &weave.Metadata{Schema: 1},
		Pubkey:   pub,
		Sequence: 17,
	}
	ledger := &vault.Ledger{
		Metadata:           &weave.Metadata{Schema: 1},
		Admin:              addr,
		TotalStaked:        1005,
		TotalYield:         5,
		TotalReceiptSupply: 1000,
	}
	position := &vault.Position{
		Metadata:  &weave.Metadata{Schema: 1},
		Owner:     addr,
		Amount:    1000,
		LockStart: weave.UnixTime(1709294400),
	}

	send := &token.SendMsg{
		Metadata:    &weave.Metadata{Schema: 1},
		Source:      addr,
		Destination: dst,
		Amount:      &lpt,
		Memo:        "Test payment",
	}
	deposit := &vault.DepositMsg{
		Metadata:  &weave.Metadata{Schema: 1},
		Depositor: addr,
		Amount:    1000,
	}
	withdraw := &vault.WithdrawMsg{
		Metadata:  &weave.Metadata{Schema: 1},
		Depositor: addr,
		Amount:    200,
	}
	accrue := &vault.AccrueYieldMsg{Metadata: &weave.Metadata{Schema: 1}}

	unsigned := Tx{
		Sum: &TxDepositMsg{deposit},
	}
	tx := unsigned
	sig, err := sigs.SignTx(source, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	fmt.Printf("Address: %s\n", addr)
	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "coin", Obj: &lpt},
		{Filename: "priv_key", Obj: source},
		{Filename: "pub_key", Obj: pub},
		{Filename: "user", Obj: user},
		{Filename: "ledger", Obj: ledger},
		{Filename: "position", Obj: position},
		{Filename: "send_msg", Obj: send},
		{Filename: "deposit_msg", Obj: deposit},
		{Filename: "withdraw_msg", Obj: withdraw},
		{Filename: "accrue_yield_msg", Obj: accrue},
		{Filename: "unsigned_tx", Obj: &unsigned},
		{Filename: "signed_tx", Obj: &tx},
	}
}
