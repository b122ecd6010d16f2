package mrytd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/mryt/mrytest"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/crypto"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/x/sigs"
	"github.com/iov-one/weave/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "mryt-test-chain"

var startTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// account signs transactions and keeps track of its nonce.
type account struct {
	key *crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{key: crypto.GenPrivKeyEd25519()}
}

func (a *account) Address() weave.Address {
	return a.key.PublicKey().Address()
}

func (a *account) sign(t testing.TB, msg weave.Msg) *Tx {
	t.Helper()
	tx, err := NewTx(msg)
	require.NoError(t, err)
	sig, err := sigs.SignTx(a.key, tx, testChainID, a.seq)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)
	// Nonce is incremented even if the message fails.
	a.seq++
	return tx
}

func newTestApp(t testing.TB, depositor *account) (*mrytest.Runner, *app.ABCIStore) {
	t.Helper()
	abciApp, err := Application("mrytd", Stack(nil), TxDecoder, "", false)
	require.NoError(t, err)
	abciApp.WithInit(Initializers())
	abciApp.WithLogger(log.NewNopLogger())

	runner := mrytest.NewRunner(t, abciApp, testChainID, startTime)
	admin := newAccount()
	runner.InitChain(GenesisOptions{
		InitializeSchema: []GenesisSchema{
			{Pkg: "sigs", Ver: 1},
			{Pkg: "token", Ver: 1},
			{Pkg: "vault", Ver: 1},
		},
		Conf: GenesisConf{
			Migration: migration.Configuration{Admin: admin.Address()},
			Vault: vault.Configuration{
				Metadata:         &weave.Metadata{Schema: 1},
				Admin:            admin.Address(),
				CollateralAsset:  vault.LPToken,
				CollateralTicker: "LPT",
				ReceiptTicker:    "MRYT",
			},
		},
		Tokens: token.Genesis{
			Mints: []token.GenesisMint{{Ticker: "LPT", Authority: admin.Address()}},
			Wallets: []token.GenesisWallet{
				{Address: depositor.Address(), Coins: []coin.Coin{coin.NewCoin(1000, "LPT")}},
			},
		},
	})
	return runner, app.NewABCIStore(abciApp)
}

func TestVaultOverABCI(t *testing.T) {
	alice := newAccount()
	runner, db := newTestApp(t, alice)
	meta := &weave.Metadata{Schema: 1}
	ctrl := vault.NewController(token.NewController())

	runner.InBlock(func() error {
		res, err := runner.DeliverTx(alice.sign(t, &vault.DepositMsg{Metadata: meta, Depositor: alice.Address(), Amount: 1000}))
		if err != nil {
			return err
		}
		assert.Contains(t, res.Tags, common.KVPair{Key: []byte(utils.ActionKey), Value: []byte("vault/deposit")})
		return nil
	})

	l, err := ctrl.Ledger(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), l.TotalStaked)
	assert.Equal(t, uint64(1000), l.TotalReceiptSupply)

	runner.Advance(time.Hour)
	runner.InBlock(func() error {
		// Yield operations are not signed.
		if _, err := runner.DeliverTx(&Tx{Sum: &TxAccrueYieldMsg{AccrueYieldMsg: &vault.AccrueYieldMsg{Metadata: meta}}}); err != nil {
			return err
		}
		_, err := runner.DeliverTx(&Tx{Sum: &TxCompoundYieldMsg{CompoundYieldMsg: &vault.CompoundYieldMsg{Metadata: meta}}})
		return err
	})

	rate, err := ctrl.ReportRate(db)
	require.NoError(t, err)
	assert.Equal(t, 0.5, rate)

	runner.InBlock(func() error {
		_, err := runner.DeliverTx(alice.sign(t, &vault.WithdrawMsg{Metadata: meta, Depositor: alice.Address(), Amount: 200}))
		if !vault.ErrEarlyWithdrawal.Is(err) {
			t.Errorf("want early withdrawal error, got %+v", err)
		}
		return nil
	})

	runner.Advance(vault.MinLockPeriod)
	runner.InBlock(func() error {
		_, err := runner.DeliverTx(alice.sign(t, &vault.WithdrawMsg{Metadata: meta, Depositor: alice.Address(), Amount: 201}))
		if !vault.ErrWithdrawalTooHigh.Is(err) {
			t.Errorf("want withdrawal too high error, got %+v", err)
		}
		_, err = runner.DeliverTx(alice.sign(t, &vault.WithdrawMsg{Metadata: meta, Depositor: alice.Address(), Amount: 200}))
		return err
	})

	pos, err := ctrl.Position(db, alice.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(800), pos.Amount)

	l, err = ctrl.Ledger(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(805), l.TotalStaked)
	assert.Equal(t, uint64(5), l.TotalYield)
	assert.Equal(t, uint64(800), l.TotalReceiptSupply)

	tokens := token.NewController()
	collateral, err := tokens.Balance(db, alice.Address(), "LPT")
	require.NoError(t, err)
	assert.Equal(t, uint64(200), collateral)
	receipts, err := tokens.Balance(db, alice.Address(), "MRYT")
	require.NoError(t, err)
	assert.Equal(t, uint64(800), receipts)
}

func TestUnsignedDepositIsRejected(t *testing.T) {
	alice := newAccount()
	runner, _ := newTestApp(t, alice)

	tx, err := NewTx(&vault.DepositMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address(), Amount: 10})
	require.NoError(t, err)
	err = runner.CheckTx(tx)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
}

func TestGenInitOptions(t *testing.T) {
	addr := newAccount().Address()
	raw, err := GenInitOptions([]string{"ETH", addr.String()})
	require.NoError(t, err)

	var opts weave.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	var tokens token.Genesis
	require.NoError(t, opts.ReadOptions("tokens", &tokens))
	require.Len(t, tokens.Wallets, 1)
	assert.Equal(t, addr, tokens.Wallets[0].Address)
	assert.Equal(t, "ETH", tokens.Mints[0].Ticker)

	var schema []GenesisSchema
	require.NoError(t, opts.ReadOptions("initialize_schema", &schema))
	assert.Equal(t, []GenesisSchema{{Pkg: "sigs", Ver: 1}, {Pkg: "token", Ver: 1}, {Pkg: "vault", Ver: 1}}, schema)

	var conf GenesisConf
	require.NoError(t, opts.ReadOptions("conf", &conf))
	assert.Equal(t, addr, conf.Migration.Admin)
	assert.Equal(t, addr, conf.Vault.Admin)

	_, err = GenInitOptions([]string{"MRYT"})
	assert.True(t, errors.ErrCurrency.Is(err))
	_, err = GenInitOptions([]string{"eth"})
	assert.True(t, errors.ErrCurrency.Is(err))
}
