package mrytd

import (
	"testing"

	"github.com/iov-one/mryt/coin"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRoundTrip(t *testing.T) {
	meta := &weave.Metadata{Schema: 1}
	alice := weavetest.NewCondition().Address()
	msgs := map[string]weave.Msg{
		"send": &token.SendMsg{
			Metadata:    meta,
			Source:      alice,
			Destination: weavetest.NewCondition().Address(),
			Amount:      coin.NewCoinp(5, "LPT"),
		},
		"deposit":  &vault.DepositMsg{Metadata: meta, Depositor: alice, Amount: 7},
		"withdraw": &vault.WithdrawMsg{Metadata: meta, Depositor: alice, Amount: 3},
		"accrue":   &vault.AccrueYieldMsg{Metadata: meta},
		"compound": &vault.CompoundYieldMsg{Metadata: meta},
	}
	for name, msg := range msgs {
		t.Run(name, func(t *testing.T) {
			signer := newAccount()
			tx := signer.sign(t, msg)

			raw, err := tx.Marshal()
			require.NoError(t, err)
			decoded, err := TxDecoder(raw)
			require.NoError(t, err)

			got, err := decoded.GetMsg()
			require.NoError(t, err)
			assert.Equal(t, msg, got)
			require.Len(t, decoded.(*Tx).GetSignatures(), 1)
			assert.Equal(t, signer.key.PublicKey(), decoded.(*Tx).GetSignatures()[0].Pubkey)

			// Signatures never sign themselves.
			signBytes, err := tx.GetSignBytes()
			require.NoError(t, err)
			require.Len(t, tx.Signatures, 1)
			unsigned := &Tx{Sum: tx.Sum}
			want, err := unsigned.Marshal()
			require.NoError(t, err)
			assert.Equal(t, want, signBytes)
		})
	}
}

func TestTxWithoutMessage(t *testing.T) {
	_, err := (&Tx{}).GetMsg()
	assert.True(t, errors.ErrState.Is(err))

	_, err = NewTx(&weavetest.Msg{RoutePath: "test/msg"})
	assert.True(t, errors.ErrType.Is(err))
}
