package vault

import (
	"testing"
	"time"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/weavetest/assert"
)

func TestDepositAndWithdrawHandlers(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	cases := map[string]struct {
		signer         weave.Condition
		now            time.Time
		msg            weave.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantPosition   uint64
	}{
		"deposit": {
			signer:       alice,
			now:          genesisTime,
			msg:          &DepositMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address(), Amount: 50},
			wantPosition: 1050,
		},
		"deposit requires depositor signature": {
			signer:         bob,
			now:            genesisTime,
			msg:            &DepositMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address(), Amount: 50},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantPosition:   1000,
		},
		"deposit of zero": {
			signer:         alice,
			now:            genesisTime,
			msg:            &DepositMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address()},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
			wantPosition:   1000,
		},
		"deposit without metadata": {
			signer:         alice,
			now:            genesisTime,
			msg:            &DepositMsg{Depositor: alice.Address(), Amount: 50},
			wantCheckErr:   errors.ErrMetadata,
			wantDeliverErr: errors.ErrMetadata,
			wantPosition:   1000,
		},
		"withdraw": {
			signer:       alice,
			now:          genesisTime.Add(MinLockPeriod),
			msg:          &WithdrawMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address(), Amount: 200},
			wantPosition: 800,
		},
		"withdraw too early": {
			signer:         alice,
			now:            genesisTime.Add(MinLockPeriod - time.Second),
			msg:            &WithdrawMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address(), Amount: 200},
			wantDeliverErr: ErrEarlyWithdrawal,
			wantPosition:   1000,
		},
		"withdraw too much": {
			signer:         alice,
			now:            genesisTime.Add(MinLockPeriod),
			msg:            &WithdrawMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address(), Amount: 201},
			wantDeliverErr: ErrWithdrawalTooHigh,
			wantPosition:   1000,
		},
		"withdraw requires depositor signature": {
			signer:         bob,
			now:            genesisTime.Add(MinLockPeriod),
			msg:            &WithdrawMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice.Address(), Amount: 200},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantPosition:   1000,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.fund(t, alice.Address(), 2000)
			_, err := f.ctrl.Deposit(atTime(genesisTime), f.db, alice.Address(), 1000)
			assert.Nil(t, err)

			rt := app.NewRouter()
			RegisterRoutes(rt, &weavetest.Auth{Signer: tc.signer}, f.ctrl)
			tx := &weavetest.Tx{Msg: tc.msg}
			ctx := atTime(tc.now)

			cache := f.db.CacheWrap()
			if _, err := rt.Check(ctx, cache, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			res, err := rt.Deliver(ctx, f.db, tx)
			if !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if err == nil {
				var pos Position
				assert.Nil(t, pos.Unmarshal(res.Data))
				assert.Equal(t, tc.wantPosition, pos.Amount)
				assert.Equal(t, 1, len(res.Tags))
				assert.Equal(t, alice.Address().String(), string(res.Tags[0].Value))
			}

			pos, err := f.ctrl.Position(f.db, alice.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantPosition, pos.Amount)
			f.assertSupplyConservation(t)
		})
	}
}

func TestYieldHandlers(t *testing.T) {
	f := newFixture(t)
	alice := weavetest.NewCondition()
	f.fund(t, alice.Address(), 1000)
	_, err := f.ctrl.Deposit(atTime(genesisTime), f.db, alice.Address(), 1000)
	assert.Nil(t, err)

	rt := app.NewRouter()
	// Yield operations do not require any particular signer.
	RegisterRoutes(rt, &weavetest.Auth{}, f.ctrl)
	ctx := atTime(genesisTime)

	accrue := &weavetest.Tx{Msg: &AccrueYieldMsg{Metadata: &weave.Metadata{Schema: 1}}}
	_, err = rt.Check(ctx, f.db.CacheWrap(), accrue)
	assert.Nil(t, err)
	res, err := rt.Deliver(ctx, f.db, accrue)
	assert.Nil(t, err)
	var accrued OperationResult
	assert.Nil(t, accrued.Unmarshal(res.Data))
	assert.Equal(t, uint64(10), accrued.Amount)

	compound := &weavetest.Tx{Msg: &CompoundYieldMsg{Metadata: &weave.Metadata{Schema: 1}}}
	res, err = rt.Deliver(ctx, f.db, compound)
	assert.Nil(t, err)
	var compounded OperationResult
	assert.Nil(t, compounded.Unmarshal(res.Data))
	assert.Equal(t, uint64(5), compounded.Amount)

	l := f.ledger(t)
	assert.Equal(t, uint64(1005), l.TotalStaked)
	assert.Equal(t, uint64(5), l.TotalYield)

	invalid := &weavetest.Tx{Msg: &CompoundYieldMsg{}}
	_, err = rt.Deliver(ctx, f.db, invalid)
	assert.IsErr(t, errors.ErrMetadata, err)
}

func TestRateQuery(t *testing.T) {
	f := newFixture(t)
	qr := weave.NewQueryRouter()
	RegisterQuery(qr)

	h := qr.Handler("/vault/rate")
	if h == nil {
		t.Fatal("rate query not registered")
	}

	readRate := func() float64 {
		t.Helper()
		models, err := h.Query(f.db, weave.KeyQueryMod, nil)
		assert.Nil(t, err)
		assert.Equal(t, 1, len(models))
		var r YieldRate
		assert.Nil(t, r.Unmarshal(models[0].Value))
		return r.Rate
	}

	assert.Equal(t, 0.0, readRate())

	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, 3000)
	_, err := f.ctrl.Deposit(atTime(genesisTime), f.db, alice, 3000)
	assert.Nil(t, err)
	_, err = f.ctrl.AccrueYield(f.db)
	assert.Nil(t, err)
	_, err = f.ctrl.CompoundYield(atTime(genesisTime), f.db)
	assert.Nil(t, err)

	// 15 yield over 3015 staked.
	assert.Equal(t, 0.5, readRate())
	assert.Equal(t, readRate(), readRate())

	_, err = h.Query(f.db, weave.PrefixQueryMod, nil)
	assert.IsErr(t, errors.ErrInput, err)

	positions := qr.Handler("/vault/positions")
	models, err := positions.Query(f.db, weave.KeyQueryMod, alice)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var pos Position
	assert.Nil(t, pos.Unmarshal(models[0].Value))
	assert.Equal(t, uint64(3000), pos.Amount)

	models, err = qr.Handler("/vault/ledger").Query(f.db, weave.KeyQueryMod, []byte(ledgerKey))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
}

func TestMessageValidation(t *testing.T) {
	alice := weavetest.NewCondition().Address()

	cases := map[string]struct {
		msg       weave.Msg
		wantField string
		wantErr   *errors.Error
	}{
		"valid deposit": {
			msg: &DepositMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice, Amount: 1},
		},
		"deposit with invalid depositor": {
			msg:       &DepositMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice[:5], Amount: 1},
			wantField: "Depositor",
			wantErr:   errors.ErrInput,
		},
		"withdraw of zero": {
			msg:       &WithdrawMsg{Metadata: &weave.Metadata{Schema: 1}, Depositor: alice},
			wantField: "Amount",
			wantErr:   errors.ErrAmount,
		},
		"accrue without metadata": {
			msg:       &AccrueYieldMsg{},
			wantField: "Metadata",
			wantErr:   errors.ErrMetadata,
		},
		"valid compound": {
			msg: &CompoundYieldMsg{Metadata: &weave.Metadata{Schema: 1}},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}
