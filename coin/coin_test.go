package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest/assert"
)

func TestCompareCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		wantRes int
	}{
		"a greater than b": {
			a:       NewCoin(20, "ABC"),
			b:       NewCoin(19, "ABC"),
			wantRes: 1,
		},
		"a smaller than b": {
			a:       NewCoin(1, "FOO"),
			b:       NewCoin(2, "FOO"),
			wantRes: -1,
		},
		"zero value coins": {
			a:       Coin{},
			b:       Coin{},
			wantRes: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantRes, tc.a.Compare(tc.b))
		})
	}
}

func TestCoinAdd(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		want    Coin
		wantErr *errors.Error
	}{
		"same currency": {
			a:    NewCoin(5, "LPT"),
			b:    NewCoin(7, "LPT"),
			want: NewCoin(12, "LPT"),
		},
		"empty coin is ignored": {
			a:    Coin{},
			b:    NewCoin(7, "LPT"),
			want: NewCoin(7, "LPT"),
		},
		"different currency": {
			a:       NewCoin(5, "LPT"),
			b:       NewCoin(7, "MRYT"),
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			a:       NewCoin(math.MaxUint64, "LPT"),
			b:       NewCoin(1, "LPT"),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCoinSubtract(t *testing.T) {
	got, err := NewCoin(10, "LPT").Subtract(NewCoin(4, "LPT"))
	assert.Nil(t, err)
	assert.Equal(t, NewCoin(6, "LPT"), got)

	if _, err := NewCoin(3, "LPT").Subtract(NewCoin(4, "LPT")); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}
	if _, err := NewCoin(3, "LPT").Subtract(NewCoin(1, "ABC")); !errors.ErrCurrency.Is(err) {
		t.Fatalf("want currency error, got %+v", err)
	}
}

func TestCoinValidate(t *testing.T) {
	assert.Nil(t, NewCoin(0, "LPT").Validate())
	assert.Nil(t, NewCoin(1, "MRYT").Validate())
	if err := NewCoin(1, "lpt").Validate(); !errors.ErrCurrency.Is(err) {
		t.Fatalf("want currency error, got %+v", err)
	}
	if err := (Coin{Amount: 1}).Validate(); !errors.ErrCurrency.Is(err) {
		t.Fatalf("want currency error, got %+v", err)
	}
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr *errors.Error
	}{
		"simple":           {raw: "4 IOV", want: NewCoin(4, "IOV")},
		"no space":         {raw: "1000LPT", want: NewCoin(1000, "LPT")},
		"zero":             {raw: "0 MRYT", want: NewCoin(0, "MRYT")},
		"negative":         {raw: "-4 IOV", wantErr: errors.ErrInput},
		"fractional":       {raw: "4.5 IOV", wantErr: errors.ErrInput},
		"lower case":       {raw: "4 iov", wantErr: errors.ErrInput},
		"too big":          {raw: "18446744073709551616 IOV", wantErr: errors.ErrOverflow},
		"max value":        {raw: "18446744073709551615 IOV", want: NewCoin(math.MaxUint64, "IOV")},
		"missing currency": {raw: "4", wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
				assert.Equal(t, tc.raw != "1000LPT", got.String() == tc.raw)
			}
		})
	}
}

func TestCoinJSON(t *testing.T) {
	var human Coin
	assert.Nil(t, json.Unmarshal([]byte(`"12 LPT"`), &human))
	assert.Equal(t, NewCoin(12, "LPT"), human)

	var structured Coin
	assert.Nil(t, json.Unmarshal([]byte(`{"ticker": "LPT", "amount": 12}`), &structured))
	assert.Equal(t, human, structured)

	raw, err := json.Marshal(human)
	assert.Nil(t, err)
	var back Coin
	assert.Nil(t, json.Unmarshal(raw, &back))
	assert.Equal(t, human, back)
}

func TestCoinSerialization(t *testing.T) {
	c := NewCoin(123456, "MRYT")
	raw, err := c.Marshal()
	assert.Nil(t, err)
	var got Coin
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, c, got)

	// Zero values are not written.
	raw, err = (&Coin{}).Marshal()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(raw))
}

func TestCheckedMath(t *testing.T) {
	if v, err := Add(1, 2); err != nil || v != 3 {
		t.Fatalf("unexpected result: %d, %v", v, err)
	}
	if _, err := Add(math.MaxUint64, 1); !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
	if v, err := Sub(5, 5); err != nil || v != 0 {
		t.Fatalf("unexpected result: %d, %v", v, err)
	}
	if _, err := Sub(4, 5); !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
	if v, err := Mul(1000, 20); err != nil || v != 20000 {
		t.Fatalf("unexpected result: %d, %v", v, err)
	}
	if _, err := Mul(math.MaxUint64/2, 3); !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
}
