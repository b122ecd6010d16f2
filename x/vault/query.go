package vault

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
)

// rateKey is the key of the single model returned by the rate query.
const rateKey = "rate"

// RateQuery serves the current yield rate as a YieldRate model.
type RateQuery struct {
	ctrl *Controller
}

var _ weave.QueryHandler = RateQuery{}

// NewRateQuery returns a query handler computing the yield rate from the
// stored ledger. Only the key query mode with empty data is supported.
func NewRateQuery() RateQuery {
	return RateQuery{ctrl: NewController(nil)}
}

func (q RateQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	if len(data) != 0 && string(data) != rateKey {
		return nil, errors.Wrapf(errors.ErrInput, "unknown key: %q", data)
	}
	rate, err := q.ctrl.ReportRate(db)
	if err != nil {
		return nil, err
	}
	raw, err := (&YieldRate{Rate: rate}).Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	return []weave.Model{weave.Pair([]byte(rateKey), raw)}, nil
}
