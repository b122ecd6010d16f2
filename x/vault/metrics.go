package vault

import (
	"strconv"
	"sync"

	"github.com/iov-one/weave/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes vault activity to prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	operations   *prometheus.CounterVec
	staked       prometheus.Gauge
	yield        prometheus.Gauge
	receiptTotal prometheus.Gauge
}

var (
	metricsOnce     sync.Once
	metricsRegistry *Metrics
)

// DefaultMetrics returns the process wide metrics, registered with the
// default prometheus registry on first use.
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsRegistry = &Metrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "mryt_vault_operations_total",
				Help: "Count of executed vault operations by outcome.",
			}, []string{"operation", "result"}),
			staked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "mryt_vault_total_staked",
				Help: "Collateral staked in the vault, including compounded yield.",
			}),
			yield: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "mryt_vault_total_yield",
				Help: "Accrued yield that was not compounded yet.",
			}),
			receiptTotal: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "mryt_vault_receipt_supply",
				Help: "Receipt tokens issued by the vault.",
			}),
		}
		prometheus.MustRegister(
			metricsRegistry.operations,
			metricsRegistry.staked,
			metricsRegistry.yield,
			metricsRegistry.receiptTotal,
		)
	})
	return metricsRegistry
}

// ObserveOperation counts an operation execution. A failed operation is
// labeled with its ABCI error code.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		code, _ := errors.ABCIInfo(err, false)
		result = "code_" + strconv.FormatUint(uint64(code), 10)
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// SetLedger publishes the ledger counters.
func (m *Metrics) SetLedger(l *Ledger) {
	if m == nil || l == nil {
		return
	}
	m.staked.Set(float64(l.TotalStaked))
	m.yield.Set(float64(l.TotalYield))
	m.receiptTotal.Set(float64(l.TotalReceiptSupply))
}
