package keeper

import (
	"sync"

	"github.com/cosmos/cosmos-sdk/telemetry"
	"github.com/hashicorp/go-metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the AMM module.
type Metrics struct {
	PoolsCreated     prometheus.Counter
	SwapsTotal       *prometheus.CounterVec
	LiquidityChanges *prometheus.CounterVec
	FlashLoans       *prometheus.CounterVec
}

var (
	ammMetricsOnce sync.Once
	ammMetrics     *Metrics
)

// GetMetrics returns the module's Prometheus metrics, registering them with
// the default registry on first use.
func GetMetrics() *Metrics {
	ammMetricsOnce.Do(func() {
		ammMetrics = &Metrics{
			PoolsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "tarn",
					Subsystem: "amm",
					Name:      "pools_created_total",
					Help:      "Total number of pools created",
				},
			),
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "tarn",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"token_in", "token_out"},
			),
			LiquidityChanges: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "tarn",
					Subsystem: "amm",
					Name:      "liquidity_changes_total",
					Help:      "Liquidity deposits and withdrawals",
				},
				[]string{"direction"},
			),
			FlashLoans: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "tarn",
					Subsystem: "amm",
					Name:      "flash_loans_total",
					Help:      "Total number of flash loans drawn",
				},
				[]string{"token_a", "token_b"},
			),
		}
	})
	return ammMetrics
}

func recordPoolCreated(tokenA, tokenB string) {
	GetMetrics().PoolsCreated.Inc()
	telemetry.IncrCounterWithLabels(
		[]string{"amm", "pool_created"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("token_a", tokenA),
			telemetry.NewLabel("token_b", tokenB),
		},
	)
}

func recordSwap(tokenIn, tokenOut string) {
	GetMetrics().SwapsTotal.WithLabelValues(tokenIn, tokenOut).Inc()
	telemetry.IncrCounterWithLabels(
		[]string{"amm", "swap"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("token_in", tokenIn),
			telemetry.NewLabel("token_out", tokenOut),
		},
	)
}

func recordLiquidityChange(direction string) {
	GetMetrics().LiquidityChanges.WithLabelValues(direction).Inc()
	telemetry.IncrCounterWithLabels(
		[]string{"amm", "liquidity_change"},
		1,
		[]metrics.Label{telemetry.NewLabel("direction", direction)},
	)
}

func recordFlashLoan(tokenA, tokenB string) {
	GetMetrics().FlashLoans.WithLabelValues(tokenA, tokenB).Inc()
	telemetry.IncrCounterWithLabels(
		[]string{"amm", "flash_loan"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("token_a", tokenA),
			telemetry.NewLabel("token_b", tokenB),
		},
	)
}
