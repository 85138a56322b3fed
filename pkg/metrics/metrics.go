package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sale outcomes, one per terminal state of a checkout.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeRejected   = "rejected"
)

type SaleMetrics struct {
	Sales           *prometheus.CounterVec
	DurationMS      *prometheus.HistogramVec
	StockRejections *prometheus.CounterVec
	UnitsSold       prometheus.Counter
}

// NewSaleMetrics builds the collectors and registers them on reg when it is
// non-nil.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	m := &SaleMetrics{
		Sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sales_total",
			Help:      "Checkouts processed, by terminal outcome.",
		}, []string{"outcome", "reason"}),
		DurationMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos",
			Name:      "sale_duration_ms",
			Help:      "Time spent processing one checkout in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"outcome"}),
		StockRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "stock_rejections_total",
			Help:      "Conditional stock decrements refused for insufficient stock.",
		}, []string{"variation_id"}),
		UnitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "units_sold_total",
			Help:      "Units removed from stock by committed sales.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Sales, m.DurationMS, m.StockRejections, m.UnitsSold)
	}
	return m
}

func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
