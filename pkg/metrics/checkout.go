package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics instruments order finalization.
type CheckoutMetrics struct {
	finalized   *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	redemptions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewCheckoutMetrics registers on reg. A nil reg yields a no-op collector.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	m := &CheckoutMetrics{
		finalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_finalized_total",
			Help:      "Orders persisted by checkout, by payment method.",
		}, []string{"payment_method"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Checkout attempts rejected, by reason.",
		}, []string{"reason"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redemptions_total",
			Help:      "Coupons consumed by finalized orders.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_finalize_duration_seconds",
			Help:      "Time spent finalizing an order, success or failure.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
	reg.MustRegister(m.finalized, m.rejected, m.redemptions, m.duration)
	return m
}

func (m *CheckoutMetrics) ObserveFinalized(paymentMethod string) {
	if m == nil || m.finalized == nil {
		return
	}
	m.finalized.WithLabelValues(labelOrUnknown(paymentMethod)).Inc()
}

func (m *CheckoutMetrics) ObserveRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(labelOrUnknown(reason)).Inc()
}

func (m *CheckoutMetrics) ObserveCouponRedeemed(code string) {
	if m == nil || m.redemptions == nil {
		return
	}
	m.redemptions.WithLabelValues(labelOrUnknown(code)).Inc()
}

func (m *CheckoutMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}
