package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCheckoutMetricsExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.ObserveFinalized("upi")
	m.ObserveFinalized("upi")
	m.ObserveRejected("insufficient_stock")
	m.ObserveCouponRedeemed("SAVE10")
	m.ObserveDuration(40 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "luxe_orders_finalized_total", "payment_method", "upi"); err != nil || got != 2 {
		t.Fatalf("finalized: got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "luxe_orders_rejected_total", "reason", "insufficient_stock"); err != nil || got != 1 {
		t.Fatalf("rejected: got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "luxe_coupon_redemptions_total", "code", "SAVE10"); err != nil || got != 1 {
		t.Fatalf("redemptions: got %f err=%v", got, err)
	}
	mf := findMetricFamily(mfs, "luxe_checkout_finalize_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one duration sample")
	}
}

func TestNilCheckoutMetricsAreNoOps(t *testing.T) {
	var m *CheckoutMetrics
	m.ObserveFinalized("upi")
	m.ObserveRejected("x")
	m.ObserveCouponRedeemed("x")
	m.ObserveDuration(time.Second)

	NewCheckoutMetrics(nil).ObserveFinalized("razorpay")
}
