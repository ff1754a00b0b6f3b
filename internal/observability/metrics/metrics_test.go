package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestAuthMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuthMetrics(reg)

	m.ObserveLogin("otp", "success")
	m.ObserveSessionCheck("unauthorized")
	m.ObserveOTPRequest("failure")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Errorf("expected 3 metric families, got %d", len(families))
	}
}

func TestBookingMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveOrder("success", 0.25)
	m.ObserveConfirm("failure")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Errorf("expected 3 metric families, got %d", len(families))
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var a *AuthMetrics
	var b *BookingMetrics
	a.ObserveLogin("otp", "success")
	b.ObserveConfirm("success")
}
