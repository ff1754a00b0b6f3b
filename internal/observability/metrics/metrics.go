package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuthMetrics exposes counters for session establishment flows.
type AuthMetrics struct {
	loginTotal      *prometheus.CounterVec
	sessionChecks   *prometheus.CounterVec
	otpRequestTotal *prometheus.CounterVec
}

func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saathi",
			Subsystem: "auth",
			Name:      "login_total",
			Help:      "Total login attempts by method and outcome",
		}, []string{"method", "status"}),
		sessionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saathi",
			Subsystem: "auth",
			Name:      "session_check_total",
			Help:      "Total identity checks against the session store",
		}, []string{"status"}),
		otpRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saathi",
			Subsystem: "auth",
			Name:      "otp_request_total",
			Help:      "Total one-time code requests",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.loginTotal, m.sessionChecks, m.otpRequestTotal)
	return m
}

func (m *AuthMetrics) ObserveLogin(method, status string) {
	if m == nil {
		return
	}
	m.loginTotal.WithLabelValues(method, status).Inc()
}

func (m *AuthMetrics) ObserveSessionCheck(status string) {
	if m == nil {
		return
	}
	m.sessionChecks.WithLabelValues(status).Inc()
}

func (m *AuthMetrics) ObserveOTPRequest(status string) {
	if m == nil {
		return
	}
	m.otpRequestTotal.WithLabelValues(status).Inc()
}

// BookingMetrics exposes counters/histograms for the booking-payment flow.
type BookingMetrics struct {
	ordersTotal   *prometheus.CounterVec
	confirmsTotal *prometheus.CounterVec
	orderLatency  *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		ordersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saathi",
			Subsystem: "bookings",
			Name:      "orders_total",
			Help:      "Total booking order creations by outcome",
		}, []string{"status"}),
		confirmsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saathi",
			Subsystem: "bookings",
			Name:      "confirms_total",
			Help:      "Total booking confirmations by outcome",
		}, []string{"status"}),
		orderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "saathi",
			Subsystem: "bookings",
			Name:      "order_latency_seconds",
			Help:      "Latency of gateway order creation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.ordersTotal, m.confirmsTotal, m.orderLatency)
	return m
}

func (m *BookingMetrics) ObserveOrder(status string, seconds float64) {
	if m == nil {
		return
	}
	m.ordersTotal.WithLabelValues(status).Inc()
	m.orderLatency.WithLabelValues(status).Observe(seconds)
}

func (m *BookingMetrics) ObserveConfirm(status string) {
	if m == nil {
		return
	}
	m.confirmsTotal.WithLabelValues(status).Inc()
}
