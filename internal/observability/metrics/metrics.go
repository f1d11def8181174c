package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// SiteMetrics exposes counters/histograms for the contact and checkout flows.
type SiteMetrics struct {
	contactTotal     *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		contactTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "predicto",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "predicto",
			Subsystem: "checkout",
			Name:      "transitions_total",
			Help:      "Checkout session state transitions",
		}, []string{"state"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "predicto",
			Subsystem: "upstream",
			Name:      "request_seconds",
			Help:      "Latency of booking API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.contactTotal, m.transitionsTotal, m.upstreamLatency)
	return m
}

// ObserveContact counts one contact submission outcome
// (success, invalid, rejected, in_flight, error).
func (m *SiteMetrics) ObserveContact(outcome string) {
	if m == nil {
		return
	}
	m.contactTotal.WithLabelValues(outcome).Inc()
}

// ObserveTransition counts a checkout session entering state.
func (m *SiteMetrics) ObserveTransition(state string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(state).Inc()
}

// ObserveUpstream records one booking API call. Status 0 means the
// request never got a response.
func (m *SiteMetrics) ObserveUpstream(endpoint string, status int, seconds float64) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamLatency.WithLabelValues(endpoint, label).Observe(seconds)
}
