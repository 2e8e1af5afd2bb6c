package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the poller and API collectors.
type Metrics struct {
	pollsTotal     *prometheus.CounterVec
	refreshErrors  *prometheus.CounterVec
	pollDuration   prometheus.Histogram
	lastPrice      *prometheus.GaugeVec
	rsi            *prometheus.GaugeVec
	lastSuccess    *prometheus.GaugeVec
	signalFlips    *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		pollsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdash_symbol_refresh_total",
			Help: "Symbol refreshes by outcome",
		}, []string{"symbol", "outcome"}),
		refreshErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdash_refresh_errors_total",
			Help: "Failed symbol refreshes by error kind",
		}, []string{"kind"}),
		pollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketdash_poll_duration_seconds",
			Help:    "Duration of one full poll run",
			Buckets: prometheus.DefBuckets,
		}),
		lastPrice: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketdash_last_price",
			Help: "Last close per symbol",
		}, []string{"symbol"}),
		rsi: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketdash_rsi",
			Help: "Latest RSI per symbol, absent until computable",
		}, []string{"symbol"}),
		lastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketdash_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh per symbol",
		}, []string{"symbol"}),
		signalFlips: f.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdash_signal_changes_total",
			Help: "Signal changes per symbol and new signal",
		}, []string{"symbol", "signal"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketdash_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

// ObserveSuccess records a successful refresh.
func (m *Metrics) ObserveSuccess(symbol string, price float64, rsi *float64, at time.Time) {
	m.pollsTotal.WithLabelValues(symbol, "ok").Inc()
	m.lastPrice.WithLabelValues(symbol).Set(price)
	m.lastSuccess.WithLabelValues(symbol).Set(float64(at.Unix()))
	if rsi != nil {
		m.rsi.WithLabelValues(symbol).Set(*rsi)
	} else {
		m.rsi.DeleteLabelValues(symbol)
	}
}

// ObserveFailure records a failed refresh.
func (m *Metrics) ObserveFailure(symbol, kind string) {
	m.pollsTotal.WithLabelValues(symbol, "error").Inc()
	m.refreshErrors.WithLabelValues(kind).Inc()
}

// ObservePoll records the duration of a poll run.
func (m *Metrics) ObservePoll(d time.Duration) {
	m.pollDuration.Observe(d.Seconds())
}

// ObserveSignalChange counts a signal flip.
func (m *Metrics) ObserveSignalChange(symbol, signal string) {
	m.signalFlips.WithLabelValues(symbol, signal).Inc()
}

// ObserveRequest records HTTP latency.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.requestLatency.WithLabelValues(route, httpCode(code)).Observe(d.Seconds())
}

func httpCode(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
