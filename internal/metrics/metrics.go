package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spacesedan/sentilyze/internal/models"
)

const namespace = "sentilyze"

const (
	OUTCOME_ANALYZED     = "analyzed"
	OUTCOME_NO_TEXT      = "no_text"
	OUTCOME_NO_SENTENCES = "no_sentences"
	OUTCOME_TOO_LONG     = "too_long"
)

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

type Metrics struct {
	AnalysesTotal   *prometheus.CounterVec
	SentencesTotal  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analysis requests by outcome.",
		}, []string{"outcome"}),
		SentencesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_total",
			Help:      "Analyzed sentences by sentiment label.",
		}, []string{"label"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
	}

	reg.MustRegister(m.AnalysesTotal, m.SentencesTotal, m.RequestDuration)
	return m
}

func (m *Metrics) RecordOutcome(outcome string) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSummary(summary models.AnalysisSummary) {
	m.AnalysesTotal.WithLabelValues(OUTCOME_ANALYZED).Inc()
	m.SentencesTotal.WithLabelValues(string(models.LABEL_POSITIVE)).Add(float64(summary.PositiveCount))
	m.SentencesTotal.WithLabelValues(string(models.LABEL_NEGATIVE)).Add(float64(summary.NegativeCount))
	m.SentencesTotal.WithLabelValues(string(models.LABEL_NEUTRAL)).Add(float64(summary.NeutralCount))
}

// Middleware records request durations. /metrics and /health/* are skipped.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "/metrics" || strings.HasPrefix(path, "/health/") {
				return next(c)
			}

			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
				status := strconv.Itoa(c.Response().Status)
				m.RequestDuration.WithLabelValues(c.Request().Method, path, status).Observe(v)
			}))

			err := next(c)
			timer.ObserveDuration()
			return err
		}
	}
}
