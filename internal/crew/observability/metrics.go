// Package observability exposes Prometheus metrics for the crew service.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	InvitationValidations *prometheus.CounterVec
	InvitationConsumes    *prometheus.CounterVec
	Onboardings           *prometheus.CounterVec
	FanoutRecipients      prometheus.Histogram
	BackgroundTasks       *prometheus.CounterVec
	RoleMigrations        *prometheus.CounterVec
	ExpiredNotifications  prometheus.Counter
}

// NewMetrics creates the collectors and registers them on a fresh registry
// together with the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crew_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		InvitationValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_invitation_validations_total",
				Help: "Invitation code validations by outcome",
			},
			[]string{"outcome"},
		),
		InvitationConsumes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_invitation_consumes_total",
				Help: "Invitation consume attempts by outcome",
			},
			[]string{"outcome"},
		),
		Onboardings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_onboardings_total",
				Help: "Onboarding calls by variant and outcome",
			},
			[]string{"variant", "outcome"},
		),
		FanoutRecipients: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crew_fanout_recipients",
				Help:    "Recipients per join notification",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		BackgroundTasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_background_tasks_total",
				Help: "Dispatched background tasks by name and outcome",
			},
			[]string{"task", "outcome"},
		),
		RoleMigrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_role_migrations_total",
				Help: "Role documents reconciled by result",
			},
			[]string{"result"},
		),
		ExpiredNotifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "crew_expired_notifications_deleted_total",
				Help: "Notifications removed by housekeeping",
			},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.InvitationValidations,
		m.InvitationConsumes,
		m.Onboardings,
		m.FanoutRecipients,
		m.BackgroundTasks,
		m.RoleMigrations,
		m.ExpiredNotifications,
	)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveValidation(outcome string) {
	if m == nil {
		return
	}
	m.InvitationValidations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveConsume(outcome string) {
	if m == nil {
		return
	}
	m.InvitationConsumes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveOnboarding(variant, outcome string) {
	if m == nil {
		return
	}
	m.Onboardings.WithLabelValues(variant, outcome).Inc()
}

func (m *Metrics) ObserveFanout(recipients int) {
	if m == nil {
		return
	}
	m.FanoutRecipients.Observe(float64(recipients))
}

func (m *Metrics) ObserveTask(task string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.BackgroundTasks.WithLabelValues(task, outcome).Inc()
}

func (m *Metrics) ObserveRoleMigration(result string) {
	if m == nil {
		return
	}
	m.RoleMigrations.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveExpiredNotifications(n int64) {
	if m == nil {
		return
	}
	m.ExpiredNotifications.Add(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware records request counts and latency. The route label is
// the matched ServeMux pattern so ids in paths do not explode cardinality.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
