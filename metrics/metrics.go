package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// HTTP metrics
	Requests       *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	// Task generator metrics
	GenerationsCompleted prometheus.Counter
	GenerationsDiscarded prometheus.Counter
	AssignmentsFinished  prometheus.Counter
	TasksAssigned        prometheus.Counter

	AuthFailures *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workspace_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workspace_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		GenerationsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "workspace_task_generations_completed_total",
			Help: "Task generations that produced a task list",
		}),

		GenerationsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "workspace_task_generations_discarded_total",
			Help: "Task generations dropped by a reset before completing",
		}),

		AssignmentsFinished: factory.NewCounter(prometheus.CounterOpts{
			Name: "workspace_task_assignments_finished_total",
			Help: "Generator sessions finished by the user",
		}),

		TasksAssigned: factory.NewCounter(prometheus.CounterOpts{
			Name: "workspace_generated_tasks_assigned_total",
			Help: "Generated tasks that had a member when the session was finished",
		}),

		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workspace_auth_failures_total",
			Help: "Rejected authentication attempts by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) Generated() { m.GenerationsCompleted.Inc() }
func (m *Metrics) Discarded() { m.GenerationsDiscarded.Inc() }

func (m *Metrics) Finished(assigned, _ int) {
	m.AssignmentsFinished.Inc()
	m.TasksAssigned.Add(float64(assigned))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by the matched
// route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.RequestLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
