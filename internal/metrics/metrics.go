package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_evaluations_total",
			Help: "Dashboard evaluations, split by whether tomorrow was shown",
		},
		[]string{"rolled_over"},
	)
	skippedEntries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_skipped_entries_total",
			Help: "Timetable entries skipped because their times could not be parsed",
		},
	)
	overdueMarked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_tasks_marked_overdue_total",
			Help: "Tasks moved to overdue by the background sweeper",
		},
	)
)

var registerOnce sync.Once

// Register регистрирует метрики в реестре по умолчанию. Повторные вызовы ничего не делают.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, evaluations, skippedEntries, overdueMarked)
	})
}

// Handler отдаёт метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest учитывает один HTTP-запрос
func ObserveRequest(method, route string, status int, seconds float64) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveEvaluation учитывает одну оценку дашборда
func ObserveEvaluation(rolledOver bool, skipped int) {
	evaluations.WithLabelValues(strconv.FormatBool(rolledOver)).Inc()
	if skipped > 0 {
		skippedEntries.Add(float64(skipped))
	}
}

// ObserveOverdue учитывает задачи, переведённые в overdue
func ObserveOverdue(n int64) {
	if n > 0 {
		overdueMarked.Add(float64(n))
	}
}
