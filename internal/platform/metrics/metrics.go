// Package metrics registers the Prometheus instruments shared across
// features.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated           prometheus.Counter
	ApplicationsRegistered prometheus.Counter
	ApplicationsConfirmed  prometheus.Counter
	AuditEvents            *prometheus.CounterVec
	NotificationsEnqueued  prometheus.Counter
	NotificationsDropped   prometheus.Counter
	NotificationFailures   prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blockrent_users_created_total",
			Help: "Total number of users provisioned through registration",
		}),
		ApplicationsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blockrent_applications_registered_total",
			Help: "Total number of applications registered",
		}),
		ApplicationsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blockrent_applications_confirmed_total",
			Help: "Total number of applications that reached CONFIRMED",
		}),
		AuditEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blockrent_audit_events_total",
			Help: "Audit events recorded, by kind",
		}, []string{"kind"}),
		NotificationsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blockrent_notifications_enqueued_total",
			Help: "Notifications handed to the dispatcher",
		}),
		NotificationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blockrent_notifications_dropped_total",
			Help: "Notifications dropped because the dispatch queue was full",
		}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blockrent_notification_failures_total",
			Help: "Notification deliveries that failed (and were discarded)",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blockrent_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
