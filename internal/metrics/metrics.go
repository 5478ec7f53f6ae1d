package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	WorkoutStarted   = "started"
	WorkoutCompleted = "completed"
	WorkoutCancelled = "cancelled"

	NotificationCreated = "created"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

var (
	WorkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workoutbuddy_workouts_total",
			Help: "Workout session transitions by event",
		},
		[]string{"event"},
	)
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workoutbuddy_notifications_total",
			Help: "Notifications by type and result",
		},
		[]string{"type", "result"},
	)
	BuddyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workoutbuddy_buddy_requests_total",
			Help: "Buddy request operations by outcome",
		},
		[]string{"outcome"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// Register adds every collector to reg. Call once per registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		WorkoutsTotal,
		NotificationsTotal,
		BuddyRequestsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

func Workout(event string) {
	WorkoutsTotal.WithLabelValues(event).Inc()
}

func Notification(notificationType, result string) {
	NotificationsTotal.WithLabelValues(notificationType, result).Inc()
}

func BuddyRequest(outcome string) {
	BuddyRequestsTotal.WithLabelValues(outcome).Inc()
}
