package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_class_bookings_total",
			Help: "Class booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_class_booking_cancellations_total",
			Help: "Total number of class booking cancellations",
		},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_checkins_total",
			Help: "Check-in attempts by outcome",
		},
		[]string{"outcome"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymflow_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_webhook_events_total",
			Help: "Payment webhook events by type and result",
		},
		[]string{"type", "result"},
	)

	AchievementsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_achievements_awarded_total",
			Help: "Achievements awarded to members",
		},
		[]string{"code"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_events_published_total",
			Help: "Domain events published to the broker",
		},
		[]string{"routing_key", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordCheckIn(outcome string) {
	CheckInsTotal.WithLabelValues(outcome).Inc()
}

func RecordEmail(status string) {
	EmailsSentTotal.WithLabelValues(status).Inc()
}

func RecordWebhookEvent(eventType, result string) {
	WebhookEventsTotal.WithLabelValues(eventType, result).Inc()
}

func RecordAchievement(code string) {
	AchievementsAwardedTotal.WithLabelValues(code).Inc()
}

func RecordEventPublished(routingKey, status string) {
	EventsPublishedTotal.WithLabelValues(routingKey, status).Inc()
}
