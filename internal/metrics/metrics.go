package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aondetaorole_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aondetaorole_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TicketPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aondetaorole_ticket_purchases_total",
			Help: "Ticket purchase attempts by outcome",
		},
		[]string{"outcome", "path"},
	)

	BoostPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aondetaorole_boost_purchases_total",
			Help: "Boost purchases by type and payment method",
		},
		[]string{"boost_type", "payment_method"},
	)

	BoostRevenueCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aondetaorole_boost_revenue_cents_total",
			Help: "Total boost revenue in centavos",
		},
	)

	EngagementEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aondetaorole_engagement_events_total",
			Help: "Engagement flag transitions by flag and action",
		},
		[]string{"flag", "action"},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aondetaorole_wallet_transactions_total",
			Help: "Wallet ledger entries by type",
		},
		[]string{"type"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aondetaorole_notifications_sent_total",
			Help: "Receipt notifications by type and status",
		},
		[]string{"type", "status"},
	)

	NotifyQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aondetaorole_notify_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aondetaorole_premium_subscriptions_created_total",
			Help: "Premium subscriptions created by plan",
		},
		[]string{"plan"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordTicketPurchase(outcome, path string) {
	TicketPurchasesTotal.WithLabelValues(outcome, path).Inc()
}

func RecordBoostPurchase(boostType, paymentMethod string, totalCents int64) {
	BoostPurchasesTotal.WithLabelValues(boostType, paymentMethod).Inc()
	BoostRevenueCents.Add(float64(totalCents))
}

func RecordEngagement(flag, action string) {
	EngagementEventsTotal.WithLabelValues(flag, action).Inc()
}

func RecordWalletTransaction(txType string) {
	WalletTransactionsTotal.WithLabelValues(txType).Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsSentTotal.WithLabelValues(notifType, status).Inc()
}

func SetNotifyQueueLength(n int64) {
	NotifyQueueLength.Set(float64(n))
}

func RecordSubscription(plan string) {
	SubscriptionsCreatedTotal.WithLabelValues(plan).Inc()
}
