package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var NotificationsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "notifications_upserted_total",
	Help: "Notification edges created or refreshed, by reason",
}, []string{"reason"})

var SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "notification_side_effect_failures_total",
	Help: "Notification writes that failed after the triggering mutation committed",
}, []string{"operation"})

var ReportsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reports_filed_total",
	Help: "Filings by whether they opened a new report or joined an open one",
}, []string{"outcome"})

var TxDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "service_tx_duration_seconds",
	Help:    "Duration of service operations including their transaction",
	Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
}, []string{"operation"})
