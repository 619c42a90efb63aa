package utils

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ChatsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chats_created_total",
		Help: "Total number of chats created",
	})
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messages_sent_total",
		Help: "Total number of messages stored",
	})
	ReactionsToggled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactions_toggled_total",
			Help: "Reaction writes by resulting value",
		},
		[]string{"value"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, ChatsCreated, MessagesSent, ReactionsToggled)
}
