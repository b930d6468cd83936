package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PostsCreated    prometheus.Counter
	FollowRequests  *prometheus.CounterVec
	LikeRequests    *prometheus.CounterVec
	MediaUploads    *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
}

// New builds the collectors on a private registry so that several instances
// (tests, the api and the worker) never collide on registration.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clitter_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clitter_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		PostsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "clitter_posts_created_total",
				Help: "Total number of posts created",
			},
		),
		FollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clitter_follow_requests_total",
				Help: "Total number of successful follow and unfollow requests",
			},
			[]string{"action"},
		),
		LikeRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clitter_like_requests_total",
				Help: "Total number of successful like and unlike requests",
			},
			[]string{"action"},
		),
		MediaUploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clitter_media_uploads_total",
				Help: "Total number of media uploads, split by whether the content was already stored",
			},
			[]string{"result"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clitter_profile_cache_lookups_total",
				Help: "Profile cache lookups by outcome",
			},
			[]string{"result"},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clitter_events_published_total",
				Help: "Domain events handed to the broker, by type and outcome",
			},
			[]string{"type", "result"},
		),
	}

	m.Registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.PostsCreated,
		m.FollowRequests,
		m.LikeRequests,
		m.MediaUploads,
		m.CacheLookups,
		m.EventsPublished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
