package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK         = "ok"
	outcomeError      = "error"
	outcomeBadRequest = "bad_request"
)

// metrics holds the server's counters. Each Server owns its own registry so
// several servers can run in one process.
type metrics struct {
	registry *prometheus.Registry
	chats    *prometheus.CounterVec
	moods    *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		chats: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertexprobe",
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome (ok, bad_request or a failure reason).",
		}, []string{"outcome"}),
		moods: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertexprobe",
			Name:      "mood_entries_total",
			Help:      "Mood entries by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *metrics) handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
