// Package metrics exposes the bot's Prometheus collectors and the small HTTP
// surface (/metrics, /healthz) that serves them over fasthttp.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Metrics struct {
	reg *prometheus.Registry

	turns        *prometheus.CounterVec
	turnDuration prometheus.Histogram
	chunks       prometheus.Counter
	feedback     *prometheus.CounterVec
}

// New builds a private registry so several instances (tests) never clash.
// conversations is sampled on every scrape; nil disables the gauge.
func New(conversations func() int) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatrelay_turns_total",
				Help: "Completed conversation turns by outcome.",
			},
			[]string{"outcome"},
		),
		turnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatrelay_turn_duration_seconds",
				Help:    "Wall time of a turn from request to last chunk.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
			},
		),
		chunks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chatrelay_stream_chunks_total",
				Help: "Completion fragments relayed to the chat.",
			},
		),
		feedback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatrelay_feedback_total",
				Help: "Feedback reactions by value.",
			},
			[]string{"value"},
		),
	}
	m.reg.MustRegister(m.turns, m.turnDuration, m.chunks, m.feedback)
	m.reg.MustRegister(collectors.NewGoCollector())
	if conversations != nil {
		m.reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "chatrelay_conversations",
				Help: "Conversations held in memory.",
			},
			func() float64 { return float64(conversations()) },
		))
	}
	return m
}

func (m *Metrics) ObserveTurn(outcome string, elapsed time.Duration) {
	m.turns.WithLabelValues(outcome).Inc()
	m.turnDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) Chunk() { m.chunks.Inc() }

func (m *Metrics) Feedback(value string) { m.feedback.WithLabelValues(value).Inc() }

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// NewServer serves Handler on fasthttp.
func (m *Metrics) NewServer() *fasthttp.Server {
	return &fasthttp.Server{
		Handler:     fasthttpadaptor.NewFastHTTPHandler(m.Handler()),
		Name:        "chat-relay",
		ReadTimeout: 10 * time.Second,
	}
}
