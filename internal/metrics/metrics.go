// Package metrics exposes tracker instrumentation as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/gaship/pkg/log"
)

// Recorder implements gaship.Metrics.
type Recorder struct {
	HitsEnqueued *prometheus.CounterVec
	Batches      *prometheus.CounterVec
	HitsDropped  prometheus.Counter
	Depth        prometheus.Gauge
	SendLatency  prometheus.Histogram
}

// NewRecorder creates the gaship metrics and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		HitsEnqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gaship_hits_enqueued_total",
				Help: "Hits appended to the buffer by kind",
			},
			[]string{"type"},
		),
		Batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gaship_batches_total",
				Help: "Batch requests by result",
			},
			[]string{"result"},
		),
		HitsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gaship_hits_dropped_total",
			Help: "Hits lost to failed batch requests",
		}),
		Depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gaship_buffer_depth",
			Help: "Hits currently buffered",
		}),
		SendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gaship_batch_send_seconds",
			Help:    "Duration of batch requests",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),
	}

	for _, c := range []prometheus.Collector{r.HitsEnqueued, r.Batches, r.HitsDropped, r.Depth, r.SendLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) HitEnqueued(kind string) {
	r.HitsEnqueued.WithLabelValues(kind).Inc()
}

func (r *Recorder) BatchSent(hits int, took time.Duration, err error) {
	r.SendLatency.Observe(took.Seconds())
	if err != nil {
		r.Batches.WithLabelValues("failure").Inc()
		r.HitsDropped.Add(float64(hits))
		return
	}
	r.Batches.WithLabelValues("success").Inc()
}

func (r *Recorder) BufferDepth(n int) {
	r.Depth.Set(float64(n))
}

// Server serves /metrics and /healthz.
type Server struct {
	server *http.Server
	logger log.Logger
}

// NewServer creates a metrics server for the metrics gathered by g.
func NewServer(addr string, g prometheus.Gatherer, logger log.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the server's mux.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics server listening", log.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", log.Err(err))
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
