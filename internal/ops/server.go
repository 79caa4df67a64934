package ops

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics are registered once on the default registry.
var (
	RestockBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fridgewise_restock_batches_total",
		Help: "Restock batches applied, labelled by source.",
	}, []string{"source"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fridgewise_scan_duration_seconds",
		Help:    "End-to-end duration of vision scan extraction.",
		Buckets: prometheus.DefBuckets,
	})

	MemoryPatchesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fridgewise_memory_patches_total",
		Help: "Memory patch updates persisted, labelled by source.",
	}, []string{"source"})
)

// Server exposes health and metrics endpoints on a side listener so the
// public API port stays clean.
type Server struct {
	logger *logrus.Logger
	mux    *http.ServeMux
}

func NewServer(logger *logrus.Logger) *Server {
	s := &Server{logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.Handler())
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		s.logger.WithError(err).Error("failed to encode healthz response")
	}
}

// ListenAndServe blocks serving the ops endpoints on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("ops server listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}
