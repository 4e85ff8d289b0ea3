package obs

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PayRpc/dbbench-go/internal/stats"
)

// Server exposes a live JSON stats snapshot on /stats and a Prometheus
// /metrics passthrough, with graceful shutdown via http.Server.Shutdown.
type Server struct {
	http *http.Server
}

type statSnapshot struct {
	Count   uint64            `json:"count"`
	Failure uint64            `json:"failure"`
	P50     map[string]uint64 `json:"p50_us"`
	P99     map[string]uint64 `json:"p99_us"`
}

// NewServer builds an HTTP server bound to addr serving /stats and
// /metrics. It does not start listening until Serve is called.
func NewServer(addr string, s *stats.Statistics) *Server {
	r := mux.NewRouter()
	r.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		snap := statSnapshot{
			Count:   s.Count(),
			Failure: s.Failure(),
			P50:     map[string]uint64{},
			P99:     map[string]uint64{},
		}
		for i, name := range opNames {
			h := s.Histogram(i)
			snap.P50[name] = h.Percentile(50)
			snap.P99[name] = h.Percentile(99)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	})
	r.Handle("/metrics", promhttp.Handler())

	return &Server{http: &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Serve starts listening; it blocks until the server is shut down and
// returns any error other than http.ErrServerClosed.
func (s *Server) Serve() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
