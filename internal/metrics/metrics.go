// Package metrics exposes Prometheus counters for music loads and playback
// attempts, and an optional HTTP listener serving them.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

const namespace = "mood_player"

// Recorder counts widget actions. A nil *Recorder is valid and records nothing.
type Recorder struct {
	loads    *prometheus.CounterVec
	plays    *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// New registers the widget metrics on reg
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "music_loads_total",
			Help:      "Music URL requests by outcome.",
		}, []string{"outcome"}),
		plays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "music_plays_total",
			Help:      "Playback attempts by outcome.",
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "music_loads_in_flight",
			Help:      "Music URL requests not yet resolved.",
		}),
	}
	for _, c := range []prometheus.Collector{r.loads, r.plays, r.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadStarted marks a request as in flight
func (r *Recorder) LoadStarted() {
	if r == nil {
		return
	}
	r.inFlight.Inc()
}

// LoadFinished records the outcome of a request started with LoadStarted
func (r *Recorder) LoadFinished(err error) {
	if r == nil {
		return
	}
	r.inFlight.Dec()
	r.loads.WithLabelValues(outcome(err)).Inc()
}

// Played records a playback attempt
func (r *Recorder) Played(err error) {
	if r == nil {
		return
	}
	r.plays.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// Server serves /metrics for a registry
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics listener on addr for gatherer
func NewServer(addr string, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start listens on the configured address in the background. Listener
// errors are passed to onErr.
func (s *Server) Start(onErr func(error)) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		onErr(err)
		return
	}
	s.Serve(ln, onErr)
}

// Serve accepts connections on ln in the background
func (s *Server) Serve(ln net.Listener, onErr func(error)) {
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			onErr(err)
		}
	}()
}

// Shutdown stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Stop shuts the listener down within timeout. A shutdown that does not
// complete in time is logged.
func (s *Server) Stop(timeout time.Duration, logger logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("metrics listener shutdown")
	}
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
