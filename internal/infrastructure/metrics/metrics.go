package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "dysonvac"

	// shutdownTimeout bounds the graceful stop of the metrics listener.
	shutdownTimeout = 5 * time.Second

	readHeaderTimeout = 5 * time.Second
)

// Metrics holds the dysonvac collectors and their registry.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	statusMessages *prometheus.CounterVec
	running        *prometheus.GaugeVec
	battery        *prometheus.GaugeVec
	state          *prometheus.GaugeVec

	// lastState remembers the state label set per device so the previous
	// one can be cleared.
	mu        sync.Mutex
	lastState map[string]string
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	labels := []string{"serial", "product_type"}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statusMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_messages_total",
			Help:      "Status messages decoded per vacuum.",
		}, labels),
		running: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vacuum_running",
			Help:      "1 while a clean is in progress.",
		}, labels),
		battery: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "battery_percent",
			Help:      "Last reported battery charge level.",
		}, labels),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vacuum_state",
			Help:      "1 for the vacuum's current state.",
		}, append(labels, "state")),
		lastState: make(map[string]string),
	}

	m.registry.MustRegister(m.statusMessages, m.running, m.battery, m.state)
	return m
}

// ObserveStatus records one decoded status message. An empty state leaves
// the state series untouched; a nil battery level leaves the battery gauge.
func (m *Metrics) ObserveStatus(serialNumber, productType, state string, running bool, battery *int) {
	m.statusMessages.WithLabelValues(serialNumber, productType).Inc()

	runningValue := 0.0
	if running {
		runningValue = 1
	}
	m.running.WithLabelValues(serialNumber, productType).Set(runningValue)

	if battery != nil {
		m.battery.WithLabelValues(serialNumber, productType).Set(float64(*battery))
	}

	if state == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.lastState[serialNumber]; ok && prev != state {
		m.state.DeleteLabelValues(serialNumber, productType, prev)
	}
	m.state.WithLabelValues(serialNumber, productType, state).Set(1)
	m.lastState[serialNumber] = state
}

// RegisterSessionGauges adds gauges evaluated at scrape time.
func (m *Metrics) RegisterSessionGauges(total, connected func() float64) error {
	totalGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions",
		Help:      "Live vacuum sessions.",
	}, total)
	connectedGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_connected",
		Help:      "Vacuum sessions with a connected broker.",
	}, connected)

	if err := m.registry.Register(totalGauge); err != nil {
		return fmt.Errorf("registering sessions gauge: %w", err)
	}
	if err := m.registry.Register(connectedGauge); err != nil {
		return fmt.Errorf("registering connected gauge: %w", err)
	}
	return nil
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on address until ctx is cancelled.
// The listener is bound before Serve returns, so a bad address fails fast.
func (m *Metrics) Serve(ctx context.Context, address string) (<-chan error, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan error, 1)
	go func() {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx) //nolint:errcheck // Serve reports the outcome
	}()

	return done, nil
}
