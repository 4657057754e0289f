package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	shutdownDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shutdown_duration_seconds",
		Help:    "Total time taken to shut down gracefully",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	shutdownErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shutdown_errors_total",
		Help: "Total number of shutdown errors by component",
	}, []string{"component"})
)

// Func stops one component
type Func func(context.Context) error

type component struct {
	name string
	fn   Func
}

// Manager stops registered components in reverse registration order,
// so a server registered after the pool it reads from stops first.
type Manager struct {
	logger     *zap.Logger
	timeout    time.Duration
	mu         sync.Mutex
	components []component
}

// NewManager creates a shutdown manager whose Shutdown is bounded by timeout
func NewManager(logger *zap.Logger, timeout time.Duration) *Manager {
	return &Manager{
		logger:  logger,
		timeout: timeout,
	}
}

// Register adds a component to stop on shutdown
func (m *Manager) Register(name string, fn Func) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, component{name: name, fn: fn})
	m.logger.Debug("Registered shutdown component",
		zap.String("component", name),
		zap.Int("registration_order", len(m.components)),
	)
}

// RegisterHTTPServer registers anything with an http.Server style Shutdown
func (m *Manager) RegisterHTTPServer(name string, server interface{ Shutdown(context.Context) error }) {
	m.Register(name, server.Shutdown)
}

// RegisterNoErr registers a close function that cannot fail, such as pgxpool.Pool.Close
func (m *Manager) RegisterNoErr(name string, fn func()) {
	m.Register(name, func(context.Context) error {
		fn()
		return nil
	})
}

// WaitForShutdown blocks until SIGINT, SIGTERM or ctx cancellation, then shuts down
func (m *Manager) WaitForShutdown(ctx context.Context) map[string]error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		m.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
		m.logger.Info("Context done, shutting down", zap.Error(ctx.Err()))
	}

	return m.Shutdown()
}

// Shutdown stops every component, newest first, and returns the failures by name.
// Components left when the timeout expires still get a cancelled context.
func (m *Manager) Shutdown() map[string]error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	components := make([]component, len(m.components))
	copy(components, m.components)
	m.mu.Unlock()

	failures := make(map[string]error)
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.fn(ctx); err != nil {
			failures[c.name] = err
			shutdownErrors.WithLabelValues(c.name).Inc()
			m.logger.Error("Component shutdown failed",
				zap.String("component", c.name),
				zap.Error(err),
			)
			continue
		}
		m.logger.Info("Component shut down", zap.String("component", c.name))
	}

	elapsed := time.Since(start)
	shutdownDuration.Observe(elapsed.Seconds())
	m.logger.Info("Shutdown complete",
		zap.Int("components", len(components)),
		zap.Int("errors", len(failures)),
		zap.Duration("elapsed", elapsed),
	)
	return failures
}
