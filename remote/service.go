package remote

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokkur/layr/adapters/metrics"
	"github.com/pokkur/layr/core/component"
	"github.com/pokkur/layr/core/registry"
)

// Service executes wire queries against a registry. The registry
// itself does no locking, so the service serializes every query behind
// its own mutex.
type Service struct {
	mu       sync.Mutex
	registry *registry.Registry
	logger   zerolog.Logger
	metrics  *metrics.Collector
}

// NewService creates a service exposing the given registry.
func NewService(reg *registry.Registry, logger zerolog.Logger) *Service {
	return &Service{registry: reg, logger: logger}
}

// NewServiceWithMetrics creates a service that also records query metrics.
func NewServiceWithMetrics(reg *registry.Registry, logger zerolog.Logger, m *metrics.Collector) *Service {
	s := NewService(reg, logger)
	s.metrics = m
	if m != nil {
		m.RegistryComponents.Set(float64(len(reg.ComponentNames())))
	}
	return s
}

// ReplaceRegistry swaps the served registry. Definition reloads build
// a fresh registry and swap it in without restarting the server.
func (s *Service) ReplaceRegistry(reg *registry.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = reg
	if s.metrics != nil {
		s.metrics.RegistryComponents.Set(float64(len(reg.ComponentNames())))
	}
	s.logger.Info().Str("registry", reg.Name()).Int("components", len(reg.ComponentNames())).Msg("registry replaced")
}

// Execute runs one request. The protocol version is checked before the
// query is even parsed.
func (s *Service) Execute(req Request) (any, error) {
	if req.Version != ProtocolVersion {
		if s.metrics != nil {
			s.metrics.VersionMismatches.Inc()
		}
		s.logger.Warn().Int("client_version", req.Version).Int("server_version", ProtocolVersion).Msg("rejected query with mismatched protocol version")
		return nil, &component.VersionMismatchError{Client: req.Version, Server: ProtocolVersion}
	}

	var query map[string]json.RawMessage
	if err := json.Unmarshal(req.Query, &query); err != nil {
		return nil, &UnknownQueryError{Query: string(req.Query)}
	}

	start := time.Now()
	if _, ok := query[introspectQuery]; ok {
		result := s.introspect()
		s.record("introspect", start, nil)
		return result, nil
	}

	err := &UnknownQueryError{Query: string(req.Query)}
	s.record("unknown", start, err)
	return nil, err
}

func (s *Service) introspect() registry.Introspection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Introspect()
}

func (s *Service) record(query string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.logger.Debug().
		Str("query", query).
		Str("status", status).
		Dur("duration", time.Since(start)).
		Msg("query executed")

	if s.metrics == nil {
		return
	}
	s.metrics.QueriesTotal.WithLabelValues(query, status).Inc()
	s.metrics.QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
