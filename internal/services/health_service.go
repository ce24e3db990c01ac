package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"ordercli/internal/store"
	ws "ordercli/internal/websocket"
)

// HealthStatus is the health check response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]string      `json:"services,omitempty"`
}

// TransportStatus reports whether the remote file transport currently
// holds a connection. Health checks read it instead of dialing, so a
// probe never opens a connection of its own.
type TransportStatus interface {
	Connected() bool
}

// HealthService reports process and dependency health
type HealthService struct {
	version   string
	store     *store.Store
	hub       *ws.Hub
	transport TransportStatus
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a new health service
func NewHealthService(version string, st *store.Store, hub *ws.Hub, transport TransportStatus, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		store:     st,
		hub:       hub,
		transport: transport,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Health checks the process and its dependencies. The overall status
// degrades when the supplier store is unreachable.
func (s *HealthService) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Services:  make(map[string]string),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.store.Ping(checkCtx); err != nil {
		status.Status = "degraded"
		status.Services["store"] = "unreachable: " + err.Error()
		s.logger.WarnContext(ctx, "store health check failed",
			slog.String("error", err.Error()))
	} else {
		status.Services["store"] = "ok"
	}

	if s.transport != nil {
		if s.transport.Connected() {
			status.Services["transport"] = "connected"
		} else {
			status.Services["transport"] = "idle"
		}
	}

	if s.hub != nil {
		status.Runtime["websocket_clients"] = s.hub.ClientCount()
	}

	return status
}
