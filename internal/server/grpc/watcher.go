package grpc

import (
	"context"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const defaultPingTimeout = 5 * time.Second

// WatchStorage pings storage right away and then every interval, updating
// the health status of both the overall server ("") and ServiceName. It
// returns nil when ctx is cancelled. A non-positive interval checks once.
func (s *GRPCServer) WatchStorage(ctx context.Context) error {
	s.checkStorage(ctx)

	if s.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.checkStorage(ctx)
		}
	}
}

func (s *GRPCServer) checkStorage(ctx context.Context) {
	timeout := defaultPingTimeout
	if s.interval > 0 && s.interval < timeout {
		timeout = s.interval
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.storage.Ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn(ctx, "storage unreachable", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
