// Package probe is a small gRPC client for the server's health endpoint,
// used by the healthcheck command (container probes, smoke tests).
package probe

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotServing  = errors.New("service not serving")
	ErrUnknown     = errors.New("unknown service")
)

type HealthClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      healthpb.HealthClient
}

// NewHealthClient prepares a client for endpointURL. No connection is made
// until the first Check.
func NewHealthClient(endpointURL string, opts ...grpc.DialOption) (*HealthClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	return &HealthClient{endpointURL: endpointURL, conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Check returns nil when service reports SERVING.
func (s *HealthClient) Check(ctx context.Context, service string) error {
	resp, err := s.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, resp.GetStatus())
	}
	return nil
}

func (s *HealthClient) Close() error {
	return s.conn.Close()
}

func (s *HealthClient) mapError(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrUnknown
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
