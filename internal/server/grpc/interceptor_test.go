package grpc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/symptoms/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type entry struct {
	msg  string
	args []any
}

type recLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recLogger) rec(msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{msg: msg, args: args})
}

func (r *recLogger) Debug(_ context.Context, msg string, args ...any) { r.rec(msg, args) }
func (r *recLogger) Info(_ context.Context, msg string, args ...any)  { r.rec(msg, args) }
func (r *recLogger) Warn(_ context.Context, msg string, args ...any)  { r.rec(msg, args) }
func (r *recLogger) Error(_ context.Context, msg string, args ...any) { r.rec(msg, args) }
func (r *recLogger) With(...any) logging.Logger                       { return r }

func argValue(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}

func TestLoggingInterceptor_LogsMethodAndCode(t *testing.T) {
	log := &recLogger{}
	s := NewGRPCServer("", log, &fakePinger{}, time.Second)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)

	require.Len(t, log.entries, 1)
	assert.Equal(t, "/grpc.health.v1.Health/Check", argValue(log.entries[0].args, "method"))
	assert.Equal(t, "OK", argValue(log.entries[0].args, "code"))
	assert.NotNil(t, argValue(log.entries[0].args, "duration"))
}

func TestLoggingInterceptor_PassesErrorThrough(t *testing.T) {
	log := &recLogger{}
	s := NewGRPCServer("", log, &fakePinger{}, time.Second)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	}

	_, err := s.loggingInterceptor(context.Background(), nil, info, h)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))

	require.Len(t, log.entries, 1)
	assert.Equal(t, "NotFound", argValue(log.entries[0].args, "code"))
}
