package health_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kanopi/internal/health"
)

type noopChecker struct{}

func (noopChecker) PingDB(context.Context, time.Duration) error    { return nil }
func (noopChecker) PingRedis(context.Context, time.Duration) error { return nil }

// Once shutdown flips the readiness gate, /health/ready must fail even though
// database and Redis are still reachable.
func TestReadinessGateDuringShutdown(t *testing.T) {
	t.Cleanup(func() { health.SetReady(true) })
	handler := health.Handler{Checker: noopChecker{}}

	health.SetReady(true)
	rr := httptest.NewRecorder()
	handler.Ready(rr, readyRequest())
	require.Equal(t, http.StatusOK, rr.Code)

	health.SetReady(false)
	rr = httptest.NewRecorder()
	handler.Ready(rr, readyRequest())
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
