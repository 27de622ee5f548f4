package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.Failf(t, "span not found", "no span named %q", name)
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	router := okRouter(TracingWithConfig(TracingConfig{Enabled: false}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_AttributesAndErrors(t *testing.T) {
	sr := setupTestTracer(t)
	v := newTestVerifier(t)
	token, err := v.Issue("u-9", "samir", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.Use(
		RequestID(),
		Tracing(),
		JWTAuthMiddleware(DefaultJWTConfig(v, true)),
		TracingAttributeInjector(),
		SpanErrorMarker(),
	)
	router.POST("/installments/:id/payments", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
	})

	req := httptest.NewRequest(http.MethodPost, "/installments/3/payments", nil)
	req.Header.Set(RequestIDHeader, "req-trace-1")
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	span := findSpan(t, sr, "POST /installments/:id/payments")
	for key, want := range map[string]string{"request_id": "req-trace-1", "user_id": "u-9", "actor": "samir"} {
		got, ok := spanAttr(span, key)
		require.True(t, ok, key)
		assert.Equal(t, want, got.AsString())
	}
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "Rejected", span.Status().Description)
}

func TestSpanErrorMarker_SuccessLeavesStatusUnset(t *testing.T) {
	sr := setupTestTracer(t)
	router := okRouter(Tracing(), SpanErrorMarker())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	span := findSpan(t, sr, "GET /test")
	assert.Equal(t, codes.Unset, span.Status().Code)
}

func TestSpanErrorDescription(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:          "Client Error",
		http.StatusUnauthorized:        "Unauthorized",
		http.StatusNotFound:            "Not Found",
		http.StatusUnprocessableEntity: "Rejected",
		http.StatusInternalServerError: "Internal Server Error",
		http.StatusServiceUnavailable:  "Internal Server Error",
	}
	for status, want := range tests {
		assert.Equal(t, want, spanErrorDescription(status))
	}
}
