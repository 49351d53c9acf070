package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape returns the Prometheus exposition of provider.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// assertMetricLine matches name{...labels...} value, tolerating the otel_scope labels the
// exporter adds.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	assert.Regexp(t, name+`\{[^}]*`+labels+`[^}]*\} `+value, output)
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("secretstore_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "secretstore_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "secrets", "secret_create", "success")
	bm.RecordOperation(ctx, "secrets", "secret_create", "success")
	bm.RecordOperation(ctx, "secrets", "secret_create", "conflict")
	bm.RecordOperation(ctx, "secrets", "secret_get", "not_found")
	bm.RecordDuration(ctx, "secrets", "secret_create", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "secrets", "secret_create", 40*time.Millisecond, "success")

	output := scrape(t, provider)

	assertMetricLine(t, output, `secretstore_test_operations_total`,
		`domain="secrets".*operation="secret_create".*status="success"`, `2`)
	assertMetricLine(t, output, `secretstore_test_operations_total`,
		`domain="secrets".*operation="secret_create".*status="conflict"`, `1`)
	assertMetricLine(t, output, `secretstore_test_operations_total`,
		`domain="secrets".*operation="secret_get".*status="not_found"`, `1`)
	assertMetricLine(t, output, `secretstore_test_operation_duration_seconds_count`,
		`domain="secrets".*operation="secret_create".*status="success"`, `2`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	assert.NotPanics(t, func() {
		noOp.RecordOperation(context.Background(), "secrets", "secret_create", "success")
		noOp.RecordDuration(context.Background(), "secrets", "secret_create", time.Second, "error")
	})
}
