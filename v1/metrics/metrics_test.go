package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/storefront/v1/connection"
)

func TestObserveTransitionIsOneHot(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "storefront"})

	m.ObserveTransition(connection.Disconnected, connection.Connecting)
	m.ObserveTransition(connection.Connecting, connection.Connected)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.connectionState.WithLabelValues("connected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.connectionState.WithLabelValues("connecting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("disconnected", "connecting")))
}

func TestRecordersAndHandler(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "storefront", Namespace: "shop"})

	m.ObserveDial(20*time.Millisecond, nil)
	m.ObserveDial(5*time.Second, errors.New("timeout"))
	m.ObserveStage("seed", time.Second, nil)
	m.RecordRequest(http.MethodGet, "/api/products", http.StatusOK, time.Now())
	m.IncrementGateRejections()

	assert.Equal(t, 1, testutil.CollectAndCount(m.requestsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(m.dialDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateRejections))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `shop_http_requests_total{method="GET",route="/api/products",service="storefront",status="200"} 1`), text)
	assert.Contains(t, text, `shop_startup_stage_duration_seconds_count{result="success",service="storefront",stage="seed"} 1`)
	assert.Contains(t, text, `shop_gate_rejections_total{service="storefront"} 1`)
}

func TestDynamicFactories(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "storefront"})

	c := m.CreateCounter("orders_total", "orders", []string{"status"})
	c.WithLabelValues("paid").Inc()
	h := m.CreateHistogram("checkout_seconds", "checkout", []string{"step"}, []float64{1})
	h.WithLabelValues("pay").Observe(0.5)
	g := m.CreateGauge("carts_open", "carts", []string{"region"})
	g.WithLabelValues("eu").Set(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.WithLabelValues("paid")))
	assert.Equal(t, 3.0, testutil.ToFloat64(g.WithLabelValues("eu")))

	assert.Panics(t, func() { m.CreateCounter("orders_total", "dup", []string{"status"}) })
}

func TestDedicatedServerOnlyWithAddress(t *testing.T) {
	assert.Nil(t, NewMetrics(Config{}).Server)

	m := NewMetrics(Config{Address: ":0", EnableDefaultCollectors: true})
	require.NotNil(t, m.Server)
	assert.Equal(t, ":0", m.Server.Addr)
}
