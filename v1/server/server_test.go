package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/startup"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)

	cfg = Config{Host: "127.0.0.1", Port: 9090}
	cfg.applyDefaults()
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
}

func TestServerListenServeStop(t *testing.T) {
	router := newTestRouter(t, RouterDeps{})
	srv := NewServer(Config{Host: "127.0.0.1", Port: freePort(t)}, router, logger.NewNopLogger())

	require.NoError(t, srv.Listen())
	served := make(chan error, 1)
	go func() { served <- srv.Serve() }()

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

func TestServeRequiresListen(t *testing.T) {
	srv := NewServer(Config{}, http.NotFoundHandler(), logger.NewNopLogger())
	assert.Error(t, srv.Serve())
}

func TestLambdaHandler(t *testing.T) {
	handler := NewLambdaHandler(newTestRouter(t, RouterDeps{}))

	resp, err := handler(context.Background(), events.APIGatewayV2HTTPRequest{
		RawPath: "/api/products/p1",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: "abc123.execute-api.eu-central-1.amazonaws.com",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodGet,
				Path:   "/api/products/p1",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "Trail Running Shoes")
}

type stubConnector struct{ err error }

func (s stubConnector) EnsureConnected(context.Context) (connection.Handle, error) {
	if s.err != nil {
		return nil, &connection.ConnectionError{Attempt: 1, Err: s.err}
	}
	return nil, nil
}

func lifecycleApp(t *testing.T, strategy startup.Strategy, cfg Config) (*fxtest.App, *Server) {
	t.Helper()
	var srv *Server
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(
			func() startup.Strategy { return strategy },
			func() logger.Logger { return logger.NewNopLogger() },
			func() http.Handler { return newTestRouter(t, RouterDeps{}) },
			NewServerWithDI,
		),
		fx.Invoke(RegisterServerLifecycle),
		fx.Populate(&srv),
	)
	return app, srv
}

func TestLifecycleRefusesToListenWhenPrepareFails(t *testing.T) {
	o := startup.NewOrchestrator(stubConnector{err: errors.New("connection refused")}, nil, nil,
		startup.Options{}, logger.NewNopLogger())
	app, srv := lifecycleApp(t, startup.NewEager(o), Config{Host: "127.0.0.1", Port: freePort(t)})

	err := app.Start(context.Background())
	require.Error(t, err)
	assert.True(t, connection.IsConnectionError(err))

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Nil(t, srv.listener)
}

func TestLifecycleListensAfterPrepare(t *testing.T) {
	o := startup.NewOrchestrator(stubConnector{}, nil, nil, startup.Options{}, logger.NewNopLogger())
	app, srv := lifecycleApp(t, startup.NewEager(o), Config{Host: "127.0.0.1", Port: freePort(t)})

	app.RequireStart()
	defer app.RequireStop()

	assert.True(t, o.Done())
	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLifecycleSkipsListenerInLambda(t *testing.T) {
	o := startup.NewOrchestrator(stubConnector{err: errors.New("unreachable")}, nil, nil,
		startup.Options{}, logger.NewNopLogger())
	lazy := startup.NewLazy(o, stubConnector{err: errors.New("unreachable")}, logger.NewNopLogger())
	app, srv := lifecycleApp(t, lazy, Config{LambdaRuntime: true})

	app.RequireStart()
	defer app.RequireStop()

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Nil(t, srv.listener)
}
