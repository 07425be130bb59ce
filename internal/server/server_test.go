package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/gbrtax/internal/compare"
	"github.com/rgehrsitz/gbrtax/internal/config"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const scenario = `{
  "tax_year": "2025",
  "strategy": "equitable",
  "partnership": {"monthly_profit": 5000, "type": "freelance", "safety_margin": 0.05},
  "partners": [
    {"id": "anna", "name": "Anna", "base_income": 40000, "share": 50, "church_member": true, "state": "NW"},
    {"id": "ben", "name": "Ben", "base_income": 12000, "share": 50, "church_member": true, "state": "NW"}
  ]
}`

func do(t *testing.T, h fasthttp.RequestHandler, method, uri, body string) *fasthttp.RequestCtx {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	h(&ctx)
	return &ctx
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp
}

func newTestServer(t *testing.T, cache Cache) *Server {
	return New(Options{Cache: cache, Logger: zaptest.NewLogger(t)})
}

func TestHealthAndTables(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	ctx := do(t, h, "GET", "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))

	ctx = do(t, h, "GET", "/v1/tables", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var tables TablesResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &tables))
	require.Len(t, tables.Tables, 2)
	assert.Equal(t, "2025", tables.Tables[0].Name)
	assert.False(t, tables.Tables[0].Default)
	assert.Equal(t, 5, tables.Tables[0].Zones)
	assert.Equal(t, config.DefaultTaxTable, tables.Tables[1].Name)
	assert.True(t, tables.Tables[1].Default)
	assert.Equal(t, 4, tables.Tables[1].Zones)

	ctx = do(t, h, "POST", "/v1/tables", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	ctx = do(t, h, "GET", "/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, fasthttp.StatusNotFound, decodeError(t, ctx).Status)
}

func TestReserves(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	ctx := do(t, h, "POST", "/v1/reserves", scenario)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var result domain.AggregateReserveResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &result))
	assert.Equal(t, domain.StrategyEquitable, result.Strategy)
	assert.Equal(t, "2025", result.TaxYear)
	assert.InDelta(t, 1824.8125, result.TotalReserve.InexactFloat64(), 1e-6)

	ctx = do(t, h, "POST", "/v1/reserves?strategy=individual&tax_table=2025-simplified", scenario)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &result))
	assert.Equal(t, domain.StrategyIndividual, result.Strategy)
	assert.Equal(t, "2025-simplified", result.TaxYear)
}

func TestReserves_BadRequests(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name string
		uri  string
		body string
		want string
	}{
		{"malformed", "/v1/reserves", `{"partners": [`, "Invalid request body"},
		{"no partners", "/v1/reserves", `{"partnership": {"monthly_profit": 100}}`, "partner"},
		{"unknown strategy", "/v1/reserves?strategy=fair", scenario, "fair"},
		{"unknown table", "/v1/reserves?tax_table=1999", scenario, "1999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(t, h, "POST", tt.uri, tt.body)
			assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
			resp := decodeError(t, ctx)
			assert.Equal(t, fasthttp.StatusBadRequest, resp.Status)
			assert.Contains(t, resp.Message, tt.want)
		})
	}

	ctx := do(t, h, "GET", "/v1/reserves", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestCompare(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	ctx := do(t, h, "POST", "/v1/compare?base=equitable", scenario)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var cs compare.ComparisonSet
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &cs))
	assert.Equal(t, domain.StrategyEquitable, cs.BaseStrategy)
	assert.Len(t, cs.Results, 2)
	assert.Len(t, cs.PartnerDeltas, 2)

	ctx = do(t, h, "POST", "/v1/compare?strategies=individual,fair", scenario)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestCompare_StoppedServer(t *testing.T) {
	srv := newTestServer(t, nil)
	stopped, cancel := context.WithCancel(context.Background())
	cancel()
	srv.setBaseContext(stopped)

	ctx := do(t, srv.Handler(), "POST", "/v1/compare", scenario)
	assert.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
	assert.Equal(t, fasthttp.StatusServiceUnavailable, decodeError(t, ctx).Status)
}

func TestTax(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	ctx := do(t, h, "POST", "/v1/tax", `{"income": 70000, "church_member": true, "state": "BY", "tax_table": "2025"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var resp TaxResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "2025", resp.TaxTable)
	assert.Equal(t, 4, resp.Zone)
	require.NotNil(t, resp.Breakdown)
	assert.Nil(t, resp.Differential)
	assert.True(t, resp.Breakdown.ChurchTax.IsPositive())

	ctx = do(t, h, "POST", "/v1/tax", `{"income": 12000, "increment": 30000, "church_member": true, "state": "NW", "tax_table": "2025"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp = TaxResponse{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.NotNil(t, resp.Differential)
	assert.Equal(t, "8682", resp.Differential.AdditionalTax.String())
	assert.Equal(t, "0.2894", resp.Differential.MarginalRate.String())

	// without tax_table the server uses its default table
	ctx = do(t, h, "POST", "/v1/tax", `{"income": 12000, "increment": 30000, "church_member": true, "state": "NW"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp = TaxResponse{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, config.DefaultTaxTable, resp.TaxTable)
	require.NotNil(t, resp.Differential)
	assert.Equal(t, "14519", resp.Differential.AdditionalTax.String())
	assert.InDelta(t, 0.48397, resp.Differential.MarginalRate.InexactFloat64(), 0.00001)

	for _, body := range []string{
		`{"income": -1}`,
		`{"income": 1000, "church_member": true}`,
		`{"income": 1000, "state": "Atlantis"}`,
		`not json`,
	} {
		ctx = do(t, h, "POST", "/v1/tax", body)
		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode(), body)
	}
}

func TestCaching(t *testing.T) {
	cache := NewMemoryCache()
	h := newTestServer(t, cache).Handler()

	first := do(t, h, "POST", "/v1/reserves", scenario)
	require.Equal(t, fasthttp.StatusOK, first.Response.StatusCode())
	assert.Equal(t, "MISS", string(first.Response.Header.Peek("X-Cache")))
	assert.Equal(t, 1, cache.Len())

	second := do(t, h, "POST", "/v1/reserves", scenario)
	assert.Equal(t, "HIT", string(second.Response.Header.Peek("X-Cache")))
	assert.Equal(t, string(first.Response.Body()), string(second.Response.Body()))

	// a different query is a different key
	do(t, h, "POST", "/v1/reserves?strategy=individual", scenario)
	assert.Equal(t, 2, cache.Len())

	// errors are not cached
	do(t, h, "POST", "/v1/reserves", `{}`)
	assert.Equal(t, 2, cache.Len())
}

type brokenCache struct{}

func (brokenCache) Get(string) (string, bool, error) { return "", false, errors.New("connection refused") }
func (brokenCache) Set(string, string) error          { return errors.New("connection refused") }

func TestCaching_FailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	h := New(Options{Cache: brokenCache{}, Logger: zap.New(core)}).Handler()

	ctx := do(t, h, "POST", "/v1/reserves", scenario)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "cache failures do not fail the request")
	assert.Equal(t, "MISS", string(ctx.Response.Header.Peek("X-Cache")))

	assert.Equal(t, 1, logs.FilterMessage("cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache write failed").Len())
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()
	_, ok, err := cache.Get("k")
	assert.False(t, ok)
	assert.NoError(t, err)

	require.NoError(t, cache.Set("k", "v"))
	val, ok, err := cache.Get("k")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey([]byte("/v1/tax"), []byte(`{"income":1}`))
	assert.Equal(t, a, CacheKey([]byte("/v1/tax"), []byte(`{"income":1}`)))
	assert.NotEqual(t, a, CacheKey([]byte("/v1/tax"), []byte(`{"income":2}`)))
	assert.NotEqual(t, a, CacheKey([]byte("/v1/reserves"), []byte(`{"income":1}`)))
	assert.Contains(t, a, "gbrtax:")
}

func TestRedisCache_Unreachable(t *testing.T) {
	cache := NewRedisCacheWithOptions(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}, time.Minute)
	defer cache.Close()

	_, ok, err := cache.Get("missing")
	assert.False(t, ok)
	assert.Error(t, err, "a connection failure is not a plain miss")
	assert.Error(t, cache.Set("k", "v"))
	assert.Error(t, cache.Ping(context.Background()))
}

func TestServe_InMemoryListener(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	srv := newTestServer(t, NewMemoryCache())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://gbrtax.test/v1/reserves")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetBodyString(scenario)
	require.NoError(t, client.Do(req, resp))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, "gbrtax", string(resp.Header.Server()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
