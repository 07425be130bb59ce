// Package server exposes the reserve calculation as a JSON API over fasthttp.
package server

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/gbrtax/internal/compare"
	"github.com/rgehrsitz/gbrtax/internal/config"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/reserve"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Options configures a Server
type Options struct {
	DefaultTable string
	Cache        Cache // nil disables response caching
	Logger       *zap.Logger
}

// Server handles API requests. Engines are created per tax table on first use.
type Server struct {
	defaultTable string
	cache        Cache
	logger       *zap.Logger
	parser       *config.InputParser

	mu      sync.Mutex
	engines map[string]*reserve.Engine
	// base bounds work that outlives a single handler call, such as the
	// concurrent strategy runs. Serve replaces it with its own context.
	base context.Context
}

// New creates a server
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	table := opts.DefaultTable
	if table == "" {
		table = config.DefaultTaxTable
	}
	return &Server{
		defaultTable: table,
		cache:        opts.Cache,
		logger:       logger,
		parser:       config.NewInputParser(),
		engines:      make(map[string]*reserve.Engine),
		base:         context.Background(),
	}
}

func (s *Server) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

func (s *Server) setBaseContext(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = ctx
}

func (s *Server) engine(table string) (*reserve.Engine, error) {
	if table == "" {
		table = s.defaultTable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[table]; ok {
		return e, nil
	}
	e, err := reserve.NewEngineForTable(table)
	if err != nil {
		return nil, err
	}
	e.SetLogger(s.logger.Sugar().With("table", table))
	s.engines[table] = e
	return e, nil
}

// Handler returns the routed request handler with request logging
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.logRequests(s.route)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		s.handleHealth(ctx)
	case "/v1/tables":
		s.handleTables(ctx)
	case "/v1/reserves":
		s.cached(ctx, s.handleReserves)
	case "/v1/compare":
		s.cached(ctx, s.handleCompare)
	case "/v1/tax":
		s.cached(ctx, s.handleTax)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found: "+string(ctx.Path()))
	}
}

func (s *Server) logRequests(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		s.logger.Info("request",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.ByteString("cache", ctx.Response.Header.Peek("X-Cache")),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// cached serves POST handlers from the cache. Only 200 replies are stored.
func (s *Server) cached(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.cache == nil {
		next(ctx)
		return
	}

	key := CacheKey(ctx.RequestURI(), ctx.PostBody())
	body, ok, err := s.cache.Get(key)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		ctx.Response.Header.Set("X-Cache", "HIT")
		ctx.SetContentType("application/json")
		ctx.SetBodyString(body)
		return
	}

	next(ctx)
	ctx.Response.Header.Set("X-Cache", "MISS")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		return
	}
	if err := s.cache.Set(key, string(ctx.Response.Body())); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTables(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	resp := TablesResponse{}
	for _, name := range config.AvailableTaxTables() {
		table, err := config.LoadTaxTable(name)
		if err != nil {
			writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		resp.Tables = append(resp.Tables, TableInfo{
			Name:        table.Name,
			Description: table.Description,
			Zones:       len(table.Zones),
			Default:     name == s.defaultTable,
		})
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

// parseScenario decodes the body as a scenario document. The tax_table query
// argument overrides the document's tax year.
func (s *Server) parseScenario(ctx *fasthttp.RequestCtx) (*domain.Configuration, *reserve.Engine, bool) {
	cfg, err := s.parser.Parse(ctx.PostBody())
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, nil, false
	}
	table := cfg.TaxYear
	if t := string(ctx.QueryArgs().Peek("tax_table")); t != "" {
		table = t
	}
	e, err := s.engine(table)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return cfg, e, true
}

func (s *Server) handleReserves(ctx *fasthttp.RequestCtx) {
	cfg, e, ok := s.parseScenario(ctx)
	if !ok {
		return
	}
	if name := string(ctx.QueryArgs().Peek("strategy")); name != "" {
		cfg.Strategy = name
	}
	result, err := e.ComputeConfiguration(cfg)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, result)
}

func (s *Server) handleCompare(ctx *fasthttp.RequestCtx) {
	cfg, e, ok := s.parseScenario(ctx)
	if !ok {
		return
	}
	opts := compare.CompareOptions{
		BaseStrategy: string(ctx.QueryArgs().Peek("base")),
	}
	if list := string(ctx.QueryArgs().Peek("strategies")); list != "" {
		opts.Strategies = strings.Split(list, ",")
	}

	// RequestCtx is only a usable context.Context inside a running
	// fasthttp.Server, so the comparison runs on the server's own context
	cs, err := compare.NewCompareEngine(e).Compare(s.baseContext(), cfg, opts)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(ctx, fasthttp.StatusServiceUnavailable, "server is shutting down")
		return
	}
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, cs)
}

func (s *Server) handleTax(ctx *fasthttp.RequestCtx) {
	var req TaxRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Income.IsNegative() {
		writeError(ctx, fasthttp.StatusBadRequest, "income cannot be negative")
		return
	}
	state := domain.NordrheinWestfalen
	if req.State != "" {
		st, err := domain.ParseFederalState(string(req.State))
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
		state = st
	} else if req.ChurchMember {
		writeError(ctx, fasthttp.StatusBadRequest, "state is required for church members")
		return
	}

	e, err := s.engine(req.TaxTable)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	calc := e.Calc

	resp := TaxResponse{
		TaxTable: calc.Table.Name,
		Zone:     calc.ZoneIndex(req.Income, req.Joint),
	}
	if req.Increment != nil {
		diff := calc.ComputeDifferentialTax(req.Income, *req.Increment, req.Joint, req.ChurchMember, state)
		resp.Differential = &diff
	} else {
		breakdown := calc.ComputeTotalTax(req.Income, req.Joint, req.ChurchMember, state)
		resp.Breakdown = &breakdown
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

// Serve handles requests on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "gbrtax",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setBaseContext(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-serverErr
}

// ListenAndServe listens on addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
	return s.Serve(ctx, ln)
}
