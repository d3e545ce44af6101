// Package server exposes the simulators over HTTP.
package server

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/rpgo/etfpension/internal/calculation"
	"github.com/rpgo/etfpension/internal/config"
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/rpgo/etfpension/internal/output"
)

// maxMonths caps the horizon a single request may ask for.
const maxMonths = 1200

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ETFRequest runs the ETF simulator alone.
type ETFRequest struct {
	Months         int               `json:"months"`
	MonthlyReturns []decimal.Decimal `json:"monthly_returns,omitempty"`
	ETF            domain.ETFConfig  `json:"etf"`
}

// PensionRequest runs the pension simulator alone.
type PensionRequest struct {
	MonthlyReturns []decimal.Decimal    `json:"monthly_returns,omitempty"`
	Pension        domain.PensionConfig `json:"pension"`
}

// Server routes requests to the comparison engine.
type Server struct {
	engine *calculation.ComparisonEngine
	parser *config.InputParser
	logger calculation.Logger
}

// New returns a server using engine. A nil logger is replaced by a no-op.
func New(engine *calculation.ComparisonEngine, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{engine: engine, parser: config.NewInputParser(), logger: logger}
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &fasthttp.Server{
		Handler:      s.Handle,
		Name:         "etfpension",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Infof("etfpension listening on %s", addr)
	return srv.ListenAndServe(addr)
}

// Handle is the fasthttp request handler.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	switch path {
	case "/healthz":
		if !ctx.IsGet() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			break
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/v1/compare":
		if s.requirePost(ctx) {
			s.handleCompare(ctx)
		}
	case "/v1/breakeven":
		if s.requirePost(ctx) {
			s.handleBreakEven(ctx)
		}
	case "/v1/etf":
		if s.requirePost(ctx) {
			s.handleETF(ctx)
		}
	case "/v1/pension":
		if s.requirePost(ctx) {
			s.handlePension(ctx)
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("Unknown path %s", path))
	}

	s.logger.Debugf("%s %s -> %d in %s", ctx.Method(), path, ctx.Response.StatusCode(), time.Since(start))
}

func (s *Server) requirePost(ctx *fasthttp.RequestCtx) bool {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// decodeConfiguration reads and validates a comparison request. It writes
// the error reply and returns nil on failure.
func (s *Server) decodeConfiguration(ctx *fasthttp.RequestCtx) *domain.Configuration {
	var cfg domain.Configuration
	if err := json.Unmarshal(ctx.PostBody(), &cfg); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil
	}
	// The server never reads files on behalf of a client.
	if cfg.HistoricalData != "" {
		writeError(ctx, fasthttp.StatusBadRequest, "historical_data is not accepted over HTTP; send monthly_returns instead")
		return nil
	}
	if err := s.parser.ValidateConfiguration(&cfg); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return nil
	}
	return &cfg
}

func (s *Server) handleCompare(ctx *fasthttp.RequestCtx) {
	cfg := s.decodeConfiguration(ctx)
	if cfg == nil {
		return
	}

	cmp, err := s.engine.RunComparison(ctx, cfg)
	if err != nil {
		s.logger.Errorf("comparison failed: %v", err)
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	cmp.Assumptions = output.GenerateAssumptions(cfg.ETF.Resolve(), cfg.Pension.Resolve())
	writeJSON(ctx, fasthttp.StatusOK, cmp)
}

func (s *Server) handleBreakEven(ctx *fasthttp.RequestCtx) {
	cfg := s.decodeConfiguration(ctx)
	if cfg == nil {
		return
	}

	result, err := s.engine.CalculateBreakEvenFeeRate(ctx, cfg)
	if err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, result)
}

func (s *Server) handleETF(ctx *fasthttp.RequestCtx) {
	var req ETFRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.ETF.Validate(); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if err := validateReturns(req.MonthlyReturns); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if len(req.MonthlyReturns) == 0 && (req.Months <= 0 || req.Months > maxMonths) {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("months must be between 1 and %d", maxMonths))
		return
	}

	sim := calculation.NewETFSimulator(req.ETF)
	sim.SetLogger(s.logger)
	writeJSON(ctx, fasthttp.StatusOK, sim.RunSimulation(req.Months, req.MonthlyReturns))
}

func (s *Server) handlePension(ctx *fasthttp.RequestCtx) {
	var req PensionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Pension.Validate(); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if err := validateReturns(req.MonthlyReturns); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	sim := calculation.NewPensionSimulator(req.Pension)
	sim.SetLogger(s.logger)
	writeJSON(ctx, fasthttp.StatusOK, sim.RunSimulation(req.MonthlyReturns))
}

func validateReturns(returns []decimal.Decimal) error {
	if len(returns) > maxMonths {
		return fmt.Errorf("at most %d monthly returns are accepted, got %d", maxMonths, len(returns))
	}
	minusOne := decimal.NewFromInt(-1)
	for i, r := range returns {
		if r.LessThanOrEqual(minusOne) {
			return fmt.Errorf("monthly return %d must be greater than -100%%", i)
		}
	}
	return nil
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
