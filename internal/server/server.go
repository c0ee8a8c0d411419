package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/metrics"
	"github.com/iwvelando/finance-calculators/pkg/cashflow"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/output"
	"github.com/iwvelando/finance-calculators/pkg/rates"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the request identifier on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Options tunes the HTTP handler. A nil RateLimiter disables rate limiting.
type Options struct {
	MaxBodySize int64
	Version     string
	RateLimiter *RateLimiter
}

type handler struct {
	logger      *zap.Logger
	svc         *calculator.Service
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, svc *calculator.Service, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if svc == nil {
		svc = calculator.NewService(logger, nil, nil)
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, svc: svc, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Calculators
	h.route(mux, "/api/amortization", http.MethodPost, h.handleAmortization)
	h.route(mux, "/api/amortization/csv", http.MethodPost, h.handleAmortizationCSV)
	h.route(mux, "/api/growth", http.MethodPost, h.handleGrowth)
	h.route(mux, "/api/growth/csv", http.MethodPost, h.handleGrowthCSV)
	h.route(mux, "/api/rates", http.MethodPost, h.handleRates)
	h.route(mux, "/api/cashflows", http.MethodPost, h.handleCashFlows)

	// Metadata
	h.route(mux, "/api/defaults", http.MethodGet, h.handleDefaults)
	h.route(mux, "/api/frequencies", http.MethodGet, h.handleFrequencies)
	h.route(mux, "/api/config", http.MethodGet, h.handleConfigExport)
	h.route(mux, "/api/version", http.MethodGet, h.handleVersion)

	mux.Handle("/metrics", promhttp.Handler())

	var root http.Handler = mux
	if opts.RateLimiter != nil {
		root = rateLimit(opts.RateLimiter, root)
	}
	return requestID(root)
}

// route registers fn for a single method and records the request metric.
func (h *handler) route(mux *http.ServeMux, pattern, method string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			metrics.HTTPRequests.WithLabelValues(pattern, r.Method, strconv.Itoa(rec.status)).Inc()
		}()

		if r.Method != method {
			rec.Header().Set("Allow", method)
			http.Error(rec, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		fn(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func rateLimit(limiter *RateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decodeRequest reads a size-limited JSON body into v, rejecting unknown fields.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) handleAmortization(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortization"
	var req calculator.AmortizationRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	resp, err := h.svc.Amortize(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, r, err, op)
		return
	}

	h.logger.Info("amortization computed",
		zap.String("op", op),
		zap.Int("periods", resp.PeriodCount),
		zap.Float64("payment", resp.Payment),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleAmortizationCSV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortizationCSV"
	var req calculator.AmortizationRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	resp, err := h.svc.Amortize(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, r, err, op)
		return
	}

	h.writeCSVHeaders(w, "amortization.csv")
	if err := output.AmortizationCSV(w, resp.Schedule); err != nil {
		h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleGrowth(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGrowth"
	var req calculator.GrowthRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	resp, err := h.svc.Grow(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, r, err, op)
		return
	}

	h.logger.Info("growth projected",
		zap.String("op", op),
		zap.Int("years", len(resp.Schedule)),
		zap.Float64("finalBalance", resp.FinalBalance),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleGrowthCSV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGrowthCSV"
	var req calculator.GrowthRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	resp, err := h.svc.Grow(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, r, err, op)
		return
	}

	h.writeCSVHeaders(w, "growth.csv")
	if err := output.GrowthCSV(w, resp.Schedule); err != nil {
		h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleRates(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRates"
	var req calculator.RateConversionRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	resp, err := h.svc.ConvertRate(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, r, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleCashFlows(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCashFlows"
	var req calculator.CashFlowRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	resp, err := h.svc.EvaluateCashFlows(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, r, err, op)
		return
	}

	h.logger.Info("cash flows evaluated",
		zap.String("op", op),
		zap.Int("flows", len(req.CashFlows)),
		zap.String("method", resp.Method),
		zap.String("decision", string(resp.Decision)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.svc.Defaults()
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError,
			fmt.Sprintf("invalid configured defaults: %v", err), "server.handleDefaults")
		return
	}
	h.writeJSON(w, http.StatusOK, defaults)
}

type frequenciesResponse struct {
	Payment      []string           `json:"payment"`
	Compounding  []string           `json:"compounding"`
	Contribution []string           `json:"contribution"`
	Conversion   []string           `json:"conversion"`
	Conversions  []rates.Conversion `json:"conversions"`
}

func (h *handler) handleFrequencies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, frequenciesResponse{
		Payment:      frequency.PaymentFrequencies.Names(),
		Compounding:  frequency.CompoundingFrequencies.Names(),
		Contribution: frequency.ContributionFrequencies.Names(),
		Conversion:   frequency.ConversionFrequencies.Names(),
		Conversions:  rates.Conversions,
	})
}

// handleConfigExport returns the effective configuration as YAML.
func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	data, err := yaml.Marshal(h.svc.Config())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError,
			fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write YAML response", zap.Error(err))
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// statusFor maps calculator errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidInput), errors.Is(err, loans.ErrInvalidSchedule):
		return http.StatusBadRequest
	case errors.Is(err, cashflow.ErrNoSolution):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondCalculationError(w http.ResponseWriter, r *http.Request, err error, op string) {
	h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
		zap.String("request_id", r.Header.Get(RequestIDHeader)),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("calculator request failed", fields...)
	} else {
		h.logger.Warn("calculator request rejected", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
