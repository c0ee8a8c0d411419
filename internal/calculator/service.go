// Package calculator exposes the financial calculators as request/response
// operations with input limits, caching, metrics and tracing applied.
package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/finance-calculators/internal/cache"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/metrics"
	"github.com/iwvelando/finance-calculators/pkg/cashflow"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/growth"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/rates"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/iwvelando/finance-calculators/internal/calculator"

// Calculator names used for metrics, spans and cache keys.
const (
	KindAmortization = "amortization"
	KindGrowth       = "growth"
	KindRates        = "rates"
	KindCashFlows    = "cashflows"
)

// Service runs calculator requests.
type Service struct {
	logger    *zap.Logger
	conf      *config.Configuration
	cache     cache.Cache
	tracer    trace.Tracer
	amortizer *loans.AmortizationScheduleGenerator
	projector *growth.Processor
	solver    *cashflow.Solver
}

// NewService creates a Service. A nil configuration uses config.Default and a
// nil cache disables caching.
func NewService(logger *zap.Logger, conf *config.Configuration, c cache.Cache) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.Default()
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		logger:    logger,
		conf:      conf,
		cache:     c,
		tracer:    otel.Tracer(tracerName),
		amortizer: loans.NewAmortizationScheduleGenerator(logger),
		projector: growth.NewProcessor(logger),
		solver: cashflow.NewSolver(logger, cashflow.SolverConfig{
			Guess:         conf.Solver.Guess,
			Tolerance:     conf.Solver.Tolerance,
			MaxIterations: conf.Solver.MaxIterations,
		}),
	}
}

// Config returns a copy of the effective configuration with secrets removed.
func (s *Service) Config() config.Configuration {
	c := *s.conf
	c.Defaults.CashFlows.Flows = append([]float64(nil), s.conf.Defaults.CashFlows.Flows...)
	if c.Cache.Password != "" {
		c.Cache.Password = "REDACTED"
	}
	return c
}

// run wraps one calculation with a span, metrics and the result cache.
func run[Req any, Resp any](ctx context.Context, s *Service, kind string, req Req, compute func(context.Context) (*Resp, error)) (*Resp, error) {
	ctx, span := s.tracer.Start(ctx, "calculator."+kind)
	defer span.End()
	span.SetAttributes(attribute.String("calculator", kind))

	start := time.Now()
	op := "calculator." + kind

	payload, err := json.Marshal(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", validation.ErrInvalidInput, err)
		recordFailure(span, err)
		metrics.ObserveCalculation(kind, start, err)
		return nil, err
	}
	key := cache.Key(kind, payload)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var resp Resp
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			metrics.ObserveCache(kind, true)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			metrics.ObserveCalculation(kind, start, nil)
			return &resp, nil
		}
		s.logger.Warn("discarding undecodable cache entry",
			zap.String("op", op),
			zap.String("key", key),
		)
	}
	metrics.ObserveCache(kind, false)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	resp, err := compute(ctx)
	metrics.ObserveCalculation(kind, start, err)
	if err != nil {
		recordFailure(span, err)
		s.logger.Debug("calculation failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, err
	}

	if encoded, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded)); err != nil {
			s.logger.Warn("failed to cache result",
				zap.String("op", op),
				zap.Error(err),
			)
		}
	}
	return resp, nil
}

func recordFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Amortize builds a French-system loan schedule.
func (s *Service) Amortize(ctx context.Context, req AmortizationRequest) (*AmortizationResponse, error) {
	return run(ctx, s, KindAmortization, req, func(context.Context) (*AmortizationResponse, error) {
		limits := s.conf.Limits
		if err := validation.ValidatePositive("principal", req.Principal, limits.MaxPrincipal); err != nil {
			return nil, err
		}
		if err := validation.ValidateRange("annualRate", req.AnnualRate, 0, limits.MaxAnnualRate); err != nil {
			return nil, err
		}
		if err := validation.ValidateIntRange("termMonths", req.TermMonths, 1, limits.MaxTermMonths); err != nil {
			return nil, err
		}

		schedule, err := s.amortizer.GenerateSchedule(loans.Parameters{
			Principal:         req.Principal,
			AnnualRatePercent: req.AnnualRate,
			TermMonths:        req.TermMonths,
			Frequency:         req.Frequency,
		})
		if err != nil {
			return nil, fmt.Errorf("amortization: %w", err)
		}

		return &AmortizationResponse{
			Request:       req,
			Payment:       schedule.Payment,
			PeriodicRate:  schedule.PeriodicRate,
			PeriodCount:   len(schedule.Periods),
			TotalPaid:     schedule.TotalPaid,
			TotalInterest: schedule.TotalInterest,
			Schedule:      schedule.Periods,
		}, nil
	})
}

// Grow projects compound growth with periodic contributions.
func (s *Service) Grow(ctx context.Context, req GrowthRequest) (*GrowthResponse, error) {
	return run(ctx, s, KindGrowth, req, func(context.Context) (*GrowthResponse, error) {
		limits := s.conf.Limits
		if err := validation.ValidateNonNegative("initialInvestment", req.InitialInvestment, limits.MaxInitialInvestment); err != nil {
			return nil, err
		}
		if err := validation.ValidateNonNegative("annualContribution", req.AnnualContribution, limits.MaxContribution); err != nil {
			return nil, err
		}
		if err := validation.ValidateRange("annualRate", req.AnnualRate, 0, limits.MaxAnnualRate); err != nil {
			return nil, err
		}
		if err := validation.ValidateIntRange("termYears", req.TermYears, 1, limits.MaxTermYears); err != nil {
			return nil, err
		}

		projection, err := s.projector.Project(growth.Parameters{
			InitialInvestment:  req.InitialInvestment,
			AnnualContribution: req.AnnualContribution,
			AnnualRatePercent:  req.AnnualRate,
			TermYears:          req.TermYears,
			Compounding:        req.CompoundingFrequency,
			Contribution:       req.ContributionFrequency,
		})
		if err != nil {
			return nil, fmt.Errorf("growth: %w", err)
		}

		return &GrowthResponse{
			Request:          req,
			FinalBalance:     projection.FinalBalance,
			TotalContributed: projection.TotalContributed,
			TotalInterest:    projection.TotalInterest,
			ROIPercent:       projection.ReturnOnInvestment(),
			Schedule:         projection.Records,
		}, nil
	})
}

// ConvertRate converts a percentage rate between nominal, effective and periodic forms.
func (s *Service) ConvertRate(ctx context.Context, req RateConversionRequest) (*RateConversionResponse, error) {
	return run(ctx, s, KindRates, req, func(context.Context) (*RateConversionResponse, error) {
		if err := validation.ValidateRange("rate", req.Rate, 0, s.conf.Limits.MaxConversionRate); err != nil {
			return nil, err
		}
		if err := frequency.ConversionFrequencies.Check("frequency", req.Frequency); err != nil {
			return nil, err
		}

		result, err := rates.Convert(req.Conversion, mathutil.PercentToDecimal(req.Rate), req.Frequency)
		if err != nil {
			return nil, fmt.Errorf("rate conversion: %w", err)
		}
		return &RateConversionResponse{
			Request: req,
			Result:  mathutil.DecimalToPercent(result),
		}, nil
	})
}

// EvaluateCashFlows computes the NPV at the discount rate and the IRR of a
// series whose first flow is the initial investment.
func (s *Service) EvaluateCashFlows(ctx context.Context, req CashFlowRequest) (*CashFlowResponse, error) {
	return run(ctx, s, KindCashFlows, req, func(context.Context) (*CashFlowResponse, error) {
		if err := validation.ValidateIntRange("cashFlows", len(req.CashFlows), 2, s.conf.Limits.MaxCashFlows); err != nil {
			return nil, err
		}
		if err := validation.ValidateRange("discountRate", req.DiscountRate, 0, s.conf.Limits.MaxAnnualRate); err != nil {
			return nil, err
		}

		eval, err := s.solver.Evaluate(req.CashFlows, mathutil.PercentToDecimal(req.DiscountRate))
		if err != nil {
			return nil, fmt.Errorf("cash flows: %w", err)
		}
		return &CashFlowResponse{
			Request:              req,
			NPV:                  eval.NPV,
			IRR:                  mathutil.DecimalToPercent(eval.IRR.Rate),
			Iterations:           eval.IRR.Iterations,
			Method:               eval.IRR.Method,
			Decision:             eval.Decision,
			IRRAboveDiscountRate: eval.IRRAboveDiscountRate,
			Notes:                eval.Notes,
		}, nil
	})
}

// Defaults returns the configured starting inputs for every calculator.
func (s *Service) Defaults() (*Defaults, error) {
	d := s.conf.Defaults

	paymentFrequency, err := frequency.PaymentFrequencies.Parse("defaults.amortization.frequency", d.Amortization.Frequency)
	if err != nil {
		return nil, err
	}
	compounding, err := frequency.CompoundingFrequencies.Parse("defaults.growth.compoundingFrequency", d.Growth.CompoundingFrequency)
	if err != nil {
		return nil, err
	}
	contribution, err := frequency.ContributionFrequencies.Parse("defaults.growth.contributionFrequency", d.Growth.ContributionFrequency)
	if err != nil {
		return nil, err
	}
	rateFrequency, err := frequency.ConversionFrequencies.Parse("defaults.rates.frequency", d.Rates.Frequency)
	if err != nil {
		return nil, err
	}
	conversion, err := rates.ParseConversion(d.Rates.Conversion)
	if err != nil {
		return nil, err
	}

	return &Defaults{
		Amortization: AmortizationRequest{
			Principal:  d.Amortization.Principal,
			AnnualRate: d.Amortization.AnnualRate,
			TermMonths: d.Amortization.TermMonths,
			Frequency:  paymentFrequency,
		},
		Growth: GrowthRequest{
			InitialInvestment:     d.Growth.InitialInvestment,
			AnnualContribution:    d.Growth.AnnualContribution,
			AnnualRate:            d.Growth.AnnualRate,
			TermYears:             d.Growth.TermYears,
			CompoundingFrequency:  compounding,
			ContributionFrequency: contribution,
		},
		Rates: RateConversionRequest{
			Conversion: conversion,
			Rate:       d.Rates.Rate,
			Frequency:  rateFrequency,
		},
		CashFlows: CashFlowRequest{
			CashFlows:    append([]float64(nil), d.CashFlows.Flows...),
			DiscountRate: d.CashFlows.DiscountRate,
		},
	}, nil
}
