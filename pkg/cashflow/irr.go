package cashflow

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.uber.org/zap"
)

// ErrNoSolution is returned when a series has no internal rate of return.
var ErrNoSolution = errors.New("no internal rate of return")

// Solver methods reported in Result.
const (
	MethodNewton    = "newton"
	MethodBisection = "bisection"
)

// bracketStep is the grid spacing used when scanning for a sign change.
const bracketStep = 0.01

// SolverConfig tunes the IRR search.
type SolverConfig struct {
	Guess         float64
	Tolerance     float64
	MaxIterations int
}

// DefaultSolverConfig returns the standard solver settings.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Guess:         constants.DefaultIRRGuess,
		Tolerance:     constants.DefaultIRRTolerance,
		MaxIterations: constants.DefaultIRRMaxIterations,
	}
}

// Result describes a solved internal rate of return.
type Result struct {
	Rate       float64
	Iterations int
	Method     string
}

// Solver finds internal rates of return.
type Solver struct {
	logger *zap.Logger
	cfg    SolverConfig
}

// NewSolver creates a solver. Zero-valued settings fall back to defaults.
func NewSolver(logger *zap.Logger, cfg SolverConfig) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultSolverConfig()
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaults.Tolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaults.MaxIterations
	}
	if cfg.Guess <= -1 || !mathutil.IsFinite(cfg.Guess) {
		cfg.Guess = defaults.Guess
	}
	return &Solver{logger: logger, cfg: cfg}
}

func hasSignChange(flows []float64) bool {
	positive, negative := false, false
	for _, flow := range flows {
		switch {
		case flow > 0:
			positive = true
		case flow < 0:
			negative = true
		}
	}
	return positive && negative
}

// IRR returns the rate at which the NPV of flows is zero. When several
// roots exist the one reached from the configured guess is returned.
func (s *Solver) IRR(flows []float64) (Result, error) {
	if err := ValidateFlows(flows); err != nil {
		return Result{}, err
	}
	if len(flows) < 2 {
		return Result{}, validation.NewInputError("cashFlows", float64(len(flows)), "must contain at least two flows")
	}
	if !hasSignChange(flows) {
		return Result{}, fmt.Errorf("%w: cash flows never change sign", ErrNoSolution)
	}

	if result, ok := s.newton(flows); ok {
		return result, nil
	}

	s.logger.Debug("newton iteration did not converge, falling back to bisection",
		zap.String("op", "cashflow.IRR"),
		zap.Float64("guess", s.cfg.Guess),
	)

	lower, upper, ok := s.bracket(flows)
	if !ok {
		return Result{}, fmt.Errorf("%w: no sign change between %.2f and %.2f",
			ErrNoSolution, constants.IRRLowerBound, constants.IRRUpperBound)
	}
	return s.bisect(flows, lower, upper), nil
}

func (s *Solver) newton(flows []float64) (Result, bool) {
	rate := s.cfg.Guess
	for iterations := 1; iterations <= s.cfg.MaxIterations; iterations++ {
		value := npv(rate, flows)
		derivative := npvDerivative(rate, flows)
		if derivative == 0 || !mathutil.IsFinite(derivative) || !mathutil.IsFinite(value) {
			return Result{}, false
		}

		next := rate - value/derivative
		if !mathutil.IsFinite(next) || next <= -1 {
			return Result{}, false
		}
		if math.Abs(next-rate) < s.cfg.Tolerance {
			return Result{Rate: next, Iterations: iterations, Method: MethodNewton}, true
		}
		rate = next
	}
	return Result{}, false
}

// bracket scans the solver range for the sign change closest to the guess.
func (s *Solver) bracket(flows []float64) (float64, float64, bool) {
	found := false
	var bestLower, bestUpper float64
	bestDistance := math.Inf(1)

	lower := constants.IRRLowerBound
	lowerValue := npv(lower, flows)
	for step := 1; ; step++ {
		upper := constants.IRRLowerBound + float64(step)*bracketStep
		if upper > constants.IRRUpperBound {
			break
		}
		upperValue := npv(upper, flows)
		if lowerValue == 0 || math.Signbit(lowerValue) != math.Signbit(upperValue) {
			distance := math.Abs((lower+upper)/2 - s.cfg.Guess)
			if distance < bestDistance {
				bestLower, bestUpper, bestDistance = lower, upper, distance
				found = true
			}
		}
		lower, lowerValue = upper, upperValue
	}
	return bestLower, bestUpper, found
}

func (s *Solver) bisect(flows []float64, lower, upper float64) Result {
	lowerValue := npv(lower, flows)
	if lowerValue == 0 {
		return Result{Rate: lower, Method: MethodBisection}
	}
	if npv(upper, flows) == 0 {
		return Result{Rate: upper, Method: MethodBisection}
	}
	iterations := 0
	for iterations < s.cfg.MaxIterations && math.Abs(upper-lower) > s.cfg.Tolerance {
		mid := lower + (upper-lower)/2
		midValue := npv(mid, flows)
		iterations++
		if midValue == 0 {
			return Result{Rate: mid, Iterations: iterations, Method: MethodBisection}
		}
		if math.Signbit(midValue) == math.Signbit(lowerValue) {
			if mid == lower {
				break
			}
			lower, lowerValue = mid, midValue
		} else {
			if mid == upper {
				break
			}
			upper = mid
		}
	}
	return Result{Rate: lower + (upper-lower)/2, Iterations: iterations, Method: MethodBisection}
}

// IRR solves flows with the default solver settings.
func IRR(flows []float64) (float64, error) {
	result, err := NewSolver(nil, DefaultSolverConfig()).IRR(flows)
	if err != nil {
		return 0, err
	}
	return result.Rate, nil
}
