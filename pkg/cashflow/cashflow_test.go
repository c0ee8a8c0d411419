package cashflow

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.uber.org/zap"
)

var referenceFlows = []float64{-10000, 3000, 4000, 5000, 6000}

func TestNPV(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		flows    []float64
		expected float64
	}{
		{"Reference project at 10%", 0.10, referenceFlows, 3887.7126},
		{"Zero rate sums flows", 0, referenceFlows, 8000},
		{"Single undiscounted flow", 0.5, []float64{-250}, -250},
		{"Par bond at coupon rate", 0.10, []float64{-1000, 100, 100, 100, 100, 1100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NPV(tt.rate, tt.flows)
			if err != nil {
				t.Fatalf("NPV() unexpected error = %v", err)
			}
			if math.Abs(got-tt.expected) > 0.0001 {
				t.Errorf("NPV(%v) = %.4f, expected %.4f", tt.rate, got, tt.expected)
			}
		})
	}
}

func TestNPVInvalid(t *testing.T) {
	if _, err := NPV(-1, referenceFlows); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for rate -1, got %v", err)
	}
	if _, err := NPV(0.1, nil); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty flows, got %v", err)
	}
	if _, err := NPV(0.1, []float64{-100, math.Inf(1)}); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for infinite flow, got %v", err)
	}
}

func TestIRR(t *testing.T) {
	tests := []struct {
		name     string
		flows    []float64
		expected float64
	}{
		{"Reference project", referenceFlows, 0.2488833566},
		{"Single period", []float64{-100, 110}, 0.10},
		{"Very high return", []float64{-100, 1000}, 9.0},
		{"Par bond", []float64{-1000, 100, 100, 100, 100, 1100}, 0.10},
		{"Two roots resolves nearest guess", []float64{-1, 3, -2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IRR(tt.flows)
			if err != nil {
				t.Fatalf("IRR() unexpected error = %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-8 {
				t.Errorf("IRR() = %.10f, expected %.10f", got, tt.expected)
			}
			value, err := NPV(got, tt.flows)
			if err != nil {
				t.Fatalf("NPV() unexpected error = %v", err)
			}
			if math.Abs(value) > 1e-6 {
				t.Errorf("NPV(IRR) = %v, expected ~0", value)
			}
		})
	}
}

func TestIRRNoSolution(t *testing.T) {
	tests := []struct {
		name  string
		flows []float64
	}{
		{"All positive", []float64{100, 200, 300}},
		{"All negative", []float64{-100, -200}},
		{"Outlay with zero returns", []float64{-100, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := IRR(tt.flows); !errors.Is(err, ErrNoSolution) {
				t.Errorf("Expected ErrNoSolution, got %v", err)
			}
		})
	}

	if _, err := IRR([]float64{-100}); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a single flow, got %v", err)
	}
}

func TestBisectionFallback(t *testing.T) {
	solver := NewSolver(zap.NewNop(), SolverConfig{})

	lower, upper, ok := solver.bracket(referenceFlows)
	if !ok {
		t.Fatal("Expected a bracket for the reference project")
	}
	if lower > 0.2488833566 || upper < 0.2488833566 {
		t.Errorf("Bracket [%v, %v] does not contain the root", lower, upper)
	}

	result := solver.bisect(referenceFlows, lower, upper)
	if result.Method != MethodBisection {
		t.Errorf("Method = %q, expected bisection", result.Method)
	}
	if math.Abs(result.Rate-0.2488833566) > 1e-9 {
		t.Errorf("Bisection rate = %.10f, expected 0.2488833566", result.Rate)
	}
	if result.Iterations == 0 || result.Iterations > DefaultSolverConfig().MaxIterations {
		t.Errorf("Unexpected iteration count %d", result.Iterations)
	}
}

func TestBisectRootOnBracketEdge(t *testing.T) {
	// NPV is zero at 0% and at 100%, positive between them and negative above.
	flows := []float64{-1, 3, -2}
	solver := NewSolver(nil, SolverConfig{})

	tests := []struct {
		name     string
		lower    float64
		upper    float64
		expected float64
	}{
		{"Root at lower bound", 0, 3, 0},
		{"Root at upper bound", -0.5, 0, 0},
		{"Second root at lower bound", 1, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := solver.bisect(flows, tt.lower, tt.upper)
			if result.Rate != tt.expected {
				t.Errorf("Rate = %v, expected %v", result.Rate, tt.expected)
			}
			if result.Iterations != 0 {
				t.Errorf("Iterations = %d, expected 0", result.Iterations)
			}
			if result.Method != MethodBisection {
				t.Errorf("Method = %q, expected bisection", result.Method)
			}
		})
	}
}

func TestBracketOutsideRange(t *testing.T) {
	// Root at 1999%, beyond the scanned range.
	solver := NewSolver(nil, SolverConfig{})
	if _, _, ok := solver.bracket([]float64{-1, 20}); ok {
		t.Error("Expected no bracket for a root above the scan range")
	}
}

func TestNewSolverDefaults(t *testing.T) {
	solver := NewSolver(nil, SolverConfig{Guess: -5})
	defaults := DefaultSolverConfig()
	if solver.cfg != defaults {
		t.Errorf("NewSolver() config = %+v, expected %+v", solver.cfg, defaults)
	}
}

func TestEvaluate(t *testing.T) {
	solver := NewSolver(nil, DefaultSolverConfig())

	eval, err := solver.Evaluate(referenceFlows, 0.10)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error = %v", err)
	}
	if eval.Decision != Accept {
		t.Errorf("Decision = %q, expected accept", eval.Decision)
	}
	if !eval.IRRAboveDiscountRate {
		t.Error("Expected IRR above the discount rate")
	}
	if math.Abs(eval.NPV-3887.7126) > 0.0001 {
		t.Errorf("NPV = %.4f, expected 3887.7126", eval.NPV)
	}
	if len(eval.Notes) != 2 {
		t.Errorf("Expected 2 notes, got %d", len(eval.Notes))
	}

	eval, err = solver.Evaluate(referenceFlows, 0.30)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error = %v", err)
	}
	if eval.Decision != Reject || eval.IRRAboveDiscountRate {
		t.Errorf("Expected reject below IRR, got %q (above=%v)", eval.Decision, eval.IRRAboveDiscountRate)
	}

	if _, err := solver.Evaluate([]float64{10000, 3000}, 0.10); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for positive initial investment, got %v", err)
	}
	if _, err := solver.Evaluate([]float64{-100, -5}, 0.10); !errors.Is(err, ErrNoSolution) {
		t.Errorf("Expected ErrNoSolution, got %v", err)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		npv      float64
		expected Decision
	}{
		{150.25, Accept},
		{-0.5, Reject},
		{0.004, Indifferent},
		{0, Indifferent},
	}
	for _, tt := range tests {
		if got := Decide(tt.npv); got != tt.expected {
			t.Errorf("Decide(%v) = %q, expected %q", tt.npv, got, tt.expected)
		}
	}
}
