// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/rates"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for finance-calculators.
type Configuration struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Limits   LimitsConfig   `yaml:"limits,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Solver   SolverConfig   `yaml:"solver,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Tracing  TracingConfig  `yaml:"tracing,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// LimitsConfig bounds the inputs accepted by the calculators.
type LimitsConfig struct {
	MaxPrincipal         float64 `yaml:"maxPrincipal,omitempty"`
	MaxAnnualRate        float64 `yaml:"maxAnnualRate,omitempty"` // percent
	MaxTermMonths        int     `yaml:"maxTermMonths,omitempty"`
	MaxTermYears         int     `yaml:"maxTermYears,omitempty"`
	MaxContribution      float64 `yaml:"maxContribution,omitempty"`
	MaxInitialInvestment float64 `yaml:"maxInitialInvestment,omitempty"`
	MaxCashFlows         int     `yaml:"maxCashFlows,omitempty"`
	MaxConversionRate    float64 `yaml:"maxConversionRate,omitempty"` // percent
}

// DefaultsConfig holds the inputs each calculator starts from.
type DefaultsConfig struct {
	Amortization AmortizationDefaults `yaml:"amortization,omitempty"`
	Growth       GrowthDefaults       `yaml:"growth,omitempty"`
	CashFlows    CashFlowDefaults     `yaml:"cashFlows,omitempty"`
	Rates        RateDefaults         `yaml:"rates,omitempty"`
}

// AmortizationDefaults are the initial loan inputs.
type AmortizationDefaults struct {
	Principal  float64 `yaml:"principal,omitempty"`
	AnnualRate float64 `yaml:"annualRate,omitempty"`
	TermMonths int     `yaml:"termMonths,omitempty"`
	Frequency  string  `yaml:"frequency,omitempty"`
}

// GrowthDefaults are the initial compound growth inputs.
type GrowthDefaults struct {
	InitialInvestment     float64 `yaml:"initialInvestment,omitempty"`
	AnnualContribution    float64 `yaml:"annualContribution,omitempty"`
	AnnualRate            float64 `yaml:"annualRate,omitempty"`
	TermYears             int     `yaml:"termYears,omitempty"`
	CompoundingFrequency  string  `yaml:"compoundingFrequency,omitempty"`
	ContributionFrequency string  `yaml:"contributionFrequency,omitempty"`
}

// CashFlowDefaults are the initial NPV/IRR inputs.
type CashFlowDefaults struct {
	Flows        []float64 `yaml:"flows,omitempty"`
	DiscountRate float64   `yaml:"discountRate,omitempty"` // percent
}

// RateDefaults are the initial rate conversion inputs.
type RateDefaults struct {
	Conversion string  `yaml:"conversion,omitempty"`
	Rate       float64 `yaml:"rate,omitempty"` // percent
	Frequency  string  `yaml:"frequency,omitempty"`
}

// SolverConfig tunes the internal rate of return search.
type SolverConfig struct {
	Guess         float64 `yaml:"guess,omitempty"`
	Tolerance     float64 `yaml:"tolerance,omitempty"`
	MaxIterations int     `yaml:"maxIterations,omitempty"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend  string        `yaml:"backend,omitempty"` // memory, redis, none
	Address  string        `yaml:"address,omitempty"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty"`
	TTL      time.Duration `yaml:"ttl,omitempty"`
}

// TracingConfig configures OpenTelemetry export. An empty endpoint disables it.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint,omitempty"`
	ServiceName string `yaml:"serviceName,omitempty"`
	Insecure    bool   `yaml:"insecure,omitempty"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Limits: LimitsConfig{
			MaxPrincipal:         constants.DefaultMaxPrincipal,
			MaxAnnualRate:        constants.DefaultMaxAnnualRate,
			MaxTermMonths:        constants.DefaultMaxTermMonths,
			MaxTermYears:         constants.DefaultMaxTermYears,
			MaxContribution:      constants.DefaultMaxContribution,
			MaxInitialInvestment: constants.DefaultMaxInitialInvestment,
			MaxCashFlows:         constants.DefaultMaxCashFlows,
			MaxConversionRate:    constants.DefaultMaxConversionRate,
		},
		Defaults: DefaultsConfig{
			Amortization: AmortizationDefaults{
				Principal:  50000,
				AnnualRate: 5,
				TermMonths: 60,
				Frequency:  frequency.Monthly.String(),
			},
			Growth: GrowthDefaults{
				InitialInvestment:     10000,
				AnnualContribution:    100,
				AnnualRate:            7,
				TermYears:             10,
				CompoundingFrequency:  frequency.Monthly.String(),
				ContributionFrequency: frequency.Monthly.String(),
			},
			CashFlows: CashFlowDefaults{
				Flows:        []float64{-10000, 3000, 4000, 5000, 6000},
				DiscountRate: 10,
			},
			Rates: RateDefaults{
				Conversion: string(rates.NominalToEffective),
				Rate:       5,
				Frequency:  frequency.Monthly.String(),
			},
		},
		Solver: SolverConfig{
			Guess:         constants.DefaultIRRGuess,
			Tolerance:     constants.DefaultIRRTolerance,
			MaxIterations: constants.DefaultIRRMaxIterations,
		},
		Cache: CacheConfig{
			Backend: constants.CacheBackendMemory,
			TTL:     constants.DefaultCacheTTL,
		},
		Tracing: TracingConfig{ServiceName: constants.DefaultServiceName},
	}
}

// setDefaults registers every default with viper so that environment
// variables can override keys absent from the file.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.outputFile", d.Logging.OutputFile)
	v.SetDefault("output.format", d.Output.Format)

	v.SetDefault("limits.maxPrincipal", d.Limits.MaxPrincipal)
	v.SetDefault("limits.maxAnnualRate", d.Limits.MaxAnnualRate)
	v.SetDefault("limits.maxTermMonths", d.Limits.MaxTermMonths)
	v.SetDefault("limits.maxTermYears", d.Limits.MaxTermYears)
	v.SetDefault("limits.maxContribution", d.Limits.MaxContribution)
	v.SetDefault("limits.maxInitialInvestment", d.Limits.MaxInitialInvestment)
	v.SetDefault("limits.maxCashFlows", d.Limits.MaxCashFlows)
	v.SetDefault("limits.maxConversionRate", d.Limits.MaxConversionRate)

	v.SetDefault("defaults.amortization.principal", d.Defaults.Amortization.Principal)
	v.SetDefault("defaults.amortization.annualRate", d.Defaults.Amortization.AnnualRate)
	v.SetDefault("defaults.amortization.termMonths", d.Defaults.Amortization.TermMonths)
	v.SetDefault("defaults.amortization.frequency", d.Defaults.Amortization.Frequency)
	v.SetDefault("defaults.growth.initialInvestment", d.Defaults.Growth.InitialInvestment)
	v.SetDefault("defaults.growth.annualContribution", d.Defaults.Growth.AnnualContribution)
	v.SetDefault("defaults.growth.annualRate", d.Defaults.Growth.AnnualRate)
	v.SetDefault("defaults.growth.termYears", d.Defaults.Growth.TermYears)
	v.SetDefault("defaults.growth.compoundingFrequency", d.Defaults.Growth.CompoundingFrequency)
	v.SetDefault("defaults.growth.contributionFrequency", d.Defaults.Growth.ContributionFrequency)
	v.SetDefault("defaults.cashFlows.flows", d.Defaults.CashFlows.Flows)
	v.SetDefault("defaults.cashFlows.discountRate", d.Defaults.CashFlows.DiscountRate)
	v.SetDefault("defaults.rates.conversion", d.Defaults.Rates.Conversion)
	v.SetDefault("defaults.rates.rate", d.Defaults.Rates.Rate)
	v.SetDefault("defaults.rates.frequency", d.Defaults.Rates.Frequency)

	v.SetDefault("solver.guess", d.Solver.Guess)
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
	v.SetDefault("solver.maxIterations", d.Solver.MaxIterations)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.address", d.Cache.Address)
	v.SetDefault("cache.password", d.Cache.Password)
	v.SetDefault("cache.db", d.Cache.DB)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.serviceName", d.Tracing.ServiceName)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yml")
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

// LoadOptionalConfiguration loads configPath when it exists, otherwise the
// defaults with environment overrides applied.
func LoadOptionalConfiguration(configPath string) (*Configuration, error) {
	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return decode(newViper())
		}
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return LoadConfiguration(configPath)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Values that cannot be used are replaced by defaults.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	d := Default()

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		warnings = append(warnings, fmt.Sprintf("output.format: %v, using %s", err, d.Output.Format))
		c.Output.Format = d.Output.Format
	}

	positive := []struct {
		name  string
		value *float64
		def   float64
	}{
		{"limits.maxPrincipal", &c.Limits.MaxPrincipal, d.Limits.MaxPrincipal},
		{"limits.maxAnnualRate", &c.Limits.MaxAnnualRate, d.Limits.MaxAnnualRate},
		{"limits.maxContribution", &c.Limits.MaxContribution, d.Limits.MaxContribution},
		{"limits.maxInitialInvestment", &c.Limits.MaxInitialInvestment, d.Limits.MaxInitialInvestment},
		{"limits.maxConversionRate", &c.Limits.MaxConversionRate, d.Limits.MaxConversionRate},
	}
	for _, p := range positive {
		if *p.value <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s must be positive, using %g", p.name, p.def))
			*p.value = p.def
		}
	}
	if c.Limits.MaxAnnualRate > constants.DefaultMaxAnnualRate {
		warnings = append(warnings, fmt.Sprintf("limits.maxAnnualRate %g exceeds %g%%, capping",
			c.Limits.MaxAnnualRate, constants.DefaultMaxAnnualRate))
		c.Limits.MaxAnnualRate = constants.DefaultMaxAnnualRate
	}

	counts := []struct {
		name  string
		value *int
		def   int
	}{
		{"limits.maxTermMonths", &c.Limits.MaxTermMonths, d.Limits.MaxTermMonths},
		{"limits.maxTermYears", &c.Limits.MaxTermYears, d.Limits.MaxTermYears},
		{"limits.maxCashFlows", &c.Limits.MaxCashFlows, d.Limits.MaxCashFlows},
		{"solver.maxIterations", &c.Solver.MaxIterations, d.Solver.MaxIterations},
	}
	for _, p := range counts {
		if *p.value <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s must be positive, using %d", p.name, p.def))
			*p.value = p.def
		}
	}

	if c.Solver.Tolerance <= 0 {
		warnings = append(warnings, fmt.Sprintf("solver.tolerance must be positive, using %g", d.Solver.Tolerance))
		c.Solver.Tolerance = d.Solver.Tolerance
	}
	if c.Solver.Guess <= -1 {
		warnings = append(warnings, fmt.Sprintf("solver.guess must be greater than -1, using %g", d.Solver.Guess))
		c.Solver.Guess = d.Solver.Guess
	}

	frequencies := []struct {
		name  string
		value *string
		set   frequency.Set
		def   string
	}{
		{"defaults.amortization.frequency", &c.Defaults.Amortization.Frequency, frequency.PaymentFrequencies, d.Defaults.Amortization.Frequency},
		{"defaults.growth.compoundingFrequency", &c.Defaults.Growth.CompoundingFrequency, frequency.CompoundingFrequencies, d.Defaults.Growth.CompoundingFrequency},
		{"defaults.growth.contributionFrequency", &c.Defaults.Growth.ContributionFrequency, frequency.ContributionFrequencies, d.Defaults.Growth.ContributionFrequency},
		{"defaults.rates.frequency", &c.Defaults.Rates.Frequency, frequency.ConversionFrequencies, d.Defaults.Rates.Frequency},
	}
	for _, f := range frequencies {
		if _, err := f.set.Parse(f.name, *f.value); err != nil {
			warnings = append(warnings, fmt.Sprintf("%v, using %s", err, f.def))
			*f.value = f.def
		}
	}
	if _, err := rates.ParseConversion(c.Defaults.Rates.Conversion); err != nil {
		warnings = append(warnings, fmt.Sprintf("defaults.rates.conversion: %v, using %s", err, d.Defaults.Rates.Conversion))
		c.Defaults.Rates.Conversion = d.Defaults.Rates.Conversion
	}

	switch c.Cache.Backend {
	case constants.CacheBackendMemory, constants.CacheBackendNone:
	case constants.CacheBackendRedis:
		if c.Cache.Address == "" {
			warnings = append(warnings, "cache.address is required for the redis backend, using memory")
			c.Cache.Backend = constants.CacheBackendMemory
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown cache.backend %q, using memory", c.Cache.Backend))
		c.Cache.Backend = constants.CacheBackendMemory
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = d.Cache.TTL
	}

	return warnings
}
