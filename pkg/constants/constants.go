// Package constants provides shared constants for the finance-calculators application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultCurrency is the ISO 4217 code used when displaying amounts
	DefaultCurrency = "USD"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides (FINCALC_LIMITS_MAXPRINCIPAL).
	EnvPrefix = "FINCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimitRequests is the number of requests a client may burst
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the time needed to refill the full bucket
	DefaultRateLimitWindow = time.Minute
)

// Input limits
const (
	DefaultMaxPrincipal         = 100000000.0
	DefaultMaxAnnualRate        = 100.0
	DefaultMaxTermMonths        = 600
	DefaultMaxTermYears         = 100
	DefaultMaxContribution      = 1000000.0
	DefaultMaxConversionRate    = 500.0
	DefaultMaxInitialInvestment = 100000000.0
	DefaultMaxCashFlows         = 600
)

// Solver defaults for internal rate of return.
const (
	DefaultIRRGuess         = 0.1
	DefaultIRRTolerance     = 1e-10
	DefaultIRRMaxIterations = 100

	// IRRLowerBound and IRRUpperBound delimit the bracket scan used when
	// Newton iteration fails.
	IRRLowerBound = -0.99
	IRRUpperBound = 10.0
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"

	DefaultCacheTTL = 10 * time.Minute
)

// DefaultServiceName identifies the process in traces and logs.
const DefaultServiceName = "finance-calculators"
