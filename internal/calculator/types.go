package calculator

import (
	"github.com/iwvelando/finance-calculators/pkg/cashflow"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/growth"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/rates"
)

// AmortizationRequest describes a fixed-payment loan. AnnualRate is a percentage.
type AmortizationRequest struct {
	Principal  float64             `json:"principal"`
	AnnualRate float64             `json:"annualRate"`
	TermMonths int                 `json:"termMonths"`
	Frequency  frequency.Frequency `json:"frequency"`
}

// AmortizationResponse is a loan schedule with its totals.
type AmortizationResponse struct {
	Request       AmortizationRequest `json:"request"`
	Payment       float64             `json:"payment"`
	PeriodicRate  float64             `json:"periodicRate"`
	PeriodCount   int                 `json:"periodCount"`
	TotalPaid     float64             `json:"totalPaid"`
	TotalInterest float64             `json:"totalInterest"`
	Schedule      []loans.Period      `json:"schedule"`
}

// GrowthRequest describes a compound growth projection. AnnualRate is a percentage.
type GrowthRequest struct {
	InitialInvestment     float64             `json:"initialInvestment"`
	AnnualContribution    float64             `json:"annualContribution"`
	AnnualRate            float64             `json:"annualRate"`
	TermYears             int                 `json:"termYears"`
	CompoundingFrequency  frequency.Frequency `json:"compoundingFrequency"`
	ContributionFrequency frequency.Frequency `json:"contributionFrequency"`
}

// GrowthResponse is a yearly projection with its totals.
type GrowthResponse struct {
	Request          GrowthRequest       `json:"request"`
	FinalBalance     float64             `json:"finalBalance"`
	TotalContributed float64             `json:"totalContributed"`
	TotalInterest    float64             `json:"totalInterest"`
	ROIPercent       float64             `json:"roiPercent"`
	Schedule         []growth.YearRecord `json:"schedule"`
}

// RateConversionRequest converts Rate, a percentage, with Conversion.
type RateConversionRequest struct {
	Conversion rates.Conversion    `json:"conversion"`
	Rate       float64             `json:"rate"`
	Frequency  frequency.Frequency `json:"frequency"`
}

// RateConversionResponse holds the converted percentage.
type RateConversionResponse struct {
	Request RateConversionRequest `json:"request"`
	Result  float64               `json:"result"`
}

// CashFlowRequest lists flows starting at t=0. DiscountRate is a percentage.
type CashFlowRequest struct {
	CashFlows    []float64 `json:"cashFlows"`
	DiscountRate float64   `json:"discountRate"`
}

// CashFlowResponse reports NPV, IRR (percent) and their reading.
type CashFlowResponse struct {
	Request              CashFlowRequest   `json:"request"`
	NPV                  float64           `json:"npv"`
	IRR                  float64           `json:"irr"`
	Iterations           int               `json:"iterations"`
	Method               string            `json:"method"`
	Decision             cashflow.Decision `json:"decision"`
	IRRAboveDiscountRate bool              `json:"irrAboveDiscountRate"`
	Notes                []string          `json:"notes"`
}

// Defaults bundles the starting inputs of every calculator.
type Defaults struct {
	Amortization AmortizationRequest   `json:"amortization"`
	Growth       GrowthRequest         `json:"growth"`
	Rates        RateConversionRequest `json:"rates"`
	CashFlows    CashFlowRequest       `json:"cashFlows"`
}
