// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package calc implements the Swedish tax calculators: VAT, employer cost
// and net salary. Amounts are SEK as float64; these are estimates for
// orientation, not bookkeeping entries.
package calc

import "fmt"

// =============================================================================
// VAT / MOMS
// =============================================================================

// Swedish VAT rates in percent.
const (
	VATStandard = 25 // most goods & services
	VATReduced  = 12 // food, hotels, restaurants
	VATLow      = 6  // books, newspapers, cultural events
)

// VATRates lists the valid rates.
var VATRates = []int{VATStandard, VATReduced, VATLow}

// VATResult is a VAT breakdown: net + VAT = total.
type VATResult struct {
	Net   float64
	VAT   float64
	Total float64
	Rate  int
}

// AddVAT computes VAT on top of a net amount.
func AddVAT(net float64, rate int) (VATResult, error) {
	if err := checkRate(rate); err != nil {
		return VATResult{}, err
	}
	vat := net * float64(rate) / 100
	return VATResult{Net: net, VAT: vat, Total: net + vat, Rate: rate}, nil
}

// ExtractVAT splits a gross amount into net and VAT.
func ExtractVAT(total float64, rate int) (VATResult, error) {
	if err := checkRate(rate); err != nil {
		return VATResult{}, err
	}
	net := total / (1 + float64(rate)/100)
	return VATResult{Net: net, VAT: total - net, Total: total, Rate: rate}, nil
}

func checkRate(rate int) error {
	for _, r := range VATRates {
		if r == rate {
			return nil
		}
	}
	return fmt.Errorf("invalid VAT rate %d%%: must be 25, 12 or 6", rate)
}

// =============================================================================
// EMPLOYER COST
// =============================================================================

// EmployerContributionRate is the standard arbetsgivaravgifter rate.
const EmployerContributionRate = 0.3142

// EmployerCost is the full cost of a gross salary to the employer.
type EmployerCost struct {
	Salary       float64
	Contribution float64
	Total        float64
}

// CalcEmployerCost computes employer contributions on a gross salary.
func CalcEmployerCost(grossSalary float64) EmployerCost {
	contribution := grossSalary * EmployerContributionRate
	return EmployerCost{
		Salary:       grossSalary,
		Contribution: contribution,
		Total:        grossSalary + contribution,
	}
}

// =============================================================================
// NET SALARY
// =============================================================================

// DefaultMunicipalTaxRate is the fallback municipal tax rate in percent.
const DefaultMunicipalTaxRate = 30.0

// NetSalary is a gross-to-net salary estimate at a flat municipal rate.
type NetSalary struct {
	Gross float64
	Tax   float64
	Net   float64
}

// CalcNetSalary estimates take-home pay. A non-positive taxRate falls back
// to the default municipal rate.
func CalcNetSalary(gross, taxRate float64) NetSalary {
	if taxRate <= 0 {
		taxRate = DefaultMunicipalTaxRate
	}
	tax := gross * taxRate / 100
	return NetSalary{Gross: gross, Tax: tax, Net: gross - tax}
}
