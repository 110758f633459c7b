// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// calc_cmd.go - Tax calculator command handler for the saldo CLI.
//
// Commands:
//   saldo calc vat <amount> [--rate 25|12|6] [--extract]
//   saldo calc employer <salary>
//   saldo calc salary <gross> [--tax RATE]
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/morganforge/saldo-tui/internal/calc"
)

// HandleCalc handles the calc command.
func HandleCalc(args Args) error {
	switch args.Subcommand {
	case "vat", "moms":
		return calcVAT(args)
	case "employer", "arbetsgivaravgift":
		return calcEmployer(args)
	case "salary", "net":
		return calcSalary(args)
	case "":
		return fmt.Errorf("calc: missing subcommand (vat, employer, salary)")
	default:
		return fmt.Errorf("calc: unknown subcommand %q", args.Subcommand)
	}
}

func calcVAT(args Args) error {
	amount, err := calcAmount(args, "calc vat")
	if err != nil {
		return err
	}

	rate := calc.VATStandard
	if raw, ok := args.Options["rate"]; ok {
		rate, err = strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("calc vat: invalid rate %q", raw)
		}
	}

	var result calc.VATResult
	if _, extract := args.Options["extract"]; extract {
		result, err = calc.ExtractVAT(amount, rate)
	} else {
		result, err = calc.AddVAT(amount, rate)
	}
	if err != nil {
		return fmt.Errorf("calc vat: %w", err)
	}

	if args.JSON {
		return printJSON(result)
	}
	fmt.Printf("  Net:    %10.2f kr\n", result.Net)
	fmt.Printf("  VAT %d%%: %9.2f kr\n", result.Rate, result.VAT)
	fmt.Printf("  Total:  %10.2f kr\n", result.Total)
	return nil
}

func calcEmployer(args Args) error {
	salary, err := calcAmount(args, "calc employer")
	if err != nil {
		return err
	}

	result := calc.CalcEmployerCost(salary)
	if args.JSON {
		return printJSON(result)
	}
	fmt.Printf("  Gross salary:  %10.2f kr\n", result.Salary)
	fmt.Printf("  Contribution:  %10.2f kr (%.2f%%)\n", result.Contribution, calc.EmployerContributionRate*100)
	fmt.Printf("  Total cost:    %10.2f kr\n", result.Total)
	return nil
}

func calcSalary(args Args) error {
	gross, err := calcAmount(args, "calc salary")
	if err != nil {
		return err
	}

	taxRate := 0.0
	if raw, ok := args.Options["tax"]; ok {
		taxRate, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("calc salary: invalid tax rate %q", raw)
		}
	}

	result := calc.CalcNetSalary(gross, taxRate)
	if args.JSON {
		return printJSON(result)
	}
	fmt.Printf("  Gross:  %10.2f kr\n", result.Gross)
	fmt.Printf("  Tax:    %10.2f kr\n", result.Tax)
	fmt.Printf("  Net:    %10.2f kr\n", result.Net)
	return nil
}

// calcAmount pulls the positional amount for a calc subcommand.
func calcAmount(args Args, cmd string) (float64, error) {
	if len(args.Raw) == 0 {
		return 0, fmt.Errorf("%s: missing amount", cmd)
	}
	amount, err := strconv.ParseFloat(args.Raw[0], 64)
	if err != nil || amount < 0 {
		return 0, fmt.Errorf("%s: invalid amount %q", cmd, args.Raw[0])
	}
	return amount, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
