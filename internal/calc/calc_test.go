// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package calc

import (
	"math"
	"testing"
	"time"
)

// =============================================================================
// VAT TESTS
// =============================================================================

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestAddVAT(t *testing.T) {
	res, err := AddVAT(1000, 25)
	if err != nil {
		t.Fatalf("AddVAT: %v", err)
	}
	if !almostEqual(res.VAT, 250) || !almostEqual(res.Total, 1250) {
		t.Errorf("result = %+v", res)
	}
}

func TestExtractVAT(t *testing.T) {
	res, err := ExtractVAT(1250, 25)
	if err != nil {
		t.Fatalf("ExtractVAT: %v", err)
	}
	if !almostEqual(res.Net, 1000) || !almostEqual(res.VAT, 250) {
		t.Errorf("result = %+v", res)
	}
}

func TestVATReducedRates(t *testing.T) {
	res, _ := AddVAT(100, 12)
	if !almostEqual(res.Total, 112) {
		t.Errorf("12%% total = %v", res.Total)
	}
	res, _ = AddVAT(100, 6)
	if !almostEqual(res.Total, 106) {
		t.Errorf("6%% total = %v", res.Total)
	}
}

func TestVATInvalidRate(t *testing.T) {
	if _, err := AddVAT(100, 20); err == nil {
		t.Error("expected error for 20%")
	}
	if _, err := ExtractVAT(100, 0); err == nil {
		t.Error("expected error for 0%")
	}
}

// =============================================================================
// SALARY TESTS
// =============================================================================

func TestCalcEmployerCost(t *testing.T) {
	res := CalcEmployerCost(30000)
	if !almostEqual(res.Contribution, 9426) {
		t.Errorf("contribution = %v, want 9426", res.Contribution)
	}
	if !almostEqual(res.Total, 39426) {
		t.Errorf("total = %v, want 39426", res.Total)
	}
}

func TestCalcNetSalary(t *testing.T) {
	res := CalcNetSalary(30000, 32)
	if !almostEqual(res.Tax, 9600) || !almostEqual(res.Net, 20400) {
		t.Errorf("result = %+v", res)
	}
}

func TestCalcNetSalaryDefaultRate(t *testing.T) {
	res := CalcNetSalary(10000, 0)
	if !almostEqual(res.Tax, 3000) {
		t.Errorf("tax at default rate = %v, want 3000", res.Tax)
	}
}

// =============================================================================
// DEADLINE TESTS
// =============================================================================

func TestDeadlineStatus(t *testing.T) {
	d := Deadline{Date: day(2025, time.May, 2)}

	cases := []struct {
		now  time.Time
		want DeadlineStatus
	}{
		{day(2025, time.May, 3), StatusPassed},
		{day(2025, time.May, 2), StatusUrgent},  // today counts as urgent
		{day(2025, time.April, 20), StatusUrgent},
		{day(2025, time.April, 10), StatusUpcoming},
		{day(2025, time.January, 1), StatusFuture},
	}
	for _, tc := range cases {
		if got := d.Status(tc.now); got != tc.want {
			t.Errorf("Status(%s) = %s, want %s", tc.now.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	d := Deadline{Date: day(2025, time.May, 2)}

	// Time of day must not affect the whole-day count.
	now := time.Date(2025, time.April, 30, 23, 45, 0, 0, time.Local)
	if got := d.DaysUntil(now); got != 2 {
		t.Errorf("DaysUntil = %d, want 2", got)
	}
	if got := d.DaysUntil(day(2025, time.May, 2)); got != 0 {
		t.Errorf("DaysUntil today = %d, want 0", got)
	}
	if got := d.DaysUntil(day(2025, time.May, 5)); got != -3 {
		t.Errorf("DaysUntil past = %d, want -3", got)
	}
}

func TestFilterDeadlines(t *testing.T) {
	vat := FilterDeadlines(Deadlines2025, CategoryVAT)
	if len(vat) != 3 {
		t.Errorf("vat deadlines = %d, want 3", len(vat))
	}
	for i := 1; i < len(vat); i++ {
		if vat[i].Date.Before(vat[i-1].Date) {
			t.Error("deadlines not sorted by date")
		}
	}

	all := FilterDeadlines(Deadlines2025, "all")
	if len(all) != len(Deadlines2025) {
		t.Errorf("all = %d, want %d", len(all), len(Deadlines2025))
	}
}
