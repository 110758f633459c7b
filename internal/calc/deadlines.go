// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package calc

import (
	"sort"
	"time"
)

// =============================================================================
// TAX DEADLINES
// =============================================================================

// DeadlineStatus classifies a deadline relative to today.
type DeadlineStatus string

const (
	StatusPassed   DeadlineStatus = "passed"
	StatusUrgent   DeadlineStatus = "urgent"   // within 14 days
	StatusUpcoming DeadlineStatus = "upcoming" // within 30 days
	StatusFuture   DeadlineStatus = "future"
)

// Deadline categories.
const (
	CategoryEmployer  = "employer"
	CategoryVAT       = "vat"
	CategoryAnnual    = "annual"
	CategoryPersonal  = "personal"
	CategoryCorporate = "corporate"
	CategoryTax       = "tax"
)

// Deadline is one entry in the Swedish filing calendar.
type Deadline struct {
	Date        time.Time
	Title       string
	Description string
	Category    string
	Recurring   bool
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
}

// Deadlines2025 is the Swedish tax calendar for 2025.
var Deadlines2025 = []Deadline{
	{day(2025, time.January, 17), "Arbetsgivardeklaration", "Employer declaration for December 2024", CategoryEmployer, true},
	{day(2025, time.February, 12), "MOMS Monthly", "VAT declaration for January (monthly reporters)", CategoryVAT, true},
	{day(2025, time.February, 26), "MOMS Quarterly", "VAT declaration Q4 2024 (quarterly reporters)", CategoryVAT, false},
	{day(2025, time.March, 31), "Årsredovisning (Small Companies)", "Annual report submission deadline for smaller companies", CategoryAnnual, false},
	{day(2025, time.May, 2), "Inkomstdeklaration (Private)", "Personal income tax declaration deadline", CategoryPersonal, false},
	{day(2025, time.May, 5), "Inkomstdeklaration (Company)", "Corporate income tax declaration (standard deadline)", CategoryCorporate, false},
	{day(2025, time.June, 30), "Årsredovisning (AB)", "Annual report for limited companies (within 7 months)", CategoryAnnual, false},
	{day(2025, time.August, 12), "MOMS Half-Year", "VAT declaration H1 2025 (bi-annual reporters)", CategoryVAT, false},
	{day(2025, time.December, 27), "Preliminary Tax Payment", "Final preliminary tax payment for 2025", CategoryTax, false},
}

// DaysUntil counts whole days from today's midnight to the deadline.
// Negative means the deadline has passed.
func (d Deadline) DaysUntil(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(d.Date.Sub(today).Hours() / 24)
}

// Status classifies the deadline relative to now.
func (d Deadline) Status(now time.Time) DeadlineStatus {
	days := d.DaysUntil(now)
	switch {
	case days < 0:
		return StatusPassed
	case days <= 14:
		return StatusUrgent
	case days <= 30:
		return StatusUpcoming
	default:
		return StatusFuture
	}
}

// FilterDeadlines returns the calendar sorted by date, optionally narrowed
// to one category ("" or "all" keeps everything).
func FilterDeadlines(deadlines []Deadline, category string) []Deadline {
	var out []Deadline
	for _, d := range deadlines {
		if category == "" || category == "all" || d.Category == category {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
