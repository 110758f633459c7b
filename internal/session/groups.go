// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "time"

// =============================================================================
// RECENCY GROUPING
// =============================================================================

// GroupedSessions partitions sessions into display buckets by recency.
// Membership is derived from UpdatedAt relative to "now" at read time; it is
// never stored. Each bucket is ordered most recently updated first.
type GroupedSessions struct {
	Today     []ChatSession
	Yesterday []ChatSession
	ThisWeek  []ChatSession
	Older     []ChatSession
}

// GroupByRecency buckets the given sessions relative to now.
//
// Bucket thresholds are local-midnight boundaries: a session updated exactly
// at today's midnight belongs to Today, not Yesterday. ThisWeek covers the
// seven days before yesterday's boundary; everything earlier is Older.
func GroupByRecency(sessions []ChatSession, now time.Time) GroupedSessions {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	startOfWeek := startOfToday.AddDate(0, 0, -7)

	var groups GroupedSessions
	for _, s := range sessions {
		switch {
		case !s.UpdatedAt.Before(startOfToday):
			groups.Today = append(groups.Today, s)
		case !s.UpdatedAt.Before(startOfYesterday):
			groups.Yesterday = append(groups.Yesterday, s)
		case !s.UpdatedAt.Before(startOfWeek):
			groups.ThisWeek = append(groups.ThisWeek, s)
		default:
			groups.Older = append(groups.Older, s)
		}
	}
	return groups
}

// Grouped returns the current collection bucketed by recency against the
// wall clock. Recomputed on every call; the input set is small enough that
// caching would buy nothing.
func (m *Manager) Grouped() GroupedSessions {
	return GroupByRecency(m.Sessions(), time.Now())
}
