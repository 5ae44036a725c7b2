// Copyright (C) 2025 Tim Bastin, l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cytoscape

import "strings"

type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityUnknown  Severity = "unknown"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityNone:     0,
	SeverityUnknown:  0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// rank -> label. "none" is the label for rank 0.
var canonicalSeverities = []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank compares case-insensitively. Unrecognized values rank like "none".
func (s Severity) Rank() int {
	return severityRanks[Severity(strings.ToLower(strings.TrimSpace(string(s))))]
}

// Canonical returns the lower-case label for the severity's rank.
func (s Severity) Canonical() Severity {
	return canonicalSeverities[s.Rank()]
}

// MaxSeverity returns the canonical label of the highest ranked severity.
// An empty list yields "none".
func MaxSeverity(severities ...Severity) Severity {
	maxRank := 0
	for _, s := range severities {
		maxRank = max(maxRank, s.Rank())
	}
	return canonicalSeverities[maxRank]
}

// Severities lists the canonical labels from highest to lowest rank, plus "unknown".
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityUnknown}
}
