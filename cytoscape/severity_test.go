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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	tests := []struct {
		severity Severity
		expected int
	}{
		{"critical", 4},
		{"CRITICAL", 4},
		{" High ", 3},
		{"medium", 2},
		{"Low", 1},
		{"none", 0},
		{"unknown", 0},
		{"info", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.severity.Rank(), "severity %q", tt.severity)
	}
}

func TestMaxSeverity(t *testing.T) {
	t.Run("should return none for no severities", func(t *testing.T) {
		assert.Equal(t, SeverityNone, MaxSeverity())
	})

	t.Run("should return the canonical label of the highest rank", func(t *testing.T) {
		assert.Equal(t, SeverityCritical, MaxSeverity("low", "Critical", "medium"))
		assert.Equal(t, SeverityHigh, MaxSeverity("HIGH"))
	})

	t.Run("should map unknown severities to none", func(t *testing.T) {
		assert.Equal(t, SeverityNone, MaxSeverity("unknown", "info"))
	})
}

func TestSeverityCanonical(t *testing.T) {
	assert.Equal(t, SeverityMedium, Severity("MEDIUM").Canonical())
	assert.Equal(t, SeverityNone, Severity("unknown").Canonical())
}
