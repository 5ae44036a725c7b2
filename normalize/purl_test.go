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

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurlLabel(t *testing.T) {
	tests := []struct {
		name     string
		purl     string
		expected string
		wantErr  bool
	}{
		{"should drop qualifiers", "pkg:maven/org.apache.logging.log4j/log4j-core@2.14.1?type=jar", "pkg:maven/org.apache.logging.log4j/log4j-core@2.14.1", false},
		{"should unescape the namespace", "pkg:npm/%40angular/core@16.0.0", "pkg:npm/@angular/core@16.0.0", false},
		{"should not add a slash without namespace", "pkg:pypi/requests@2.31.0", "pkg:pypi/requests@2.31.0", false},
		{"should leave out a missing version", "pkg:golang/github.com/pkg/errors", "pkg:golang/github.com/pkg/errors", false},
		{"should return invalid purls unchanged", "comp-1", "comp-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := PurlLabel(tt.purl)
			assert.Equal(t, tt.expected, label)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComponentDisplayName(t *testing.T) {
	t.Run("should prefer the package url", func(t *testing.T) {
		c := Component{BOMRef: "comp-1", PackageURL: "pkg:cargo/serde@1.0.0"}
		assert.Equal(t, "pkg:cargo/serde@1.0.0", c.DisplayName())
	})

	t.Run("should use a bom-ref which is a package url", func(t *testing.T) {
		c := Component{BOMRef: "pkg:npm/lodash@4.17.21?foo=bar"}
		assert.Equal(t, "pkg:npm/lodash@4.17.21", c.DisplayName())
	})

	t.Run("should fall back to the bom-ref", func(t *testing.T) {
		c := Component{BOMRef: "comp-2", PackageURL: "not a purl"}
		assert.Equal(t, "comp-2", c.DisplayName())
	})
}
