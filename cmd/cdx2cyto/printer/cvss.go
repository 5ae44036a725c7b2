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

package printer

import (
	"log/slog"
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// scoreFromVector computes the base score of a CVSS vector. Vectors without a
// "CVSS:" prefix are parsed as CVSS v2.0.
func scoreFromVector(vector string) (float64, bool) {
	vector = strings.TrimSpace(vector)
	if vector == "" {
		return 0, false
	}

	switch {
	case strings.HasPrefix(vector, "CVSS:3.0"):
		cvss, err := gocvss30.ParseVector(vector)
		if err != nil {
			slog.Debug("could not parse CVSS vector", "vector", vector, "err", err)
			return 0, false
		}
		return cvss.BaseScore(), true
	case strings.HasPrefix(vector, "CVSS:3.1"):
		cvss, err := gocvss31.ParseVector(vector)
		if err != nil {
			slog.Debug("could not parse CVSS vector", "vector", vector, "err", err)
			return 0, false
		}
		return cvss.BaseScore(), true
	case strings.HasPrefix(vector, "CVSS:4.0"):
		cvss, err := gocvss40.ParseVector(vector)
		if err != nil {
			slog.Debug("could not parse CVSS vector", "vector", vector, "err", err)
			return 0, false
		}
		return cvss.Score(), true
	case strings.HasPrefix(vector, "CVSS:"):
		return 0, false
	default:
		cvss, err := gocvss20.ParseVector(vector)
		if err != nil {
			slog.Debug("could not parse CVSS vector", "vector", vector, "err", err)
			return 0, false
		}
		return cvss.BaseScore(), true
	}
}
