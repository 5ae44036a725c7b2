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
	"log/slog"

	"github.com/l3montree-dev/cdx2cyto/utils"
	"github.com/pkg/errors"
)

// Mode selects which part of the document is converted.
type Mode string

const (
	ModeFull Mode = "full"
	// ModeVEX keeps the vulnerabilities only.
	ModeVEX Mode = "vex"
	// ModeVDR keeps the vulnerabilities and the components they affect.
	ModeVDR Mode = "vdr"
)

// unknownVulnerabilityID groups vulnerabilities without an id during deduplication.
const unknownVulnerabilityID = "Unknown"

var ErrConflictingModes = errors.New("vex-only and vdr-only modes are mutually exclusive")

// ModeFromFlags maps the two CLI switches to a Mode.
func ModeFromFlags(vexOnly, vdrOnly bool) (Mode, error) {
	switch {
	case vexOnly && vdrOnly:
		return "", ErrConflictingModes
	case vexOnly:
		return ModeVEX, nil
	case vdrOnly:
		return ModeVDR, nil
	default:
		return ModeFull, nil
	}
}

// IsVulnerabilityReport reports whether the mode restricts output to vulnerability data.
func (m Mode) IsVulnerabilityReport() bool {
	return m == ModeVEX || m == ModeVDR
}

// Filter reduces the document for the given mode. ModeFull returns the document as is.
// The input document is never modified, dependencies and metadata are shared with the result.
func Filter(doc *Document, mode Mode) *Document {
	if doc == nil || !mode.IsVulnerabilityReport() {
		return doc
	}

	filtered := &Document{
		Metadata:        doc.Metadata,
		Dependencies:    doc.Dependencies,
		Vulnerabilities: DeduplicateVulnerabilities(doc.Vulnerabilities),
		Components:      []Component{},
	}

	if mode == ModeVDR {
		// the affected set is computed on the original list, duplicates may name different components
		affected := AffectedRefs(doc.Vulnerabilities)
		filtered.Components = utils.Filter(doc.Components, func(c Component) bool {
			_, ok := affected[c.BOMRef]
			return ok
		})
	}

	slog.Debug("filtered document", "mode", mode,
		"vulnerabilities", len(filtered.Vulnerabilities), "droppedVulnerabilities", len(doc.Vulnerabilities)-len(filtered.Vulnerabilities),
		"components", len(filtered.Components))
	return filtered
}

// DeduplicateVulnerabilities keeps the first vulnerability per id, in first-seen order.
// Vulnerabilities without id share the key "Unknown".
func DeduplicateVulnerabilities(vulns []Vulnerability) []Vulnerability {
	return utils.UniqBy(vulns, func(v Vulnerability) string {
		if v.ID == "" {
			return unknownVulnerabilityID
		}
		return v.ID
	})
}

// AffectedRefs collects every component reference named by an affects entry.
func AffectedRefs(vulns []Vulnerability) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, v := range vulns {
		for _, a := range v.Affects {
			if a.Ref == "" {
				continue
			}
			refs[a.Ref] = struct{}{}
		}
	}
	return refs
}
