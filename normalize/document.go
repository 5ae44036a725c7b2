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

// Package normalize reads CycloneDX documents into the reduced document model
// the converter works on and applies the VEX/VDR filters to it.
package normalize

// Document is the subset of a CycloneDX BOM the converter consumes.
// Every field is optional, missing values are treated as empty.
type Document struct {
	Metadata        *Metadata       `json:"metadata,omitempty"`
	Components      []Component     `json:"components,omitempty"`
	Dependencies    []Dependency    `json:"dependencies,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
}

type Metadata struct {
	Component *Component `json:"component,omitempty"`
}

type Component struct {
	BOMRef      string          `json:"bom-ref,omitempty"`
	Name        string          `json:"name,omitempty"`
	Version     string          `json:"version,omitempty"`
	Type        string          `json:"type,omitempty"`
	Group       string          `json:"group,omitempty"`
	Description string          `json:"description,omitempty"`
	PackageURL  string          `json:"purl,omitempty"`
	Licenses    []LicenseChoice `json:"licenses,omitempty"`
}

type LicenseChoice struct {
	License *License `json:"license,omitempty"`
}

type License struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Dependency mirrors a CycloneDX dependency entry. Dependencies holds nested
// entries some generators emit for transitive declarations.
type Dependency struct {
	Ref          string       `json:"ref,omitempty"`
	DependsOn    []string     `json:"dependsOn,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

type Vulnerability struct {
	ID          string   `json:"id,omitempty"`
	Source      *Source  `json:"source,omitempty"`
	Ratings     []Rating `json:"ratings,omitempty"`
	Description string   `json:"description,omitempty"`
	Affects     []Affect `json:"affects,omitempty"`
}

type Source struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Rating keeps severity as free text, it is compared case-insensitively later on.
type Rating struct {
	Score    *float64 `json:"score,omitempty"`
	Severity string   `json:"severity,omitempty"`
	Method   string   `json:"method,omitempty"`
	Vector   string   `json:"vector,omitempty"`
}

type Affect struct {
	Ref string `json:"ref,omitempty"`
}

// RootComponent returns the metadata component or nil.
func (d *Document) RootComponent() *Component {
	if d == nil || d.Metadata == nil {
		return nil
	}
	return d.Metadata.Component
}

// LicenseIDs returns the identifiers of all licenses of the component which
// carry one. Name-only licenses are skipped.
func (c Component) LicenseIDs() []string {
	ids := make([]string, 0, len(c.Licenses))
	for _, choice := range c.Licenses {
		if choice.License == nil || choice.License.ID == "" {
			continue
		}
		ids = append(ids, choice.License.ID)
	}
	return ids
}

// FirstRating returns the first rating in document order. The converter does
// not pick the highest one.
func (v Vulnerability) FirstRating() (Rating, bool) {
	if len(v.Ratings) == 0 {
		return Rating{}, false
	}
	return v.Ratings[0], true
}
