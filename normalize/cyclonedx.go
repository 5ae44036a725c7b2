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
	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/l3montree-dev/cdx2cyto/utils"
)

// FromCycloneDX maps a cyclonedx-go BOM onto the converter's document model.
// CycloneDX dependencies are flat, so the result never contains nested entries.
func FromCycloneDX(bom *cdx.BOM) *Document {
	doc := &Document{}
	if bom == nil {
		return doc
	}

	if bom.Metadata != nil && bom.Metadata.Component != nil {
		root := componentFromCycloneDX(*bom.Metadata.Component)
		doc.Metadata = &Metadata{Component: &root}
	}

	if bom.Components != nil {
		doc.Components = utils.Map(*bom.Components, componentFromCycloneDX)
	}

	if bom.Dependencies != nil {
		doc.Dependencies = utils.Map(*bom.Dependencies, func(d cdx.Dependency) Dependency {
			dep := Dependency{Ref: d.Ref}
			if d.Dependencies != nil {
				dep.DependsOn = append([]string{}, *d.Dependencies...)
			}
			return dep
		})
	}

	if bom.Vulnerabilities != nil {
		doc.Vulnerabilities = utils.Map(*bom.Vulnerabilities, vulnerabilityFromCycloneDX)
	}

	return doc
}

func componentFromCycloneDX(c cdx.Component) Component {
	component := Component{
		BOMRef:      c.BOMRef,
		Name:        c.Name,
		Version:     c.Version,
		Type:        string(c.Type),
		Group:       c.Group,
		Description: c.Description,
		PackageURL:  c.PackageURL,
	}

	if c.Licenses != nil {
		for _, choice := range *c.Licenses {
			if choice.License == nil {
				// expressions have no license node representation
				continue
			}
			component.Licenses = append(component.Licenses, LicenseChoice{
				License: &License{
					ID:   choice.License.ID,
					Name: choice.License.Name,
					URL:  choice.License.URL,
				},
			})
		}
	}
	return component
}

func vulnerabilityFromCycloneDX(v cdx.Vulnerability) Vulnerability {
	vuln := Vulnerability{
		ID:          v.ID,
		Description: v.Description,
	}

	if v.Source != nil {
		vuln.Source = &Source{Name: v.Source.Name, URL: v.Source.URL}
	}

	if v.Ratings != nil {
		vuln.Ratings = utils.Map(*v.Ratings, func(r cdx.VulnerabilityRating) Rating {
			return Rating{
				Score:    r.Score,
				Severity: string(r.Severity),
				Method:   string(r.Method),
				Vector:   r.Vector,
			}
		})
	}

	if v.Affects != nil {
		vuln.Affects = utils.Map(*v.Affects, func(a cdx.Affects) Affect {
			return Affect{Ref: a.Ref}
		})
	}
	return vuln
}
