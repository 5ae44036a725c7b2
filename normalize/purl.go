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
	"github.com/package-url/packageurl-go"
)

// PurlLabel renders a package url as pkg:type/namespace/name@version, without
// qualifiers and subpath and with the namespace unescaped.
func PurlLabel(pURL string) (string, error) {
	p, err := packageurl.FromString(pURL)
	if err != nil {
		return pURL, err
	}

	label := "pkg:" + p.Type + "/"
	//if the namespace is empty we don't want any leading slashes
	if p.Namespace != "" {
		label += p.Namespace + "/"
	}
	label += p.Name
	if p.Version != "" {
		label += "@" + p.Version
	}
	return label, nil
}

// DisplayName labels the component by its package url, falling back to the
// bom-ref if the ref is a package url itself and to the raw bom-ref otherwise.
func (c Component) DisplayName() string {
	for _, candidate := range []string{c.PackageURL, c.BOMRef} {
		if candidate == "" {
			continue
		}
		if label, err := PurlLabel(candidate); err == nil {
			return label
		}
	}
	return c.BOMRef
}
