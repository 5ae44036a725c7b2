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
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/pkg/errors"
)

// InputFormat is the serialization of the input document.
type InputFormat string

const (
	InputFormatAuto InputFormat = "auto"
	InputFormatJSON InputFormat = "json"
	InputFormatXML  InputFormat = "xml"
)

func ParseInputFormat(s string) (InputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return InputFormatAuto, nil
	case "json":
		return InputFormatJSON, nil
	case "xml":
		return InputFormatXML, nil
	default:
		return "", fmt.Errorf("unsupported input format: %s", s)
	}
}

// Resolve replaces InputFormatAuto by the format matching the file extension.
// Anything but .xml is read as JSON.
func (f InputFormat) Resolve(path string) InputFormat {
	if f != InputFormatAuto && f != "" {
		return f
	}
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return InputFormatXML
	}
	return InputFormatJSON
}

// Decode reads a document in the given format. InputFormatAuto is treated as JSON,
// callers knowing the file name should Resolve first.
func Decode(r io.Reader, format InputFormat) (*Document, error) {
	switch format {
	case InputFormatXML:
		var bom cdx.BOM
		if err := cdx.NewBOMDecoder(r, cdx.BOMFileFormatXML).Decode(&bom); err != nil {
			return nil, errors.Wrap(err, "could not decode CycloneDX XML document")
		}
		return FromCycloneDX(&bom), nil
	default:
		var doc *Document
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "could not decode CycloneDX JSON document")
		}
		if doc == nil {
			return nil, errors.New("could not parse input as CycloneDX document")
		}
		return doc, nil
	}
}
