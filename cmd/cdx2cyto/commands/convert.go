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

package commands

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/l3montree-dev/cdx2cyto/cmd/cdx2cyto/config"
	"github.com/l3montree-dev/cdx2cyto/cmd/cdx2cyto/printer"
	"github.com/l3montree-dev/cdx2cyto/converter"
	"github.com/l3montree-dev/cdx2cyto/normalize"
	"github.com/pkg/errors"
)

func readDocument(cfg config.RuntimeConfig) (*normalize.Document, error) {
	format, err := cfg.InputFormat()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(cfg.Input)
	if err != nil {
		return nil, errors.Wrap(err, "could not open input file")
	}
	defer file.Close()

	doc, err := normalize.Decode(file, format)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s as CycloneDX SBOM", cfg.Input)
	}
	return doc, nil
}

func runConvert(out io.Writer, cfg config.RuntimeConfig) error {
	doc, err := readDocument(cfg)
	if err != nil {
		return err
	}

	opts := cfg.ConverterOptions()
	result, err := converter.Convert(doc, opts)
	if err != nil {
		return err
	}

	mode := result.Summary.Mode
	if mode.IsVulnerabilityReport() {
		printer.New(out).PrintVulnerabilityReport(result)
	}

	// encode fully before touching the output file
	var buf bytes.Buffer
	if err := result.Graph.Encode(&buf); err != nil {
		return errors.Wrap(err, "could not encode graph")
	}
	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil { // nolint:gosec
		return errors.Wrap(err, "could not write output file")
	}

	resolved := opts.BuildOptions(mode)
	fmt.Fprintf(out, "Successfully converted %s to %s\n", cfg.Input, cfg.Output)
	fmt.Fprintf(out, "Options: Vulnerabilities=%t, Licenses=%t, ShowGroupsInNodeLabels=%t, Mode=%s\n",
		resolved.IncludeVulnerabilities, resolved.IncludeLicenses, resolved.ShowGroupsInNodeLabels, mode)

	slog.Info("conversion finished",
		"mode", mode,
		"nodes", result.Summary.Nodes,
		"edges", result.Summary.Edges,
		"components", result.Summary.ComponentNodes,
		"vulnerabilities", result.Summary.VulnerabilityNodes,
		"licenses", result.Summary.LicenseNodes,
	)
	return nil
}
