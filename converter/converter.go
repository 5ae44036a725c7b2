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

// Package converter runs the conversion pipeline: filter, build, propagate.
package converter

import (
	"github.com/l3montree-dev/cdx2cyto/cytoscape"
	"github.com/l3montree-dev/cdx2cyto/normalize"
	"github.com/pkg/errors"
)

type Options struct {
	IncludeVulnerabilities bool
	IncludeLicenses        bool
	ShowGroupsInNodeLabels bool
	GroupParents           bool

	VexOnly bool
	VdrOnly bool
}

// Summary describes a finished conversion.
type Summary struct {
	Mode               normalize.Mode
	Nodes              int
	Edges              int
	ComponentNodes     int
	VulnerabilityNodes int
	LicenseNodes       int
	// vulnerability nodes per severity, unrecognized severities count as unknown
	Severities map[cytoscape.Severity]int
}

type Result struct {
	Graph *cytoscape.Graph
	// Document is the document after filtering.
	Document *normalize.Document
	Summary  Summary
}

// Mode resolves the VEX/VDR switches.
func (o Options) Mode() (normalize.Mode, error) {
	return normalize.ModeFromFlags(o.VexOnly, o.VdrOnly)
}

// BuildOptions derives the graph builder options for a mode. Vulnerability
// reports always include vulnerabilities and never render the metadata component.
func (o Options) BuildOptions(mode normalize.Mode) cytoscape.Options {
	return cytoscape.Options{
		IncludeVulnerabilities: o.IncludeVulnerabilities || mode.IsVulnerabilityReport(),
		IncludeLicenses:        o.IncludeLicenses,
		ShowGroupsInNodeLabels: o.ShowGroupsInNodeLabels,
		GroupParents:           o.GroupParents,
		OmitRootComponent:      mode.IsVulnerabilityReport(),
	}
}

// Convert turns a parsed document into a Cytoscape graph.
func Convert(doc *normalize.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New("no document to convert")
	}

	mode, err := opts.Mode()
	if err != nil {
		return nil, err
	}

	filtered := normalize.Filter(doc, mode)
	graph := cytoscape.Build(filtered, opts.BuildOptions(mode))

	return &Result{
		Graph:    graph,
		Document: filtered,
		Summary:  summarize(graph, mode),
	}, nil
}

func summarize(g *cytoscape.Graph, mode normalize.Mode) Summary {
	counts := g.CountByKind()
	summary := Summary{
		Mode:               mode,
		Nodes:              len(g.Nodes()),
		Edges:              len(g.Edges()),
		ComponentNodes:     counts[cytoscape.NodeKindComponent],
		VulnerabilityNodes: counts[cytoscape.NodeKindVulnerability],
		LicenseNodes:       counts[cytoscape.NodeKindLicense],
		Severities:         make(map[cytoscape.Severity]int),
	}

	for n := range g.NodesOfKind(cytoscape.NodeKindVulnerability) {
		summary.Severities[SeverityBucket(n.Vulnerability.Severity)]++
	}
	return summary
}

// SeverityBucket maps a free-text vulnerability severity to the label it is
// reported under. Everything below "low" is reported as unknown.
func SeverityBucket(severity string) cytoscape.Severity {
	s := cytoscape.Severity(severity)
	if s.Rank() == 0 {
		return cytoscape.SeverityUnknown
	}
	return s.Canonical()
}
