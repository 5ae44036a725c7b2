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
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/l3montree-dev/cdx2cyto/converter"
	"github.com/l3montree-dev/cdx2cyto/cytoscape"
	"github.com/l3montree-dev/cdx2cyto/normalize"
	"github.com/l3montree-dev/cdx2cyto/utils"
	"github.com/mattn/go-isatty"
)

var severityColors = map[cytoscape.Severity]text.Colors{
	cytoscape.SeverityCritical: {text.FgHiRed, text.Bold},
	cytoscape.SeverityHigh:     {text.FgRed},
	cytoscape.SeverityMedium:   {text.FgYellow},
	cytoscape.SeverityLow:      {text.FgGreen},
	cytoscape.SeverityUnknown:  {text.FgHiBlack},
}

// Printer renders vulnerability reports to the console.
type Printer struct {
	w      io.Writer
	colors bool
}

// New creates a printer writing to w. Colors are only used if w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{w: w, colors: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) colorize(severity cytoscape.Severity, s string) string {
	if !p.colors {
		return s
	}
	return severityColors[severity].Sprint(s)
}

// PrintVulnerabilityReport prints the summary line and the vulnerability table
// of a VEX or VDR conversion.
func (p *Printer) PrintVulnerabilityReport(result *converter.Result) {
	fmt.Fprintln(p.w, p.summaryLine(result.Summary))
	if len(result.Document.Vulnerabilities) == 0 {
		return
	}
	fmt.Fprintln(p.w, p.vulnerabilityTable(result.Document))
}

func (p *Printer) summaryLine(summary converter.Summary) string {
	parts := make([]string, 0, len(cytoscape.Severities()))
	for _, severity := range cytoscape.Severities() {
		count := summary.Severities[severity]
		if count == 0 {
			continue
		}
		parts = append(parts, p.colorize(severity, fmt.Sprintf("%d %s", count, severity)))
	}

	line := fmt.Sprintf("%s report: %d vulnerabilities", strings.ToUpper(string(summary.Mode)), summary.VulnerabilityNodes)
	if summary.Mode == normalize.ModeVDR {
		line += fmt.Sprintf(", %d affected components", summary.ComponentNodes)
	}
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	return line
}

type vulnerabilityRow struct {
	vuln     normalize.Vulnerability
	severity cytoscape.Severity
}

func (p *Printer) vulnerabilityTable(doc *normalize.Document) string {
	components := make(map[string]normalize.Component, len(doc.Components))
	for _, c := range doc.Components {
		components[c.BOMRef] = c
	}

	rows := make([]vulnerabilityRow, 0, len(doc.Vulnerabilities))
	for _, v := range doc.Vulnerabilities {
		if v.ID == "" {
			continue
		}
		rating, _ := v.FirstRating()
		rows = append(rows, vulnerabilityRow{vuln: v, severity: converter.SeverityBucket(rating.Severity)})
	}

	// highest severity first, document order otherwise
	slices.SortStableFunc(rows, func(a, b vulnerabilityRow) int {
		return b.severity.Rank() - a.severity.Rank()
	})

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Vulnerability", "Severity", "Score", "Method", "Source", "Affected"})
	tw.AppendRows(utils.Map(rows, func(r vulnerabilityRow) table.Row {
		return p.vulnerabilityToTableRow(r, components)
	}))
	return tw.Render()
}

func (p *Printer) vulnerabilityToTableRow(r vulnerabilityRow, components map[string]normalize.Component) table.Row {
	rating, _ := r.vuln.FirstRating()

	score := "-"
	if rating.Score != nil {
		score = fmt.Sprintf("%.1f", *rating.Score)
	} else if s, ok := scoreFromVector(rating.Vector); ok {
		score = fmt.Sprintf("%.1f", s)
	}

	source := ""
	if r.vuln.Source != nil {
		source = utils.FirstNonEmpty(r.vuln.Source.Name, r.vuln.Source.URL)
	}

	affected := make([]string, 0, len(r.vuln.Affects))
	for _, a := range r.vuln.Affects {
		if a.Ref == "" {
			continue
		}
		affected = append(affected, affectedLabel(a.Ref, components))
	}

	return table.Row{
		r.vuln.ID,
		p.colorize(r.severity, string(r.severity)),
		score,
		rating.Method,
		source,
		strings.Join(affected, "\n"),
	}
}

// affectedLabel labels a component reference by the component's package url
// if the component is known and by the reference itself otherwise.
func affectedLabel(ref string, components map[string]normalize.Component) string {
	if c, ok := components[ref]; ok {
		return c.DisplayName()
	}
	return normalize.Component{BOMRef: ref}.DisplayName()
}
