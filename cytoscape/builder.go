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

package cytoscape

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/l3montree-dev/cdx2cyto/normalize"
	"github.com/l3montree-dev/cdx2cyto/utils"
)

// Options configure a single Build call. The zero value converts components
// and dependencies only.
type Options struct {
	IncludeVulnerabilities bool
	IncludeLicenses        bool
	ShowGroupsInNodeLabels bool
	// GroupParents adds one compound node per component group.
	GroupParents bool
	// OmitRootComponent skips the metadata component.
	OmitRootComponent bool
}

const (
	licenseNodePrefix = "license-"
	groupNodePrefix   = "group-"
)

func LicenseNodeID(licenseID string) string {
	return licenseNodePrefix + licenseID
}

func LicenseEdgeID(licenseID, componentRef string) string {
	return fmt.Sprintf("license-%s-applies-to-%s", licenseID, componentRef)
}

func AffectsEdgeID(vulnID, componentRef string) string {
	return fmt.Sprintf("%s-affects-%s", vulnID, componentRef)
}

func DependencyEdgeID(sourceRef, targetRef string) string {
	return fmt.Sprintf("%s->%s", sourceRef, targetRef)
}

func GroupNodeID(group string) string {
	return groupNodePrefix + group
}

// Build converts the document into a graph. Malformed elements are skipped,
// Build never fails. Severity propagation runs when vulnerabilities are included.
func Build(doc *normalize.Document, opts Options) *Graph {
	g := NewGraph()
	if doc == nil {
		return g
	}

	if root := doc.RootComponent(); root != nil && !opts.OmitRootComponent {
		addComponentNode(g, *root, opts)
	}

	for _, component := range doc.Components {
		addComponentNode(g, component, opts)
	}

	if opts.GroupParents {
		addGroupNodes(g)
	}

	if opts.IncludeLicenses {
		addLicenses(g, doc.Components)
	}

	if opts.IncludeVulnerabilities {
		for _, vuln := range doc.Vulnerabilities {
			addVulnerabilityNode(g, vuln)
		}
		for _, vuln := range doc.Vulnerabilities {
			addAffectsEdges(g, vuln)
		}
	}

	addDependencyEdges(g, doc.Dependencies)

	if opts.IncludeVulnerabilities {
		PropagateSeverity(g)
	}

	return g
}

// FormatNodeLabel joins group (if enabled), name and version with "/",
// leaving out empty parts.
func FormatNodeLabel(c normalize.Component, showGroups bool) string {
	parts := make([]string, 0, 3)
	if showGroups && c.Group != "" {
		parts = append(parts, c.Group)
	}
	if c.Name != "" {
		parts = append(parts, c.Name)
	}
	if c.Version != "" {
		parts = append(parts, c.Version)
	}
	return strings.Join(parts, "/")
}

func addComponentNode(g *Graph, c normalize.Component, opts Options) {
	if c.BOMRef == "" {
		slog.Debug("skipping component without bom-ref", "name", c.Name, "version", c.Version)
		return
	}

	data := ComponentData{
		Type:    c.Type,
		Version: c.Version,
		Group:   c.Group,
	}
	if opts.GroupParents && c.Group != "" {
		data.Parent = GroupNodeID(c.Group)
	}
	g.AddNode(NewComponentNode(c.BOMRef, FormatNodeLabel(c, opts.ShowGroupsInNodeLabels), data))
}

func addGroupNodes(g *Graph) {
	var groups []string
	for n := range g.NodesOfKind(NodeKindComponent) {
		if n.Component.Parent == "" || slices.Contains(groups, n.Component.Group) {
			continue
		}
		groups = append(groups, n.Component.Group)
	}
	for _, group := range groups {
		g.AddNode(NewParentNode(GroupNodeID(group), group))
	}
}

func addLicenses(g *Graph, components []normalize.Component) {
	// distinct license ids in first-seen order, together with the first url seen for each
	var licenseIDs []string
	urls := make(map[string]string)
	for _, c := range components {
		for _, choice := range c.Licenses {
			if choice.License == nil || choice.License.ID == "" {
				continue
			}
			id := choice.License.ID
			if _, seen := urls[id]; !seen {
				licenseIDs = append(licenseIDs, id)
			}
			urls[id] = utils.FirstNonEmpty(urls[id], choice.License.URL)
		}
	}

	for _, id := range licenseIDs {
		g.AddNode(NewLicenseNode(LicenseNodeID(id), id, LicenseData{URL: urls[id]}))
	}

	for _, c := range components {
		if c.BOMRef == "" {
			continue
		}
		for _, id := range c.LicenseIDs() {
			g.AddEdge(Edge{
				ID:     LicenseEdgeID(id, c.BOMRef),
				Source: LicenseNodeID(id),
				Target: c.BOMRef,
				Class:  ClassLicense,
			})
		}
	}
}

func addVulnerabilityNode(g *Graph, v normalize.Vulnerability) {
	if v.ID == "" {
		slog.Debug("skipping vulnerability without id")
		return
	}

	data := VulnerabilityData{Severity: string(SeverityUnknown)}
	if rating, ok := v.FirstRating(); ok {
		data.Score = rating.Score
		data.Severity = utils.FirstNonEmpty(rating.Severity, string(SeverityUnknown))
		data.Method = rating.Method
		data.Vector = rating.Vector
	}
	if v.Source != nil {
		data.SourceName = v.Source.Name
		data.SourceURL = v.Source.URL
	}

	g.AddNode(NewVulnerabilityNode(v.ID, v.ID, data))
}

func addAffectsEdges(g *Graph, v normalize.Vulnerability) {
	if v.ID == "" {
		return
	}
	for _, affect := range v.Affects {
		if affect.Ref == "" {
			continue
		}
		g.AddEdge(Edge{
			ID:     AffectsEdgeID(v.ID, affect.Ref),
			Source: v.ID,
			Target: affect.Ref,
			Class:  ClassVulnerability,
		})
	}
}

// addDependencyEdges walks the (possibly nested) dependency entries depth first
// in document order, using an explicit stack instead of recursion.
func addDependencyEdges(g *Graph, dependencies []normalize.Dependency) {
	stack := make([]*normalize.Dependency, 0, len(dependencies))
	pushReversed := func(deps []normalize.Dependency) {
		for i := len(deps) - 1; i >= 0; i-- {
			stack = append(stack, &deps[i])
		}
	}
	pushReversed(dependencies)

	for len(stack) > 0 {
		dep := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if dep.Ref == "" {
			slog.Debug("skipping dependency entry without ref", "dependsOn", len(dep.DependsOn))
		} else {
			for _, target := range dep.DependsOn {
				g.AddEdge(Edge{
					ID:     DependencyEdgeID(dep.Ref, target),
					Source: dep.Ref,
					Target: target,
					Class:  ClassComponent,
				})
			}
		}

		// nested entries are visited even if this entry declared nothing itself
		pushReversed(dep.Dependencies)
	}
}
