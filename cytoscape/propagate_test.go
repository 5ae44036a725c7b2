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
	"testing"

	"github.com/stretchr/testify/assert"
)

type vulnSpec struct {
	severity string
	affects  []string
}

// graphOf builds a graph from component ids, dependency pairs and
// vulnerabilities added in vulnOrder.
func graphOf(components []string, dependsOn [][2]string, vulns map[string]vulnSpec, vulnOrder []string) *Graph {
	g := NewGraph()
	for _, id := range components {
		g.AddNode(NewComponentNode(id, id, ComponentData{}))
	}
	for _, id := range vulnOrder {
		v := vulns[id]
		g.AddNode(NewVulnerabilityNode(id, id, VulnerabilityData{Severity: v.severity}))
		for _, target := range v.affects {
			g.AddEdge(Edge{ID: AffectsEdgeID(id, target), Source: id, Target: target, Class: ClassVulnerability})
		}
	}
	for _, dep := range dependsOn {
		g.AddEdge(Edge{ID: DependencyEdgeID(dep[0], dep[1]), Source: dep[0], Target: dep[1], Class: ClassComponent})
	}
	return g
}

func severities(g *Graph) map[string]Severity {
	result := make(map[string]Severity)
	for n := range g.NodesOfKind(NodeKindComponent) {
		result[n.ID] = n.Component.Severity
	}
	return result
}

func topParents(g *Graph) []string {
	var result []string
	for n := range g.NodesOfKind(NodeKindComponent) {
		if n.Component.IsTopParent {
			result = append(result, n.ID)
		}
	}
	return result
}

func TestPropagateSeverity(t *testing.T) {
	t.Run("should propagate a high vulnerability to the depending component", func(t *testing.T) {
		g := graphOf(
			[]string{"A", "B"},
			[][2]string{{"A", "B"}},
			map[string]vulnSpec{"V1": {"high", []string{"B"}}},
			[]string{"V1"},
		)

		PropagateSeverity(g)

		assert.Equal(t, map[string]Severity{"A": SeverityHigh, "B": SeverityHigh}, severities(g))
		assert.Equal(t, []string{"A"}, topParents(g))
	})

	t.Run("should use the highest severity of all direct vulnerabilities", func(t *testing.T) {
		g := graphOf(
			[]string{"A"},
			nil,
			map[string]vulnSpec{
				"V1": {"low", []string{"A"}},
				"V2": {"critical", []string{"A"}},
			},
			[]string{"V1", "V2"},
		)

		PropagateSeverity(g)

		assert.Equal(t, SeverityCritical, g.Node("A").Component.Severity)
	})

	t.Run("should propagate through a chain and only mark the root as top parent", func(t *testing.T) {
		g := graphOf(
			[]string{"A", "B", "C"},
			[][2]string{{"A", "B"}, {"B", "C"}},
			map[string]vulnSpec{"V1": {"medium", []string{"C"}}},
			[]string{"V1"},
		)

		PropagateSeverity(g)

		assert.Equal(t, map[string]Severity{"A": SeverityMedium, "B": SeverityMedium, "C": SeverityMedium}, severities(g))
		assert.Equal(t, []string{"A"}, topParents(g))
	})

	t.Run("should compare severities case-insensitively and store the canonical label", func(t *testing.T) {
		g := graphOf(
			[]string{"A", "B"},
			[][2]string{{"A", "B"}},
			map[string]vulnSpec{"V1": {"HIGH", []string{"B"}}},
			[]string{"V1"},
		)

		PropagateSeverity(g)

		assert.Equal(t, SeverityHigh, g.Node("B").Component.Severity)
		assert.Equal(t, SeverityHigh, g.Node("A").Component.Severity)
		// the vulnerability node keeps its label
		assert.Equal(t, "HIGH", g.Node("V1").Vulnerability.Severity)
	})

	t.Run("should leave components with only unknown vulnerabilities at none", func(t *testing.T) {
		g := graphOf(
			[]string{"A", "B"},
			[][2]string{{"A", "B"}},
			map[string]vulnSpec{"V1": {"unknown", []string{"B"}}},
			[]string{"V1"},
		)

		PropagateSeverity(g)

		assert.Equal(t, map[string]Severity{"A": SeverityNone, "B": SeverityNone}, severities(g))
	})

	t.Run("should never lower a severity while propagating", func(t *testing.T) {
		g := graphOf(
			[]string{"A", "B", "C"},
			[][2]string{{"A", "B"}, {"A", "C"}},
			map[string]vulnSpec{
				"V1": {"critical", []string{"A"}},
				"V2": {"low", []string{"C"}},
				"V3": {"medium", []string{"B"}},
			},
			[]string{"V1", "V2", "V3"},
		)

		PropagateSeverity(g)

		assert.Equal(t, map[string]Severity{"A": SeverityCritical, "B": SeverityMedium, "C": SeverityLow}, severities(g))
	})

	t.Run("should be idempotent on a chain", func(t *testing.T) {
		g := graphOf(
			[]string{"A", "B", "C"},
			[][2]string{{"A", "B"}, {"B", "C"}},
			map[string]vulnSpec{
				"V1": {"low", []string{"B"}},
				"V2": {"high", []string{"C"}},
			},
			[]string{"V1", "V2"},
		)

		PropagateSeverity(g)
		first := severities(g)
		firstTop := topParents(g)

		PropagateSeverity(g)
		assert.Equal(t, first, severities(g))
		assert.Equal(t, firstTop, topParents(g))
		assert.Equal(t, map[string]Severity{"A": SeverityHigh, "B": SeverityHigh, "C": SeverityHigh}, first)
	})

	t.Run("should terminate on cyclic dependencies", func(t *testing.T) {
		g := graphOf(
			[]string{"A", "B", "C"},
			[][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			map[string]vulnSpec{"V1": {"critical", []string{"C"}}},
			[]string{"V1"},
		)

		PropagateSeverity(g)

		assert.Equal(t, map[string]Severity{"A": SeverityCritical, "B": SeverityCritical, "C": SeverityCritical}, severities(g))
		// every component of the cycle is a target, none is a top parent
		assert.Empty(t, topParents(g))
	})

	t.Run("should not push a second increase further up once a node was processed", func(t *testing.T) {
		// R depends on P, P depends on X and Y.
		// X (low) is processed first: P and R become low and are marked processed.
		// Y (critical) raises P to critical, but P is not descended into again,
		// so R stays at low.
		g := graphOf(
			[]string{"R", "P", "X", "Y"},
			[][2]string{{"R", "P"}, {"P", "X"}, {"P", "Y"}},
			map[string]vulnSpec{
				"V1": {"low", []string{"X"}},
				"V2": {"critical", []string{"Y"}},
			},
			[]string{"V1", "V2"},
		)

		PropagateSeverity(g)

		assert.Equal(t, SeverityLow, g.Node("X").Component.Severity)
		assert.Equal(t, SeverityCritical, g.Node("Y").Component.Severity)
		assert.Equal(t, SeverityCritical, g.Node("P").Component.Severity)
		assert.Equal(t, SeverityLow, g.Node("R").Component.Severity)
	})

	t.Run("should not mark isolated components as top parents", func(t *testing.T) {
		g := graphOf([]string{"A", "B"}, nil, nil, nil)

		PropagateSeverity(g)

		assert.Empty(t, topParents(g))
		assert.Equal(t, map[string]Severity{"A": SeverityNone, "B": SeverityNone}, severities(g))
	})

	t.Run("should ignore edges to unknown nodes", func(t *testing.T) {
		g := graphOf(
			[]string{"A"},
			[][2]string{{"A", "missing"}},
			map[string]vulnSpec{"V1": {"high", []string{"missing"}}},
			[]string{"V1"},
		)

		PropagateSeverity(g)

		assert.Equal(t, SeverityNone, g.Node("A").Component.Severity)
		assert.Empty(t, topParents(g))
	})

	t.Run("should force the vulnerability class on every edge touching a vulnerability", func(t *testing.T) {
		g := graphOf([]string{"A"}, nil, map[string]vulnSpec{"V1": {"low", nil}}, []string{"V1"})
		g.AddEdge(Edge{ID: "V1-affects-A", Source: "V1", Target: "A", Class: ClassComponent})
		g.AddEdge(Edge{ID: "A->V1", Source: "A", Target: "V1", Class: ClassLicense})
		g.AddEdge(Edge{ID: "A->A", Source: "A", Target: "A", Class: ClassComponent})

		PropagateSeverity(g)

		classes := make(map[string]string)
		for _, e := range g.Edges() {
			classes[e.ID] = e.Class
		}
		assert.Equal(t, map[string]string{
			"V1-affects-A": ClassVulnerability,
			"A->V1":        ClassVulnerability,
			"A->A":         ClassComponent,
		}, classes)
	})
}
