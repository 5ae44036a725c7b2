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
	"github.com/stretchr/testify/require"
)

func TestGraph(t *testing.T) {
	t.Run("should keep the first node for a duplicate id", func(t *testing.T) {
		g := NewGraph()
		assert.True(t, g.AddNode(NewComponentNode("a", "first", ComponentData{})))
		assert.False(t, g.AddNode(NewLicenseNode("a", "second", LicenseData{})))

		require.Len(t, g.Nodes(), 1)
		assert.Equal(t, "first", g.Node("a").Label)
		assert.Equal(t, NodeKindComponent, g.Node("a").Kind)
	})

	t.Run("should keep the first edge for a duplicate id", func(t *testing.T) {
		g := NewGraph()
		assert.True(t, g.AddEdge(Edge{ID: "a->b", Source: "a", Target: "b"}))
		assert.False(t, g.AddEdge(Edge{ID: "a->b", Source: "x", Target: "y"}))

		require.Len(t, g.Edges(), 1)
		assert.Equal(t, "a", g.Edges()[0].Source)
	})

	t.Run("should allow edges to nodes which do not exist", func(t *testing.T) {
		g := NewGraph()
		assert.True(t, g.AddEdge(Edge{ID: "a->b", Source: "a", Target: "b"}))
		assert.Nil(t, g.Node("a"))
	})

	t.Run("should default the component severity to none", func(t *testing.T) {
		n := NewComponentNode("a", "a", ComponentData{})
		assert.Equal(t, SeverityNone, n.Component.Severity)
	})

	t.Run("should iterate and count nodes by kind in insertion order", func(t *testing.T) {
		g := NewGraph()
		g.AddNode(NewComponentNode("b", "b", ComponentData{}))
		g.AddNode(NewVulnerabilityNode("V1", "V1", VulnerabilityData{}))
		g.AddNode(NewComponentNode("a", "a", ComponentData{}))

		var ids []string
		for n := range g.NodesOfKind(NodeKindComponent) {
			ids = append(ids, n.ID)
		}
		assert.Equal(t, []string{"b", "a"}, ids)
		assert.Equal(t, map[NodeKind]int{NodeKindComponent: 2, NodeKindVulnerability: 1}, g.CountByKind())
	})
}
