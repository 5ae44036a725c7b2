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

// Package cytoscape builds Cytoscape.js element graphs from SBOM documents.
package cytoscape

import (
	"iter"
	"log/slog"
)

// =============================================================================
// NODE TYPES
// =============================================================================

// NodeKind discriminates the node variants. Exactly one of the variant
// payloads of a Node is set, matching its kind. Parent nodes carry none.
type NodeKind string

const (
	NodeKindComponent     NodeKind = "component"
	NodeKindVulnerability NodeKind = "vulnerability"
	NodeKindLicense       NodeKind = "license"
	NodeKindParent        NodeKind = "parent"
)

// Style classes used by the Cytoscape stylesheet.
const (
	ClassComponent     = "component"
	ClassVulnerability = "vulnerability"
	ClassLicense       = "license"
)

type ComponentData struct {
	Type        string
	Version     string
	Group       string
	Severity    Severity
	IsTopParent bool
	// Parent is the id of the compound node grouping this component, if any.
	Parent string
}

type VulnerabilityData struct {
	Score      *float64
	Severity   string
	SourceName string
	SourceURL  string
	Method     string
	Vector     string
}

type LicenseData struct {
	URL string
}

// =============================================================================
// GRAPH NODE AND EDGE
// =============================================================================

type Node struct {
	Kind  NodeKind
	ID    string
	Label string
	Class string

	Component     *ComponentData
	Vulnerability *VulnerabilityData
	License       *LicenseData
}

func NewComponentNode(id, label string, data ComponentData) Node {
	if data.Severity == "" {
		data.Severity = SeverityNone
	}
	return Node{Kind: NodeKindComponent, ID: id, Label: label, Class: ClassComponent, Component: &data}
}

func NewVulnerabilityNode(id, label string, data VulnerabilityData) Node {
	return Node{Kind: NodeKindVulnerability, ID: id, Label: label, Class: ClassVulnerability, Vulnerability: &data}
}

func NewLicenseNode(id, label string, data LicenseData) Node {
	return Node{Kind: NodeKindLicense, ID: id, Label: label, Class: ClassLicense, License: &data}
}

// NewParentNode creates a compound node. Parent nodes have no style class.
func NewParentNode(id, label string) Node {
	return Node{Kind: NodeKindParent, ID: id, Label: label}
}

type Edge struct {
	ID     string
	Source string
	Target string
	Class  string
}

// =============================================================================
// GRAPH
// =============================================================================

// Graph owns the ordered node and edge lists. Relationships are expressed by
// ids only, endpoints of edges are not required to exist as nodes.
type Graph struct {
	nodes []*Node
	edges []*Edge

	nodeIndex map[string]*Node
	edgeIDs   map[string]struct{}
}

func NewGraph() *Graph {
	return &Graph{
		nodes:     []*Node{},
		edges:     []*Edge{},
		nodeIndex: make(map[string]*Node),
		edgeIDs:   make(map[string]struct{}),
	}
}

// AddNode appends the node unless a node with the same id exists already.
// It reports whether the node was added.
func (g *Graph) AddNode(n Node) bool {
	if _, exists := g.nodeIndex[n.ID]; exists {
		slog.Debug("skipping node with duplicate id", "id", n.ID, "kind", n.Kind)
		return false
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.nodeIndex[n.ID] = node
	return true
}

// AddEdge appends the edge unless an edge with the same id exists already.
func (g *Graph) AddEdge(e Edge) bool {
	if _, exists := g.edgeIDs[e.ID]; exists {
		slog.Debug("skipping edge with duplicate id", "id", e.ID)
		return false
	}
	g.edges = append(g.edges, &e)
	g.edgeIDs[e.ID] = struct{}{}
	return true
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodeIndex[id]
}

// Nodes returns the nodes in insertion order. Mutating a node mutates the graph.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns the edges in insertion order. Mutating an edge mutates the graph.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodesOfKind iterates over all nodes of a kind in insertion order.
func (g *Graph) NodesOfKind(kind NodeKind) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range g.nodes {
			if n.Kind != kind {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// indexByKind builds an id lookup for all nodes of a kind.
func (g *Graph) indexByKind(kind NodeKind) map[string]*Node {
	index := make(map[string]*Node)
	for n := range g.NodesOfKind(kind) {
		index[n.ID] = n
	}
	return index
}

// CountByKind returns the number of nodes per kind.
func (g *Graph) CountByKind() map[NodeKind]int {
	counts := make(map[NodeKind]int)
	for _, n := range g.nodes {
		counts[n.Kind]++
	}
	return counts
}
