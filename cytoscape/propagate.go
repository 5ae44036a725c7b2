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
	"log/slog"
)

// orderedSet keeps insertion order so that propagation is deterministic.
type orderedSet struct {
	items []string
	index map[string]struct{}
}

func (s *orderedSet) add(item string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[item]; ok {
		return
	}
	s.index[item] = struct{}{}
	s.items = append(s.items, item)
}

// PropagateSeverity sets the severity of every component to the highest
// severity of its direct vulnerabilities and carries it up to all components
// depending on it. Afterwards it marks top parents and forces the vulnerability
// class on every edge touching a vulnerability node.
func PropagateSeverity(g *Graph) {
	components := g.indexByKind(NodeKindComponent)
	vulnerabilities := g.indexByKind(NodeKindVulnerability)

	// child -> components depending on it
	parentsByChild := make(map[string]*orderedSet)
	// component -> severities of the vulnerabilities affecting it
	directSeverities := make(map[string][]Severity)
	var affected []string

	for _, edge := range g.Edges() {
		_, sourceIsComponent := components[edge.Source]
		_, targetIsComponent := components[edge.Target]

		if sourceIsComponent && targetIsComponent {
			parents, ok := parentsByChild[edge.Target]
			if !ok {
				parents = &orderedSet{}
				parentsByChild[edge.Target] = parents
			}
			parents.add(edge.Source)
		}

		if vuln, ok := vulnerabilities[edge.Source]; ok && targetIsComponent {
			if _, seen := directSeverities[edge.Target]; !seen {
				affected = append(affected, edge.Target)
			}
			directSeverities[edge.Target] = append(directSeverities[edge.Target], Severity(vuln.Vulnerability.Severity))
		}
	}

	for _, id := range affected {
		data := components[id].Component
		data.Severity = MaxSeverity(append(directSeverities[id], data.Severity)...)
	}

	processed := make(map[string]struct{})
	for _, id := range affected {
		propagateToParents(id, components, parentsByChild, processed)
	}

	markTopParents(components, parentsByChild)
	normalizeVulnerabilityEdgeClasses(g, vulnerabilities)

	slog.Debug("propagated severities", "directlyAffected", len(affected), "raised", len(processed))
}

// propagateToParents walks up from start depth first. A parent is descended
// into only the first time its severity is raised, which bounds the walk on
// cyclic graphs. A parent raised again later through another path keeps its
// new severity but does not push it further up.
func propagateToParents(start string, components map[string]*Node, parentsByChild map[string]*orderedSet, processed map[string]struct{}) {
	type frame struct {
		severity Severity
		parents  []string
		next     int
	}

	newFrame := func(id string) (frame, bool) {
		severity := components[id].Component.Severity
		parents, ok := parentsByChild[id]
		if severity.Rank() == 0 || !ok {
			return frame{}, false
		}
		return frame{severity: severity, parents: parents.items}, true
	}

	first, ok := newFrame(start)
	if !ok {
		return
	}
	stack := []frame{first}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.parents) {
			stack = stack[:len(stack)-1]
			continue
		}
		parentID := top.parents[top.next]
		top.next++

		parent := components[parentID].Component
		old := parent.Severity
		parent.Severity = MaxSeverity(old, top.severity)
		if parent.Severity == old {
			continue
		}
		if _, done := processed[parentID]; done {
			continue
		}
		processed[parentID] = struct{}{}

		if f, ok := newFrame(parentID); ok {
			// top is invalidated by the append, it is re-read next iteration
			stack = append(stack, f)
		}
	}
}

// markTopParents flags components which depend on others but nothing depends on.
func markTopParents(components map[string]*Node, parentsByChild map[string]*orderedSet) {
	sources := make(map[string]struct{})
	for _, parents := range parentsByChild {
		for _, parent := range parents.items {
			sources[parent] = struct{}{}
		}
	}

	for id, node := range components {
		_, isSource := sources[id]
		_, isTarget := parentsByChild[id]
		node.Component.IsTopParent = isSource && !isTarget
	}
}

func normalizeVulnerabilityEdgeClasses(g *Graph, vulnerabilities map[string]*Node) {
	for _, edge := range g.Edges() {
		_, sourceIsVuln := vulnerabilities[edge.Source]
		_, targetIsVuln := vulnerabilities[edge.Target]
		if sourceIsVuln || targetIsVuln {
			edge.Class = ClassVulnerability
		}
	}
}
