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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type elementsDocument struct {
	Elements elements `json:"elements"`
}

// nodes are declared before edges, Cytoscape resolves edge endpoints in order
type elements struct {
	Nodes []element `json:"nodes"`
	Edges []element `json:"edges"`
}

type element struct {
	Data any `json:"data"`
}

type componentNodeJSON struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Class     string `json:"class"`
	Type      string `json:"type"`
	Version   string `json:"version"`
	Group     string `json:"group"`
	Severity  string `json:"severity"`
	TopParent bool   `json:"topParent"`
	Parent    string `json:"parent,omitempty"`
}

type vulnerabilityNodeJSON struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Class      string   `json:"class"`
	Score      *float64 `json:"score"`
	Severity   string   `json:"severity"`
	URL        string   `json:"url"`
	SourceName string   `json:"sourceName"`
	Method     string   `json:"method"`
	Vector     string   `json:"vector"`
}

type licenseNodeJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Class string `json:"class"`
	URL   string `json:"url"`
}

type parentNodeJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Class string `json:"class,omitempty"`
}

type edgeJSON struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Class  string `json:"class"`
}

func nodeData(n *Node) (any, error) {
	switch n.Kind {
	case NodeKindComponent:
		c := n.Component
		if c == nil {
			c = &ComponentData{Severity: SeverityNone}
		}
		return componentNodeJSON{
			ID:        n.ID,
			Label:     n.Label,
			Class:     n.Class,
			Type:      c.Type,
			Version:   c.Version,
			Group:     c.Group,
			Severity:  string(c.Severity),
			TopParent: c.IsTopParent,
			Parent:    c.Parent,
		}, nil
	case NodeKindVulnerability:
		v := n.Vulnerability
		if v == nil {
			v = &VulnerabilityData{Severity: string(SeverityUnknown)}
		}
		return vulnerabilityNodeJSON{
			ID:         n.ID,
			Label:      n.Label,
			Class:      n.Class,
			Score:      v.Score,
			Severity:   v.Severity,
			URL:        v.SourceURL,
			SourceName: v.SourceName,
			Method:     v.Method,
			Vector:     v.Vector,
		}, nil
	case NodeKindLicense:
		l := n.License
		if l == nil {
			l = &LicenseData{}
		}
		return licenseNodeJSON{ID: n.ID, Label: n.Label, Class: n.Class, URL: l.URL}, nil
	case NodeKindParent:
		return parentNodeJSON{ID: n.ID, Label: n.Label, Class: n.Class}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q for node %s", n.Kind, n.ID)
	}
}

func (g *Graph) toElements() (elementsDocument, error) {
	doc := elementsDocument{
		Elements: elements{
			Nodes: make([]element, 0, len(g.nodes)),
			Edges: make([]element, 0, len(g.edges)),
		},
	}

	for _, n := range g.nodes {
		data, err := nodeData(n)
		if err != nil {
			return elementsDocument{}, err
		}
		doc.Elements.Nodes = append(doc.Elements.Nodes, element{Data: data})
	}

	for _, e := range g.edges {
		doc.Elements.Edges = append(doc.Elements.Edges, element{Data: edgeJSON{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Class:  e.Class,
		}})
	}
	return doc, nil
}

// MarshalJSON renders the graph in the Cytoscape.js elements format.
// Edge ids like "a->b" are written without HTML escaping.
func (g *Graph) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.encode(&buf, ""); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode writes the graph as JSON indented by two spaces.
func (g *Graph) Encode(w io.Writer) error {
	return g.encode(w, "  ")
}

func (g *Graph) encode(w io.Writer, indent string) error {
	doc, err := g.toElements()
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", indent)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(doc)
}
