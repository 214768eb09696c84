// package viz renders an elaborated design graph as a diagram.
package viz

import (
	"strings"

	"github.com/panyam/svlog/elab"
)

// Node is one entity in a hierarchy diagram.
type Node struct {
	ID      string // Unique identifier for the node
	Name    string // Display name
	Type    string // Module and parameter key
	Inputs  int
	Outputs int
}

// Edge joins a parent entity to a callee it instantiates. Several
// instances of the same callee share one edge.
type Edge struct {
	FromID string
	ToID   string
	Label  string // instance names
}

// StaticDiagramGenerator renders a hierarchy diagram.
type StaticDiagramGenerator interface {
	Generate(designName string, nodes []Node, edges []Edge) (string, error)
}

// FromDesign lists the design's entities, callees first, and one edge per
// distinct (parent, callee) pair in instance order.
func FromDesign(d *elab.Design) (nodes []Node, edges []Edge) {
	for _, e := range d.Ordered() {
		typ := e.Module
		if len(e.Key) > 0 {
			typ += " " + e.Key.String()
		}
		nodes = append(nodes, Node{
			ID:      e.Name,
			Name:    e.Name,
			Type:    typ,
			Inputs:  len(e.Inputs()),
			Outputs: len(e.Outputs()),
		})

		var order []*elab.Entity
		names := map[*elab.Entity][]string{}
		for _, inst := range e.Insts {
			if _, seen := names[inst.Callee]; !seen {
				order = append(order, inst.Callee)
			}
			names[inst.Callee] = append(names[inst.Callee], inst.Name)
		}
		for _, callee := range order {
			edges = append(edges, Edge{FromID: e.Name, ToID: callee.Name, Label: strings.Join(names[callee], ", ")})
		}
	}
	return
}

// Generate renders d with the generator for format: "dot" or "mermaid".
func Generate(format string, d *elab.Design) (string, bool, error) {
	var g StaticDiagramGenerator
	switch format {
	case "dot":
		g = &DotGenerator{}
	case "mermaid":
		g = &MermaidStaticGenerator{}
	default:
		return "", false, nil
	}
	nodes, edges := FromDesign(d)
	out, err := g.Generate(d.Root.Name, nodes, edges)
	return out, true, err
}
