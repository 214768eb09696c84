package viz

import (
	"bytes"
	"fmt"
	"strings"
)

// --- DOT Generator ---

type DotGenerator struct{}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (g *DotGenerator) Generate(designName string, nodes []Node, edges []Edge) (string, error) {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("digraph \"%s\" {\n", dotEscaper.Replace(designName)))
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(fmt.Sprintf("  label=\"Design: %s\";\n", dotEscaper.Replace(designName)))
	b.WriteString("  node [shape=record];\n")

	for _, node := range nodes {
		b.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\\n(%s)\\nin: %d, out: %d\"];\n",
			dotEscaper.Replace(node.ID), dotEscaper.Replace(node.Name), dotEscaper.Replace(node.Type), node.Inputs, node.Outputs))
	}

	for _, edge := range edges {
		b.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%s\"];\n",
			dotEscaper.Replace(edge.FromID), dotEscaper.Replace(edge.ToID), dotEscaper.Replace(edge.Label)))
	}
	b.WriteString("}\n")
	return b.String(), nil
}
