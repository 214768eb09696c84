package viz

import (
	"bytes"
	"fmt"
	"strings"
)

// --- Mermaid Static Generator ---

type MermaidStaticGenerator struct{}

// Mermaid node ids may not contain dots.
func mermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			return r
		}
		return '_'
	}, id)
}

var mermaidEscaper = strings.NewReplacer(`"`, "#quot;")

func (g *MermaidStaticGenerator) Generate(designName string, nodes []Node, edges []Edge) (string, error) {
	var b bytes.Buffer
	b.WriteString("graph TD;\n")
	b.WriteString(fmt.Sprintf("  subgraph Design %s\n", mermaidID(designName)))

	for _, node := range nodes {
		b.WriteString(fmt.Sprintf("    %s[\"%s (%s)\"];\n", mermaidID(node.ID), mermaidEscaper.Replace(node.Name), mermaidEscaper.Replace(node.Type)))
	}

	for _, edge := range edges {
		b.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s;\n", mermaidID(edge.FromID), mermaidEscaper.Replace(edge.Label), mermaidID(edge.ToID)))
	}
	b.WriteString("  end\n")
	return b.String(), nil
}
