package viz

import (
	"testing"

	"github.com/panyam/svlog/elab"
	"github.com/panyam/svlog/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elaborate(t *testing.T, src, root string) *elab.Design {
	t.Helper()
	file, err := parser.ParseString(src)
	require.NoError(t, err)
	require.NoError(t, file.Resolve())
	d, err := elab.NewElaborator(file).Elaborate(root)
	require.NoError(t, err)
	return d
}

const hierarchy = `module Top;
  Leaf l1(); Leaf l2();
  Cell #(4) c4();
endmodule
module Leaf; endmodule
module Cell #(parameter int W = 1)(input logic [W-1:0] d, output logic q); endmodule`

func TestFromDesign(t *testing.T) {
	nodes, edges := FromDesign(elaborate(t, hierarchy, "Top"))
	require.Len(t, nodes, 3)
	assert.Equal(t, Node{ID: "Leaf", Name: "Leaf", Type: "Leaf"}, nodes[0])
	assert.Equal(t, Node{ID: "Cell.param1", Name: "Cell.param1", Type: "Cell (W=32'sd4)", Inputs: 1, Outputs: 1}, nodes[1])
	assert.Equal(t, "Top", nodes[2].ID)

	assert.Equal(t, []Edge{
		{FromID: "Top", ToID: "Leaf", Label: "l1, l2"},
		{FromID: "Top", ToID: "Cell.param1", Label: "c4"},
	}, edges)
}

func TestDotGenerator(t *testing.T) {
	out, ok, err := Generate("dot", elaborate(t, hierarchy, "Top"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, out, "digraph \"Top\" {\n")
	assert.Contains(t, out, `"Cell.param1" [label="Cell.param1\n(Cell (W=32'sd4))\nin: 1, out: 1"];`)
	assert.Contains(t, out, `"Top" -> "Leaf" [label="l1, l2"];`)
}

func TestMermaidGenerator(t *testing.T) {
	out, ok, err := Generate("mermaid", elaborate(t, hierarchy, "Top"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, out, `    Cell_param1["Cell.param1 (Cell (W=32'sd4))"];`)
	assert.Contains(t, out, `    Top -- "c4" --> Cell_param1;`)
}

func TestEscaping(t *testing.T) {
	nodes := []Node{{ID: "M.param1", Name: "M.param1", Type: `M (S="a")`}}
	out, err := (&DotGenerator{}).Generate("M", nodes, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `(M (S=\"a\"))`)

	out, err = (&MermaidStaticGenerator{}).Generate("M", nodes, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `M_param1["M.param1 (M (S=#quot;a#quot;))"]`)
}

func TestUnknownFormat(t *testing.T) {
	_, ok, err := Generate("svg", &elab.Design{Root: &elab.Entity{Name: "X"}})
	assert.NoError(t, err)
	assert.False(t, ok)
}
