// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	. "github.com/gomlx/scalargrad/pkg/core/scalar"
	"github.com/gomlx/scalargrad/ui/commandline"
)

// printNode prints the node, its operands and the operation that created it.
func printNode(w io.Writer, node *Node) {
	operands := make([]string, 0, node.NumInputs())
	for _, input := range node.Inputs() {
		operands = append(operands, input.String())
	}
	_, _ = fmt.Fprintf(w, "%s\n\toperands: {%s}\n\top: %q\n", node, strings.Join(operands, ", "), node.OpTag())
}

// runPipeline builds `e = a*b` and `d = e + c` with all values as nodes, then with b and c as literals
// (in both operand orders), followed by a**b, a/b and exp(a). Finally, it back-propagates from the
// first d and renders its graph.
func runPipeline(w io.Writer, a, b, c float64) {
	g := NewGraph("pipeline")

	_, _ = fmt.Fprintln(w, "# All nodes")
	nodeA := g.Parameter("a", a)
	nodeB := g.Parameter("b", b)
	nodeC := g.Parameter("c", c)
	nodeE := Mul(nodeA, nodeB).SetLabel("e")
	nodeD := Add(nodeE, nodeC).SetLabel("d")
	printNode(w, nodeD)
	printNode(w, nodeE)

	_, _ = fmt.Fprintln(w, "\n# Literals b and c")
	e2 := MulScalar(nodeA, b).SetLabel("e2")
	d2 := AddScalar(e2, c).SetLabel("d2")
	printNode(w, d2)
	printNode(w, e2)

	_, _ = fmt.Fprintln(w, "\n# Literals b and c, swapped order")
	e3 := ScalarMul(b, nodeA).SetLabel("e3")
	d3 := AddScalar(e3, c).SetLabel("d3")
	printNode(w, d3)
	printNode(w, e3)

	_, _ = fmt.Fprintln(w, "\n# Power")
	printNode(w, Pow(nodeA, nodeB).SetLabel("a**b"))

	_, _ = fmt.Fprintln(w, "\n# Division")
	printNode(w, Div(nodeA, nodeB).SetLabel("a/b"))

	_, _ = fmt.Fprintln(w, "\n# Exponential")
	printNode(w, Exp(nodeA).SetLabel("exp(a)"))

	_, _ = fmt.Fprintln(w, "\n# Gradients of d")
	Backward(nodeD)
	_, _ = fmt.Fprintln(w, commandline.RenderGraph(nodeD))
}
