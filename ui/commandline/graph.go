// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/gomlx/scalargrad/pkg/core/scalar"
)

var graphHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// RenderGraph returns a table with root and every node it depends on, in topological order (inputs
// first). For each node it lists its id, label, operation tag, value, gradient and input ids.
func RenderGraph(root *scalar.Node) string {
	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		Headers("#", "Label", "Op", "Value", "Gradient", "Inputs").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return graphHeaderStyle
			case col == 0 || col == 3 || col == 4:
				return rightAlignedStyle
			default:
				return normalStyle
			}
		})
	for _, node := range scalar.TopologicalOrder(root) {
		op := node.OpTag()
		if op == "" {
			op = node.Type().String()
		} else if node.Type() == scalar.NodeTypePow {
			op = fmt.Sprintf("%s %g", op, node.Exponent())
		}
		inputs := make([]string, 0, node.NumInputs())
		for _, id := range node.InputIds() {
			inputs = append(inputs, fmt.Sprintf("#%d", id))
		}
		table.Row(
			fmt.Sprintf("#%d", node.Id()),
			node.Label(),
			op,
			fmt.Sprintf("%.6g", node.Value()),
			fmt.Sprintf("%.6g", node.Gradient()),
			strings.Join(inputs, ", "),
		)
	}
	return table.String()
}
