// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package scalar

// NodeType identifies the operation that created a Node.
//
// It's the tag the backward pass dispatches on, see VJPRegistration.
type NodeType int

//go:generate go tool enumer -type=NodeType -trimprefix=NodeType -output=gen_nodetype_enumer.go nodetype.go

const (
	NodeTypeInvalid NodeType = iota

	// Leaves.
	NodeTypeConstant
	NodeTypeParameter

	// Binary operations.
	NodeTypeAdd
	NodeTypeSub
	NodeTypeMul
	NodeTypeDiv
	NodeTypePow

	// Unary operations.
	NodeTypeExp
	NodeTypeSigmoid
	NodeTypeTanh
	NodeTypeRelu
	NodeTypeNeg
	NodeTypeIncrement
	NodeTypeReciprocal
)

// opTags holds the short operation symbol for each NodeType. Leaves have an empty tag.
var opTags = map[NodeType]string{
	NodeTypeAdd:        "+",
	NodeTypeSub:        "-",
	NodeTypeMul:        "*",
	NodeTypeDiv:        "/",
	NodeTypePow:        "**",
	NodeTypeExp:        "exp",
	NodeTypeSigmoid:    "sigmoid",
	NodeTypeTanh:       "tanh",
	NodeTypeRelu:       "relu",
	NodeTypeNeg:        "*-1",
	NodeTypeIncrement:  "+1",
	NodeTypeReciprocal: "1/x",
}

// OpTag returns the operation symbol, e.g. "+" for NodeTypeAdd or "1/x" for NodeTypeReciprocal.
// It returns "" for leaves and invalid types.
func (t NodeType) OpTag() string {
	return opTags[t]
}

// IsLeaf returns whether nodes of this type have no inputs.
func (t NodeType) IsLeaf() bool {
	return t == NodeTypeConstant || t == NodeTypeParameter
}
