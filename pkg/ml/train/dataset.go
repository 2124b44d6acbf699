// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package train

import (
	"io"

	"github.com/pkg/errors"
)

// Dataset for a train.Loop provides the data, one batch at a time.
//
// One batch is a list of examples: inputs[i] holds the input values of example i, and labels[i] its label.
type Dataset interface {
	// Name identifies the dataset. Used for debugging and pretty-printing.
	Name() string

	// Reset restarts the dataset from the beginning. Can be called after io.EOF is reached.
	Reset()

	// Yield one batch of examples or an error. If the error is io.EOF the dataset reached its end.
	Yield() (inputs [][]float64, labels []float64, err error)
}

// InMemoryDataset yields batches from examples held in memory, in order.
type InMemoryDataset struct {
	name      string
	inputs    [][]float64
	labels    []float64
	batchSize int
	next      int
}

// NewInMemoryDataset creates a dataset from the given examples. A batchSize <= 0 yields all
// examples in one batch. The last batch may be smaller than batchSize.
//
// It returns an error if there are no examples, if the number of inputs and labels differ, or if the
// examples don't all have the same number of inputs.
func NewInMemoryDataset(name string, inputs [][]float64, labels []float64, batchSize int) (*InMemoryDataset, error) {
	if len(inputs) == 0 {
		return nil, errors.Errorf("dataset %q has no examples", name)
	}
	if len(inputs) != len(labels) {
		return nil, errors.Errorf("dataset %q has %d inputs but %d labels", name, len(inputs), len(labels))
	}
	for ii, example := range inputs {
		if len(example) != len(inputs[0]) {
			return nil, errors.Errorf("dataset %q example #%d has %d inputs, but example #0 has %d",
				name, ii, len(example), len(inputs[0]))
		}
	}
	if batchSize <= 0 {
		batchSize = len(inputs)
	}
	return &InMemoryDataset{name: name, inputs: inputs, labels: labels, batchSize: batchSize}, nil
}

// Name implements Dataset.
func (ds *InMemoryDataset) Name() string {
	return ds.name
}

// Reset implements Dataset.
func (ds *InMemoryDataset) Reset() {
	ds.next = 0
}

// Yield implements Dataset.
func (ds *InMemoryDataset) Yield() (inputs [][]float64, labels []float64, err error) {
	if ds.next >= len(ds.inputs) {
		return nil, nil, io.EOF
	}
	end := min(ds.next+ds.batchSize, len(ds.inputs))
	inputs, labels = ds.inputs[ds.next:end], ds.labels[ds.next:end]
	ds.next = end
	return
}

// NumInputs returns the number of inputs of each example.
func (ds *InMemoryDataset) NumInputs() int {
	return len(ds.inputs[0])
}

// NumExamples returns the number of examples in the dataset.
func (ds *InMemoryDataset) NumExamples() int {
	return len(ds.inputs)
}
