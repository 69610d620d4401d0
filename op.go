// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import (
	"code.hybscloud.com/kont"
)

// Get is the effect operation for reading a cell of type T.
// Perform(Get[T]{Cell: c}) yields the cell's value in the enclosing
// transaction.
type Get[T Scalar] struct {
	kont.Phantom[T]
	Cell *Cell[T]
}

// DispatchTx handles Get against the enclosing transaction. A stale
// read unwinds the whole protocol evaluation to the transaction driver,
// which re-runs the protocol on its fallback path.
func (g Get[T]) DispatchTx(tx *Tx) kont.Resumed {
	return g.Cell.Get(tx)
}

// Set is the effect operation for writing a cell of type T.
// Perform(Set[T]{Cell: c, Value: v}) records v as the cell's pending
// value in the enclosing write transaction.
type Set[T Scalar] struct {
	kont.Phantom[struct{}]
	Cell  *Cell[T]
	Value T
}

// DispatchTx handles Set against the enclosing transaction.
// Valid only inside ExecWrite.
func (s Set[T]) DispatchTx(tx *Tx) kont.Resumed {
	s.Cell.Set(tx, s.Value)
	return struct{}{}
}
