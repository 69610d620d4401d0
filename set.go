// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import (
	"github.com/tidwall/btree"
)

// cellID is the read/write set key: the address of a cell's state,
// stable for the life of the cell.
type cellID = uintptr

// readSet tracks the cells a write transaction has observed. Their
// epochs are revalidated under the commit lock. Insertion is
// idempotent.
type readSet struct {
	m btree.Map[cellID, *cellState]
}

func (s *readSet) add(st *cellState) {
	s.m.Set(st.id(), st)
}

// validate reports whether every observed cell is still at or before
// the transaction's start epoch. Caller holds the commit lock.
func (s *readSet) validate(start uint64) bool {
	ok := true
	iter := s.m.Iter()
	for more := iter.First(); more; more = iter.Next() {
		if !iter.Value().canCommit(start) {
			ok = false
			break
		}
	}
	return ok
}

func (s *readSet) reset() {
	s.m = btree.Map[cellID, *cellState]{}
}

// pendingWrite is one tentative value: the target cell and the value
// bits to publish at commit. All cells share the cellState layout, so a
// single flat entry covers every scalar type.
type pendingWrite struct {
	state *cellState
	word  uint64
}

// writeSet maps cell identity to the pending value to publish at
// commit. A later put on the same cell overwrites the entry.
type writeSet struct {
	m btree.Map[cellID, pendingWrite]
}

func (s *writeSet) put(st *cellState, word uint64) {
	s.m.Set(st.id(), pendingWrite{state: st, word: word})
}

func (s *writeSet) get(st *cellState) (uint64, bool) {
	pw, ok := s.m.Get(st.id())
	return pw.word, ok
}

// validate reports whether no written cell has moved past the
// transaction's start epoch. A foreign commit to a cell we are about to
// overwrite is a conflict even if we never read it. Caller holds the
// commit lock.
func (s *writeSet) validate(start uint64) bool {
	ok := true
	iter := s.m.Iter()
	for more := iter.First(); more; more = iter.Next() {
		if !iter.Value().state.canCommit(start) {
			ok = false
			break
		}
	}
	return ok
}

// commitAll publishes every pending value at the given commit epoch, in
// cell identity order. Caller holds the commit lock exclusively.
func (s *writeSet) commitAll(epoch uint64) {
	iter := s.m.Iter()
	for more := iter.First(); more; more = iter.Next() {
		pw := iter.Value()
		pw.state.commit(epoch, pw.word)
	}
}

func (s *writeSet) reset() {
	s.m = btree.Map[cellID, pendingWrite]{}
}
