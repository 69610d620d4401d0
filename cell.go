// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Scalar is the set of value types a Cell can hold: word-size-or-less
// copy types whose bits fit an atomic 64-bit word.
//
// Pointers are excluded: a pointer stored as raw bits in an untyped word
// would be invisible to the garbage collector. Store a handle, index, or
// externally managed uintptr instead.
type Scalar interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// wordOf round-trips a scalar through a 64-bit word. The unused high
// bytes are zero, so equal values produce equal words.
func wordOf[T Scalar](v T) uint64 {
	var w uint64
	*(*T)(unsafe.Pointer(&w)) = v
	return w
}

// valueOf is the inverse of wordOf.
func valueOf[T Scalar](w uint64) T {
	return *(*T)(unsafe.Pointer(&w))
}

// cellState is the untyped core of a Cell: the committed value bits and
// the epoch of the commit that wrote them. All cells share this layout,
// so pending writes need no per-type dispatch.
type cellState struct {
	word  atomix.Uint64
	epoch atomix.Uint64
}

// id returns the stable identity of this cell, used as the read/write
// set key. Cells outlive the transactions that touch them, and set
// entries retain the typed pointer, so the key never dangles.
func (s *cellState) id() cellID {
	return cellID(unsafe.Pointer(s))
}

// read loads the value bits and validates them against the transaction's
// start epoch. The value load pairs with the release store in commit: a
// reader that observes a committed value also observes that commit's
// epoch (or a later one), so a stale snapshot cannot pass the check.
func (s *cellState) read(start uint64) uint64 {
	w := s.word.Load()
	if s.epoch.Load() > start {
		abortStale()
	}
	return w
}

// canCommit reports whether the cell has not moved past the
// transaction's start epoch. Caller holds the commit lock.
func (s *cellState) canCommit(start uint64) bool {
	return s.epoch.Load() <= start
}

// commit publishes a pending write at the given commit epoch. The epoch
// is stamped before the value: a reader that sees the new value via the
// acquire load in read also sees the new epoch.
func (s *cellState) commit(epoch, word uint64) {
	s.epoch.Store(epoch)
	s.word.Store(word)
}

// Cell is a single transactional variable of scalar type T.
//
// The zero Cell holds the zero value of T. Cells are caller-allocated
// and must outlive every transaction that touches them. Outside of
// transactions the runtime holds no references to them.
type Cell[T Scalar] struct {
	state cellState
}

// NewCell returns a cell seeded with an initial value. Seeding happens
// at epoch 0, before the cell is shared.
func NewCell[T Scalar](v T) *Cell[T] {
	c := &Cell[T]{}
	c.state.word.Store(wordOf(v))
	return c
}

// Get returns the cell's value as observed by the transaction.
//
// In a read transaction the value is validated against the snapshot
// epoch; observing a newer value aborts to the fallback path. In a write
// transaction a pending Set on this cell is returned as-is
// (read-your-own-writes); otherwise the cell joins the read set to be
// revalidated at commit.
func (c *Cell[T]) Get(tx *Tx) T {
	tx.mustActive()
	if tx.mode == txWrite {
		if w, ok := tx.writes.get(&c.state); ok {
			return valueOf[T](w)
		}
		tx.reads.add(&c.state)
	}
	return valueOf[T](c.state.read(tx.start))
}

// Set records v as the cell's pending value, published if the
// transaction commits. A later Set on the same cell overwrites the
// pending entry. Set does not read the cell: a read-modify-write must
// Get first so the cell joins the read set.
//
// Valid only in a write transaction.
func (c *Cell[T]) Set(tx *Tx, v T) {
	tx.mustActive()
	if tx.mode != txWrite {
		panic("stm: Set in a read transaction")
	}
	tx.writes.put(&c.state, wordOf(v))
}

// Load reads the cell's current committed value in a one-shot read
// transaction on ctx.
func (c *Cell[T]) Load(ctx *Ctx) T {
	var v T
	ctx.ReadTx(func(tx *Tx) {
		v = c.Get(tx)
	})
	return v
}

// Store writes v in a one-shot write transaction on ctx.
func (c *Cell[T]) Store(ctx *Ctx, v T) {
	ctx.WriteTx(func(tx *Tx) {
		c.Set(tx, v)
	})
}
