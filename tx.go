// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

type txMode uint8

const (
	txRead txMode = iota
	txWrite
)

// Tx is the per-transaction state, threaded through the thunk. The
// driver is its sole owner: it sets the mode and start epoch, and
// clears everything on every exit path. User code touches a Tx only by
// passing it to Cell operations.
//
// A Tx is only valid inside the thunk it was passed to. Retaining one
// past the transaction is a programmer error; operations on a dead
// handle panic.
type Tx struct {
	ctx    *Ctx
	mode   txMode
	start  uint64
	reads  readSet
	writes writeSet
}

// mustActive guards every cell operation against use outside a
// transaction.
func (tx *Tx) mustActive() {
	if tx == nil || tx.ctx == nil {
		panic("stm: cell access outside a transaction")
	}
}

// resetSets discards all tracked state, restoring the between-attempts
// invariant that an inactive transaction holds no cells.
func (tx *Tx) resetSets() {
	tx.reads.reset()
	tx.writes.reset()
}

// validate reports whether every cell in the read and write sets is
// still at or before the start epoch. Caller holds the commit lock.
func (tx *Tx) validate() bool {
	return tx.reads.validate(tx.start) && tx.writes.validate(tx.start)
}

// acquireTx checks a recycled handle out of the pool and binds it to
// this Ctx. Starting a transaction inside a running thunk is a
// programmer error and is not detected; see the package documentation.
func (c *Ctx) acquireTx(mode txMode) *Tx {
	tx, _ := c.pool.Get().(*Tx)
	if tx == nil {
		tx = &Tx{}
	}
	tx.ctx = c
	tx.mode = mode
	return tx
}

// releaseTx clears the handle and returns it to the pool. Runs
// deferred, so state hygiene holds on every exit path, including a user
// panic out of the thunk.
func (c *Ctx) releaseTx(tx *Tx) {
	tx.resetSets()
	tx.ctx = nil
	c.pool.Put(tx)
}

// ReadTx runs the thunk as a read transaction.
//
// The thunk executes against the epoch snapshot taken at entry; every
// Get validates its cell against that snapshot at the moment of read,
// so no read set is kept. If any Get observes a newer value the thunk
// is abandoned and re-executed once under the shared fallback lock,
// where no writer can commit and the re-execution cannot abort.
//
// The thunk may run twice; it must be free of side effects beyond cell
// access.
func (c *Ctx) ReadTx(fn func(*Tx)) {
	tx := c.acquireTx(txRead)
	defer c.releaseTx(tx)

	tx.start = c.epoch.Load()
	if !catchStale(tx, fn) {
		return
	}

	c.readRetries.Add(1)
	c.mu.RLock()
	defer c.mu.RUnlock()
	tx.start = c.epoch.Load()
	mustNotAbort(tx, fn)
}

// WriteTx runs the thunk as a write transaction.
//
// The thunk executes speculatively without the lock: Gets join the read
// set, Sets accumulate in the write set. The commit then takes the
// fallback lock exclusively, revalidates both sets against the start
// epoch, publishes the pending writes at epoch+1, and advances the
// global epoch. On an in-thunk abort or a validation failure, the thunk
// is re-executed under the exclusive lock with fresh sets; with all
// writers excluded that execution validates trivially and its commit is
// unconditional, so the transaction always completes.
//
// The thunk may run twice; it must be free of side effects beyond cell
// access.
func (c *Ctx) WriteTx(fn func(*Tx)) {
	tx := c.acquireTx(txWrite)
	defer c.releaseTx(tx)

	if c.commitOptimistic(tx, fn) {
		return
	}

	c.writeRetries.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	// The failed attempt's pending state must not leak into the
	// fallback commit.
	tx.resetSets()
	tx.start = c.epoch.Load()
	mustNotAbort(tx, fn)
	commit := tx.start + 1
	tx.writes.commitAll(commit)
	c.epoch.Store(commit)
}

// commitOptimistic makes one lock-free attempt at the write
// transaction: run the thunk, then validate and publish under the
// commit lock. Reports whether the transaction committed. On failure
// nothing has been published and no epoch has been consumed.
func (c *Ctx) commitOptimistic(tx *Tx, fn func(*Tx)) bool {
	tx.start = c.epoch.Load()
	if catchStale(tx, fn) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !tx.validate() {
		return false
	}
	commit := c.epoch.Load() + 1
	tx.writes.commitAll(commit)
	c.epoch.Store(commit)
	return true
}
