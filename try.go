// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import "code.hybscloud.com/iox"

// TryReadTx makes a single optimistic attempt at a read transaction.
//
// Non-blocking: on a stale read it abandons the thunk and returns
// iox.ErrWouldBlock instead of falling back to the shared lock. The
// caller paces its own retries (typically with iox.Backoff). Try
// conflicts are not counted in ReadRetries; the counters count fallback
// executions.
func (c *Ctx) TryReadTx(fn func(*Tx)) error {
	tx := c.acquireTx(txRead)
	defer c.releaseTx(tx)

	tx.start = c.epoch.Load()
	if catchStale(tx, fn) {
		return iox.ErrWouldBlock
	}
	return nil
}

// TryWriteTx makes a single optimistic attempt at a write transaction,
// including validation and commit under the commit lock.
//
// Non-blocking in the fallback sense: on an in-thunk abort or a
// validation failure it returns iox.ErrWouldBlock with nothing
// published and no epoch consumed, instead of re-executing under the
// exclusive lock. Try conflicts are not counted in WriteRetries.
func (c *Ctx) TryWriteTx(fn func(*Tx)) error {
	tx := c.acquireTx(txWrite)
	defer c.releaseTx(tx)

	if !c.commitOptimistic(tx, fn) {
		return iox.ErrWouldBlock
	}
	return nil
}
