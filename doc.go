// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stm provides software transactional memory over versioned scalar
// cells: atomic, isolated groups of reads and writes with serializable
// semantics and no hand-written locking.
//
// Non-conflicting readers and writers proceed fully in parallel. Each
// [Cell] carries its value and the epoch of the commit that wrote it; a
// transaction snapshots the global epoch of its [Ctx] at entry and every
// read is validated against that snapshot. Writers buffer their writes,
// validate read and write sets under a commit lock, and publish at the
// next epoch. Conflicts never surface to the caller: a failed transaction
// re-executes under the fallback lock, where it cannot fail again.
//
// # Architecture
//
//   - Cells: value bits and write epoch as two atomic words via
//     [code.hybscloud.com/atomix]. Reads are unsynchronized and validated
//     by epoch; publication order makes a torn snapshot detectable.
//   - Tracking: per-transaction read and write sets, ordered by cell
//     identity via [github.com/tidwall/btree].
//   - Driver: [Ctx.ReadTx] and [Ctx.WriteTx] run a thunk optimistically
//     and guarantee completion through the shared/exclusive fallback lock.
//     Thunks may execute more than once and must be free of side effects
//     beyond cell access.
//   - Non-blocking: [Ctx.TryReadTx] and [Ctx.TryWriteTx] return
//     [code.hybscloud.com/iox.ErrWouldBlock] on conflict instead of
//     falling back; [Ctx.Wait] polls a predicate with adaptive backoff.
//   - Effects: transactional protocols as [code.hybscloud.com/kont]
//     operations ([Get], [Set]) evaluated by [ExecRead] and [ExecWrite].
//
// # API Topologies
//
//   - Direct: [Cell.Get], [Cell.Set] inside a thunk; [Cell.Load],
//     [Cell.Store] as one-shot transactions.
//   - Cont-world: [GetBind], [SetThen], [ModifyThen] compose
//     [code.hybscloud.com/kont.Eff] protocols; run with [ExecRead] or
//     [ExecWrite]. Eff protocols are pure descriptions, so the driver can
//     re-evaluate them on the fallback path.
//   - Observability: [Ctx.Epoch], [Ctx.ReadRetries], [Ctx.WriteRetries],
//     [Ctx.Serial].
//
// Aggregate values are composed outside the runtime as structs of cells:
//
//	type point struct {
//		x, y stm.Cell[int64]
//	}
//
// Transactions are not recursive: starting a transaction inside a thunk
// is a programmer error, as is retaining a [Tx] past its thunk.
//
// # Example
//
//	ctx := stm.New()
//	var p point
//	ctx.WriteTx(func(tx *stm.Tx) {
//		p.x.Set(tx, 1)
//		p.y.Set(tx, 2)
//	})
//	ctx.ReadTx(func(tx *stm.Tx) {
//		// A consistent snapshot: never x without y.
//		_ = p.x.Get(tx) + p.y.Get(tx)
//	})
package stm
