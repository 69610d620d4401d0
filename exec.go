// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import (
	"code.hybscloud.com/kont"
)

// txDispatcher is the structural interface for transactional effect
// operations. DispatchTx performs the operation against the enclosing
// transaction; a stale read unwinds via the internal abort signal.
type txDispatcher interface {
	DispatchTx(tx *Tx) kont.Resumed
}

// txHandler implements kont.Handler for transactional effects.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type txHandler[R any] struct {
	tx *Tx
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h txHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	top, ok := op.(txDispatcher)
	if !ok {
		panic("stm: unhandled effect in txHandler")
	}
	return top.DispatchTx(h.tx), true
}

// ExecRead runs a transactional protocol as a read transaction on ctx
// and returns its result.
//
// Only Cont-world protocols are supported: a kont.Eff is a pure
// description, so the driver can re-evaluate it from the start on the
// fallback path. Expr-world evaluation consumes its frames and cannot
// be re-run.
func ExecRead[R any](ctx *Ctx, protocol kont.Eff[R]) R {
	var result R
	ctx.ReadTx(func(tx *Tx) {
		result = kont.Handle(protocol, txHandler[R]{tx: tx})
	})
	return result
}

// ExecWrite runs a transactional protocol as a write transaction on ctx
// and returns its result.
//
// Only Cont-world protocols are supported; see ExecRead.
func ExecWrite[R any](ctx *Ctx, protocol kont.Eff[R]) R {
	var result R
	ctx.WriteTx(func(tx *Tx) {
		result = kont.Handle(protocol, txHandler[R]{tx: tx})
	})
	return result
}
