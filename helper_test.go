// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm_test

import (
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/stm"
)

// sink defeats dead-code elimination in work.
var sink int

// work simulates in-transaction computation, widening the window in
// which concurrent commits can land between two cell accesses.
func work() {
	s := 0
	for i := 0; i < 100; i++ {
		s += i
	}
	sink = s
}

// iters scales a full iteration count down for -short runs.
func iters(full int) int {
	if testing.Short() {
		return full / 10
	}
	return full
}

// mustTryWrite drives a Try write transaction to completion with
// adaptive backoff. Used by non-blocking-world tests to exercise the
// caller-paced retry pattern.
func mustTryWrite(ctx *stm.Ctx, fn func(*stm.Tx)) {
	var bo iox.Backoff
	for ctx.TryWriteTx(fn) != nil {
		bo.Wait()
	}
}
