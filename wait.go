// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import "code.hybscloud.com/iox"

// Wait blocks until pred observes a consistent snapshot for which it
// returns true, re-reading with adaptive backoff (iox.Backoff) between
// attempts. There are no per-cell watchers; wakeup latency is the
// backoff interval.
//
// pred runs as a read transaction thunk and may run many times; it must
// be free of side effects beyond cell access.
func (c *Ctx) Wait(pred func(*Tx) bool) {
	var bo iox.Backoff
	for {
		ok := false
		c.ReadTx(func(tx *Tx) {
			ok = pred(tx)
		})
		if ok {
			return
		}
		bo.Wait()
	}
}
