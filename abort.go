// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

// staleAbort is the internal abort signal: a Get observed a value newer
// than the transaction's snapshot. It unwinds the thunk as a panic and
// is recovered only by the transaction driver; user panics pass through
// untouched.
type staleAbort struct{}

// abortStale exits the current thunk with the stale-read signal.
func abortStale() {
	panic(staleAbort{})
}

// catchStale runs the thunk and reports whether it aborted on a stale
// read. Any other panic propagates.
func catchStale(tx *Tx, fn func(*Tx)) (aborted bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(staleAbort); ok {
				aborted = true
				return
			}
			panic(r)
		}
	}()
	fn(tx)
	return false
}

// mustNotAbort runs the thunk on a fallback path where the held lock
// excludes every concurrent commit, so a stale read is impossible. An
// abort here means the exclusion invariant is broken.
func mustNotAbort(tx *Tx, fn func(*Tx)) {
	if catchStale(tx, fn) {
		panic("stm: stale read under the fallback lock")
	}
}
