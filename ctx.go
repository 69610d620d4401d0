// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Ctx owns the shared state of one transactional domain: the global
// epoch, the fallback lock, and the retry counters. Any number of
// goroutines may run transactions on the same Ctx concurrently. Cells
// used inside a transaction must all belong to the same Ctx; this is
// not enforced.
//
// The zero Ctx is ready to use (epoch 0, unlocked, serial 0). New
// additionally assigns a serial number.
type Ctx struct {
	// epoch is the commit counter: strictly monotonic, advanced by
	// exactly one per successful write commit, and stored only while mu
	// is held exclusively. The store pairs with the load at transaction
	// start, so a transaction that starts at epoch e observes every
	// cell published by commits up to e.
	epoch atomix.Uint64

	// mu is the fallback lock: held exclusively for every write commit
	// and for the whole fallback execution of a failed write
	// transaction; held shared for the fallback execution of a failed
	// read transaction.
	mu sync.RWMutex

	readRetries  atomix.Uint64
	writeRetries atomix.Uint64

	serial Serial

	// pool recycles Tx handles and their set storage across
	// transactions on this Ctx.
	pool sync.Pool
}

// New returns a fresh transactional domain with the next serial number.
func New() *Ctx {
	return &Ctx{serial: nextSerial()}
}

// Serial returns the serial number assigned to this Ctx.
func (c *Ctx) Serial() Serial {
	return c.serial
}

// Epoch returns the current global epoch: the number of write commits
// that have completed on this Ctx.
func (c *Ctx) Epoch() uint64 {
	return c.epoch.Load()
}

// ReadRetries returns the number of read transactions that fell back to
// re-execution under the shared lock.
func (c *Ctx) ReadRetries() uint64 {
	return c.readRetries.Load()
}

// WriteRetries returns the number of write transactions that fell back
// to re-execution under the exclusive lock.
func (c *Ctx) WriteRetries() uint64 {
	return c.writeRetries.Load()
}
