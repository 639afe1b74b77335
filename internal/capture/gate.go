package capture

import (
	"errors"
	"sync/atomic"
)

// ErrGateBusy is returned when a restore is attempted while a previous
// restore-induced notification has not yet been consumed.
var ErrGateBusy = errors.New("capture: suppression gate already armed")

// Gate suppresses exactly one clipboard notification. A restore arms it
// just before writing the clipboard and the next pipeline run consumes it.
type Gate struct {
	armed atomic.Bool
}

// Arm sets the gate. Only one suppressed write may be in flight.
func (g *Gate) Arm() error {
	if !g.armed.CompareAndSwap(false, true) {
		return ErrGateBusy
	}
	return nil
}

// Disarm clears the gate without consuming a notification. Callers use it
// when the write they armed for failed.
func (g *Gate) Disarm() { g.armed.Store(false) }

// Armed reports whether the next notification will be suppressed.
func (g *Gate) Armed() bool { return g.armed.Load() }

// Consume clears the gate and reports whether it was armed.
func (g *Gate) Consume() bool { return g.armed.CompareAndSwap(true, false) }
