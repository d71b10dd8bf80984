package editor

import "sync/atomic"

// Guard is a non-blocking re-entrancy flag. A session enters it around its
// change listener so that writes the session makes back into the grid do not
// start another pass.
type Guard struct {
	running atomic.Bool
}

// Enter marks a pass as running. It returns false when one already is.
func (g *Guard) Enter() bool {
	return g.running.CompareAndSwap(false, true)
}

// Exit marks the running pass as finished.
func (g *Guard) Exit() {
	g.running.Store(false)
}

// Running reports whether a pass is running.
func (g *Guard) Running() bool {
	return g.running.Load()
}

// Do runs fn unless a pass is already running and reports whether it ran.
func (g *Guard) Do(fn func()) bool {
	if !g.Enter() {
		return false
	}
	defer g.Exit()
	fn()
	return true
}
