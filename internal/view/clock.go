package view

import "github.com/jonboulle/clockwork"

// clock drives debouncing and the sky phase. Tests swap in a fake via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
