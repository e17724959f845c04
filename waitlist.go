package goocl

import (
	"sync"

	"github.com/goocl/goocl/ocl"
)

// WaitList is an ordered multiset of events expressing a happens-before
// dependency for enqueued commands. Passing a list to any enqueue or
// wait operation consumes it: the list is empty afterwards, which
// prevents accidental reuse of stale dependencies across loop
// iterations. A nil *WaitList means "no dependencies" everywhere one is
// accepted.
type WaitList struct {
	mu     sync.Mutex
	events []*Event
}

// Wait builds a single-use wait list in expression position:
//
//	err := buf.Write(queue, 0, data, goocl.Wait(evt1, evt2))
func Wait(events ...*Event) *WaitList {
	wl := &WaitList{}
	return wl.Add(events...)
}

// Add appends events to the list and returns it for chaining.
func (wl *WaitList) Add(events ...*Event) *WaitList {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	wl.events = append(wl.events, events...)
	return wl
}

// Len returns the number of events currently in the list.
func (wl *WaitList) Len() int {
	if wl == nil {
		return 0
	}
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return len(wl.events)
}

// take empties the list and returns the native handles of the events it
// held. Every consumer of a wait list goes through here.
func (wl *WaitList) take() []ocl.EventID {
	if wl == nil {
		return nil
	}
	wl.mu.Lock()
	events := wl.events
	wl.events = nil
	wl.mu.Unlock()
	if len(events) == 0 {
		return nil
	}
	ids := make([]ocl.EventID, len(events))
	for i, e := range events {
		ids[i] = e.ID()
	}
	return ids
}
