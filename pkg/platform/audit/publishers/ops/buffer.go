package ops

import (
	"sync"

	audit "tally/pkg/platform/audit"
)

// ringBuffer is a bounded queue of pending events. When full, the oldest
// event is overwritten.
type ringBuffer struct {
	mu      sync.Mutex
	events  []audit.Event
	head    int // next write position
	tail    int // next read position
	count   int
	dropped int64
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &ringBuffer{events: make([]audit.Event, capacity)}
}

// push adds an event and reports whether an older one was overwritten.
func (b *ringBuffer) push(event audit.Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	overwrote := false
	if b.count == len(b.events) {
		b.tail = (b.tail + 1) % len(b.events)
		b.count--
		b.dropped++
		overwrote = true
	}
	b.events[b.head] = event
	b.head = (b.head + 1) % len(b.events)
	b.count++
	return overwrote
}

// popBatch removes up to n events, oldest first.
func (b *ringBuffer) popBatch(n int) []audit.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}
	out := make([]audit.Event, n)
	for i := range n {
		out[i] = b.events[b.tail]
		b.events[b.tail] = audit.Event{}
		b.tail = (b.tail + 1) % len(b.events)
	}
	b.count -= n
	return out
}

func (b *ringBuffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
