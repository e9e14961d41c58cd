package lock

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"
)

const numShards = 128

// MemoryLocker is an in-process Locker built on sharded semaphores. Keys that
// hash to the same shard serialize with each other.
type MemoryLocker struct {
	shards [numShards]chan struct{}
	wait   time.Duration
}

// NewMemoryLocker returns a locker whose Acquire gives up after wait.
func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	if wait <= 0 {
		wait = defaultWait
	}
	l := &MemoryLocker{wait: wait}
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
	return l
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, busy(key, err)
	}
	shard := l.shards[shardFor(key)]

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return nil, busy(key, ctx.Err())
	case <-timer.C:
		return nil, busy(key, errors.New("lock wait exceeded"))
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-shard })
	}, nil
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % numShards
}
