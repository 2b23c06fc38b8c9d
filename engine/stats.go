package engine

import "sync/atomic"

var (
	liveContexts     atomic.Int64
	detachedContexts atomic.Int64
)

// Contexts returns the number of engine contexts currently owned by running
// actors, and the number whose worker failed but whose actor has not been
// closed yet.
func Contexts() (live, detached uint64) {
	return uint64(max(liveContexts.Load(), 0)), uint64(max(detachedContexts.Load(), 0))
}
