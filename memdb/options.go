package memdb

// Options configures a Store, mirroring MemoryDatabaseOptions from the
// reference implementation: by default events are not indexed at all —
// the store only tracks which ids have been seen.
type Options struct {
	// StoreEvents enables event indexing and persistence. Default false.
	StoreEvents bool
	// MaxEvents bounds how many ids/events are retained in memory. nil
	// means unbounded. Default 35000, matching the reference backend.
	MaxEvents *int
	// QueryCacheSize bounds the number of distinct filter fingerprints
	// whose Query result is cached. 0 disables the cache entirely.
	QueryCacheSize int
}

// DefaultOptions returns the reference backend's default configuration:
// events not stored, capped at 35000 tracked ids, query cache disabled.
func DefaultOptions() Options {
	max := 35000
	return Options{StoreEvents: false, MaxEvents: &max}
}
