// Package cmap provides a sharded concurrent map with string keys.
//
// The keyspace is split across a power-of-two number of shards, each
// guarded by its own sync.RWMutex. MurmurHash3 assigns keys to shards,
// so goroutines working on different keys rarely contend for the same
// lock.
//
//	m := cmap.New[[]byte]()
//	m.Set("greeting", []byte("hello"))
//	if v, ok := m.Get("greeting"); ok {
//		// ...
//	}
//
// Reads (Get, Has, Count) hold shard read locks and writes (Set,
// Delete, Pop, Clear) hold write locks. Range walks shards one at a
// time under their read locks: it never observes a torn value, but
// keys written while it runs may be missed or visited twice.
package cmap
