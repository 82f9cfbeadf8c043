// Package memory provides in-memory storage for keva.
//
// It implements the entry table using concurrent-safe data structures
// with sharded locking for high performance.
//
// Features:
//
//   - Sharded Storage: Entries distributed across shards for parallelism
//   - Expiration Index: Min-heap of (deadline, key) pairs for eager reaping
//   - Lazy Expiration: Expired entries are invisible to readers before
//     the reaper removes them
//
// Thread Safety:
//
// All operations are thread-safe. Reads go straight to the sharded map;
// mutations take a table-level lock to keep the map and the expiration
// index coherent.
package memory
