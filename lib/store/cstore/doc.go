// Package cstore implements the cedar storage engine: the single-node,
// in-process implementation of store.IStore.
//
// The engine keeps one keyspace, an incremental-rehashing hash map from
// lib/index/hmap, whose objects are typed: a key holds either a plain
// byte-string value or a sorted set (lib/index/zset). Sorted-set keys are
// created implicitly on the first ZAdd and vanish when their last member
// is removed. Operations addressed at a key of the wrong type fail with
// RetCInvalidOperation instead of silently converting.
//
// Performance characteristics:
//   - O(1) average for plain Get/Set/Delete/Has and for member lookup
//   - O(log n) for sorted-set insert, remove, rank and range seeks
//   - hash table resizes are spread incrementally over subsequent
//     operations, so no single call pays for a full rehash
//
// Thread-safety: all operations are serialized through one mutex per
// store instance. The index structures underneath are deliberately
// single-threaded; the mutex is the external serialization they require.
package cstore
