// Package store provides a high-level interface for key-value storage
// operations with sorted-set support and unified error handling. It is
// the contract consumed by the RPC server and client layers; the actual
// indexing work happens in the lib/index packages underneath.
//
// The package focuses on:
//   - A unified interface (IStore) for plain and sorted-set operations
//     across different backends (in-process engine, RPC client)
//   - Structured error reporting using typed error codes, so callers can
//     distinguish misuse (wrong key type) from internal failures
//
// Key Components:
//
//   - IStore Interface: The core abstraction. Absent keys are never
//     errors; they are reported through boolean return values, so a
//     protocol layer can map them to nil responses without inspecting
//     error strings.
//
//   - Error System: A structured error type with a RetCode, mirroring
//     the wire-level return codes of the RPC layer.
//
// Implementations:
//
//   - cstore: the single-node in-process engine built on the
//     order-statistic tree and incremental hash map in lib/index.
//     Available in the "github.com/ahaustein/cedar/lib/store/cstore"
//     package.
//
//   - rpc/client: an IStore-shaped client that forwards every call to a
//     remote cedar server.
package store
