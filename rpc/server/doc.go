// Package server implements the cedar RPC server. It provides an adapter for
// handling RPC requests against a store, along with the core server
// implementation that manages shards and request routing.
//
// The package focuses on:
//   - Server-side RPC request handling for plain key and sorted-set operations
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Hosting multiple independent store shards in a single server
//   - Per-shard request metrics with an optional Prometheus endpoint
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a store.IStore.
//
//   - NewIStoreServerAdapter: Factory function creating an adapter for store
//     operations, translating RPC requests to store.IStore method calls.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Shards: []uint64{100, 200},
//	  Transport: common.ServerTransportConfig{
//	    Endpoint: "0.0.0.0:8080",
//	  },
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Each shard is backed by its own store instance with a fully independent
// keyspace. Requests carry the target shard ID in the frame header and are
// routed by the transport handler.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	The Serve method is not thread-safe and should be called only once.
package server
