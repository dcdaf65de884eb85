package server

import (
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ahaustein/cedar/lib/store"
	"github.com/ahaustein/cedar/lib/store/cstore"
	"github.com/ahaustein/cedar/rpc/common"
	"github.com/ahaustein/cedar/rpc/serializer"
	"github.com/ahaustein/cedar/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("server")

// serverShard is a struct that represents a shard in the RPC server
// It contains the store it encapsulates and the adapter that handles
// requests for the store
type serverShard struct {
	Store   store.IStore
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create shards map
	shardMap := xsync.NewMapOf[uint64, serverShard]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     shardMap,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(shardId uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Get appropriate shard
		shard, ok := s.shards.Load(shardId)

		// Case shard does not exist -> error
		if !ok {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     "shard not found",
			}
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = common.Message{
					MsgType: common.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				// Let the adapter handle the request and record metrics
				start := time.Now()
				respMsg = *shard.Adapter.Handle(&msg, shard.Store)
				recordRequest(shardId, msg.MsgType, respMsg.Err != "", time.Since(start))
			}
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			}
		}
		return val
	})
}

func (s *rpcServer) init() error {

	// Init logger
	common.InitLoggers(s.config)

	// CREATE SHARDS

	/*
		Note: A single RPC Server can host any number of shards. Each shard
		is an independent store instance with its own keyspace. The frame
		protocol routes every request to the shard named in its header.
	*/

	for _, shardID := range s.config.Shards {
		s.shards.Store(shardID, serverShard{
			Store:   cstore.NewCedarStore(),
			Adapter: NewIStoreServerAdapter(),
		})
		Logger.Infof("created store for shard %d", shardID)
	}

	Logger.Infof("cedar setup completed successfully")

	// Start the metrics endpoint if configured
	if s.config.MetricsEndpoint != "" {
		go serveMetrics(s.config.MetricsEndpoint)
	}

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

// recordRequest updates the per-shard request counters and latency histogram
func recordRequest(shardID uint64, op common.MessageType, failed bool, took time.Duration) {
	metrics.GetOrCreateCounter(
		fmt.Sprintf(`cedar_requests_total{shard="%d",op=%q}`, shardID, op.String()),
	).Inc()

	if failed {
		metrics.GetOrCreateCounter(
			fmt.Sprintf(`cedar_request_errors_total{shard="%d",op=%q}`, shardID, op.String()),
		).Inc()
	}

	metrics.GetOrCreateHistogram(
		fmt.Sprintf(`cedar_request_duration_seconds{shard="%d",op=%q}`, shardID, op.String()),
	).Update(took.Seconds())
}

// serveMetrics exposes all collected metrics in Prometheus text format
func serveMetrics(endpoint string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	Logger.Infof("Starting metrics endpoint on %s", endpoint)
	if err := http.ListenAndServe(endpoint, mux); err != nil {
		Logger.Errorf("Metrics endpoint failed: %v", err)
	}
}
