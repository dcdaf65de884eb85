package serve

import (
	"fmt"
	"strconv"
	"strings"

	cmdUtil "github.com/ahaustein/cedar/cmd/util"
	"github.com/ahaustein/cedar/rpc/common"
	"github.com/ahaustein/cedar/rpc/serializer"
	"github.com/ahaustein/cedar/rpc/server"
	"github.com/ahaustein/cedar/rpc/transport"
	"github.com/ahaustein/cedar/rpc/transport/http"
	"github.com/ahaustein/cedar/rpc/transport/tcp"
	"github.com/ahaustein/cedar/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the cedar server",
		Long:    `Start the cedar server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is CEDAR_<flag> (e.g. CEDAR_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "shards"
	ServeCmd.PersistentFlags().String(key, "100,200", cmdUtil.WrapString("Comma-separated list of shard IDs to serve. Each shard gets its own independent store"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for handling a single request"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/cedar.sock, ...)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address on which prometheus metrics will be served (e.g. localhost:9090). Metrics are disabled if empty"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("Number of concurrent workers per client connection (ignored for http)"))

	key = "buffer-size"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("Size of the read buffer per connection (in KB, ignored for http)"))

	key = "write-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the socket write buffer (in KB, ignored for http)"))

	key = "read-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the socket read buffer (in KB, ignored for http)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval (in seconds, only for tcp)"))

	key = "tcp-linger"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The linger time (in seconds, only for tcp)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse shards
	shardsConfig := viper.GetString("shards")
	serveCmdConfig.Shards = []uint64{}
	for _, shardConfig := range strings.Split(shardsConfig, ",") {
		shardID, err := strconv.ParseUint(strings.TrimSpace(shardConfig), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid shard ID %s: %v", shardConfig, err)
		}
		serveCmdConfig.Shards = append(serveCmdConfig.Shards, shardID)
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:          viper.GetString("endpoint"),
		MaxWorkersPerConn: viper.GetInt("workers-per-conn"),
		BufferSize:        viper.GetInt("buffer-size") * 1024,
		WriteBufferSize:   viper.GetInt("write-buffer") * 1024,
		ReadBufferSize:    viper.GetInt("read-buffer") * 1024,
		TCPNoDelay:        viper.GetBool("tcp-nodelay"),
		TCPKeepAliveSec:   viper.GetInt("tcp-keepalive"),
		TCPLingerSec:      viper.GetInt("tcp-linger"),
	}

	return nil
}

// run starts the cedar server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "binary":
		s = serializer.NewBinarySerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPServerTransport()
	case "unix":
		t = unix.NewUnixServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("cedar")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

}
