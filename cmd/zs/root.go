package zs

import (
	"github.com/ahaustein/cedar/cmd/util"
	"github.com/ahaustein/cedar/lib/store"
	"github.com/ahaustein/cedar/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcStore store.IStore

	// SortedSetCommands represents the sorted set command group
	SortedSetCommands = &cobra.Command{
		Use:               "zs",
		Short:             "Perform sorted set operations",
		PersistentPreRunE: setupZSetClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the zs command
	util.SetupRPCClientFlags(SortedSetCommands)

	// Set default shard ID for sorted set operations (different from KV default)
	SortedSetCommands.PersistentFlags().Int("shard", 200, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	SortedSetCommands.AddCommand(zaddCmd)
	SortedSetCommands.AddCommand(zscoreCmd)
	SortedSetCommands.AddCommand(zremCmd)
	SortedSetCommands.AddCommand(zrankCmd)
	SortedSetCommands.AddCommand(zcardCmd)
	SortedSetCommands.AddCommand(zqueryCmd)
}

// setupZSetClient initializes the RPC store client
func setupZSetClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the store client
	rpcStore, err = client.NewRPCStore(
		shardId,
		*config,
		t,
		s,
	)

	return err
}
