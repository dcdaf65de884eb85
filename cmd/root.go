package cmd

import (
	"fmt"
	"os"

	"github.com/ahaustein/cedar/cmd/kv"
	"github.com/ahaustein/cedar/cmd/serve"
	"github.com/ahaustein/cedar/cmd/util"
	"github.com/ahaustein/cedar/cmd/zs"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "cedar",
		Short: "in-memory key-value and sorted-set store",
		Long: fmt.Sprintf(`cedar (v%s)

An in-memory key-value store with sorted sets written in Go,
built on an order-statistic tree and an incrementally
rehashed hash table.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cedar",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cedar v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(zs.SortedSetCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
