package zs

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	zaddCmd = &cobra.Command{
		Use:   "zadd [key] [score] [member]",
		Short: "Adds a member with a score to a sorted set",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			score, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("score must be a number: %w", err)
			}
			member := args[2]
			if inserted, err := rpcStore.ZAdd(key, member, score); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, member=%s, inserted=%t\n", key, member, inserted)
			}
			return nil
		},
	}
	zscoreCmd = &cobra.Command{
		Use:   "zscore [key] [member]",
		Short: "Reads the score of a member in a sorted set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			member := args[1]
			if score, ok, err := rpcStore.ZScore(key, member); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, member=%s, found=%t, score=%g\n", key, member, ok, score)
			}
			return nil
		},
	}
	zremCmd = &cobra.Command{
		Use:   "zrem [key] [member]",
		Short: "Removes a member from a sorted set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			member := args[1]
			if removed, err := rpcStore.ZRem(key, member); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, member=%s, removed=%t\n", key, member, removed)
			}
			return nil
		},
	}
	zrankCmd = &cobra.Command{
		Use:   "zrank [key] [member]",
		Short: "Reads the rank of a member in a sorted set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			member := args[1]
			if rank, ok, err := rpcStore.ZRank(key, member); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, member=%s, found=%t, rank=%d\n", key, member, ok, rank)
			}
			return nil
		},
	}
	zcardCmd = &cobra.Command{
		Use:   "zcard [key]",
		Short: "Reads the number of members in a sorted set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if count, err := rpcStore.ZCard(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, count=%d\n", key, count)
			}
			return nil
		},
	}
	zqueryCmd = &cobra.Command{
		Use:   "zquery [key] [score] [member] [offset] [limit]",
		Short: "Range query over a sorted set, starting at the given (score, member) pair",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			score, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("score must be a number: %w", err)
			}
			member := args[2]
			offset, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("offset must be a number: %w", err)
			}
			limit, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return fmt.Errorf("limit must be a number: %w", err)
			}
			entries, err := rpcStore.ZQuery(key, score, member, offset, limit)
			if err != nil {
				return err
			}
			fmt.Printf("count=%d\n", len(entries))
			for _, entry := range entries {
				fmt.Printf("%s %g\n", entry.Member, entry.Score)
			}
			return nil
		},
	}
)
