// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholarsync/internal/store"
)

var memoCmd = &cobra.Command{
	Use:   "memo",
	Short: "Inspect or prune the OpenAlex lookup memo",
	Long: `Memo manages the SQLite database (memo_db) that remembers successful
OpenAlex work lookups between refreshes.`,
}

var memoCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of memoised lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openMemo()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d memoised lookups\n", n)
		return nil
	},
}

var memoPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete memoised lookups older than --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")

		s, err := openMemo()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Purge(cmd.Context(), olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d memoised lookups\n", n)
		return nil
	},
}

func openMemo() (*store.Store, error) {
	path := viper.GetString("memo_db")
	if path == "" {
		return nil, fmt.Errorf("no memo database configured: set memo_db or --memo-db")
	}
	return store.Open(path, viper.GetDuration("memo_max_age"))
}

func init() {
	memoPurgeCmd.Flags().Duration("older-than", 30*24*time.Hour, "age beyond which lookups are deleted (0 deletes all)")

	memoCmd.AddCommand(memoCountCmd)
	memoCmd.AddCommand(memoPurgeCmd)

	rootCmd.AddCommand(memoCmd)
}
