package cmd

import (
	"context"
	"fmt"
	"os"

	"batchman/internal/utils"

	"github.com/spf13/cobra"
)

var (
	batchesProfile string
	batchesLimit   int64
	batchesAll     bool
)

func init() {
	batchesCmd.Flags().StringVar(&batchesProfile, "profile", "", "profile to use (default: first in config)")
	batchesCmd.Flags().Int64Var(&batchesLimit, "limit", 20, "page size")
	batchesCmd.Flags().BoolVar(&batchesAll, "all", false, "follow pagination to the end")
	rootCmd.AddCommand(batchesCmd)
}

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List batch jobs",
	Long:  "List batch jobs for a profile, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := clientForProfile(batchesProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		after := ""
		total := 0
		for {
			jobs, next, hasMore, err := client.ListBatches(ctx, batchesLimit, after)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			for _, j := range jobs {
				requests := fmt.Sprintf("%d/%d", j.RequestsDone, j.RequestsTotal)
				if j.RequestsFail > 0 {
					requests += fmt.Sprintf(" (%d failed)", j.RequestsFail)
				}
				fmt.Printf("%-32s %-12s %-16s %s\n",
					j.ID, j.Status, requests, utils.FormatTime(j.CreatedAt))
				total++
			}

			if !batchesAll || !hasMore {
				if hasMore {
					fmt.Printf("\n...more on server, rerun with --all\n")
				}
				break
			}
			after = next
		}

		if total == 0 {
			fmt.Println("No batch jobs")
		}
	},
}
