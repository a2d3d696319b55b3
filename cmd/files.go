package cmd

import (
	"context"
	"fmt"
	"os"

	"batchman/internal/utils"

	"github.com/spf13/cobra"
)

var filesProfile string

func init() {
	filesCmd.Flags().StringVar(&filesProfile, "profile", "", "profile to use (default: first in config)")
	rootCmd.AddCommand(filesCmd)
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List uploaded files",
	Long:  "List the files stored under a profile's account",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := clientForProfile(filesProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		files, err := client.ListFiles(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(files) == 0 {
			fmt.Println("No files uploaded")
			return
		}

		for _, f := range files {
			fmt.Printf("%-28s %-28s %8s  %-14s %s\n",
				f.ID, f.Filename, utils.HumanBytes(f.Bytes), f.Purpose, utils.FormatTime(f.CreatedAt))
		}
	},
}
