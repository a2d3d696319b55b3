package cmd

import (
	"fmt"
	"os"

	"batchman/config"
	"batchman/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured API key profiles",
	Long:  "List the profiles found in the config file, with masked keys",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if cfg.Created {
			fmt.Printf("Created %s\n", cfg.Path)
			fmt.Println("Fill in your API keys, then run again")
			return
		}

		if len(cfg.Profiles) == 0 {
			fmt.Printf("No profiles in %s\n", cfg.Path)
			return
		}

		fmt.Printf("Profiles in %s:\n", cfg.Path)
		for _, p := range cfg.Profiles {
			keyInfo := utils.MaskAPIKey(p.APIKey)
			if p.APIKey == "" {
				keyInfo = "(no key)"
			}
			fmt.Printf("  %-16s %s\n", p.Name, keyInfo)
		}
	},
}
