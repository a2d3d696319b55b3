package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"batchman/internal/jsonl"

	"github.com/spf13/cobra"
)

var (
	prepareModel string
	prepareOut   string
)

func init() {
	prepareCmd.Flags().StringVar(&prepareModel, "model", "gpt-4o-mini", "model to request")
	prepareCmd.Flags().StringVar(&prepareOut, "out", "batch_input.jsonl", "output file")
	rootCmd.AddCommand(prepareCmd)
}

var prepareCmd = &cobra.Command{
	Use:   "prepare PROMPTFILE",
	Short: "Build a batch input file from a list of prompts",
	Long: `Build a JSONL batch input file from a text file of prompts,
one prompt per line. Blank lines are skipped. The result can be
uploaded with purpose 'batch' and submitted as a batch job.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer in.Close()

		var lines []string
		n := 0
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			prompt := strings.TrimSpace(scanner.Text())
			if prompt == "" {
				continue
			}
			n++
			line, err := jsonl.BuildRequest(fmt.Sprintf("req-%d", n), prepareModel, prompt)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: line %d: %v\n", n, err)
				os.Exit(1)
			}
			lines = append(lines, line)
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(lines) == 0 {
			fmt.Fprintln(os.Stderr, "Error: no prompts found")
			os.Exit(1)
		}

		content := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(prepareOut, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Wrote %d requests to %s\n", len(lines), prepareOut)
	},
}
