package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report inconsistencies between the catalog and the loan ledger",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(context.Background(), "")
		problems := svc.Verify()
		if len(problems) == 0 {
			fmt.Println("Library is consistent.")
			return
		}
		for _, p := range problems {
			fmt.Println("-", p)
		}
		fmt.Fprintf(os.Stderr, "%d problem(s) found\n", len(problems))
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
