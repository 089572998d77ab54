package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show engine and store state",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(context.Background(), "")
		if err := encode(os.Stdout, statusFormat, svc.State()); err != nil {
			fatal("Failed to print status", err)
		}
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusFormat, "output", "o", formatJSON, "Output format: json or yaml")
	rootCmd.AddCommand(statusCmd)
}
