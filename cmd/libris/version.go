package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/libris"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of libris",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("libris version %s\n", strings.TrimSpace(libris.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
