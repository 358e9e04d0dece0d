package main

import (
	"fmt"
	"strings"

	"github.com/qqdb/molstar"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of molstar",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("molstar version %s\n", strings.TrimSpace(molstar.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
