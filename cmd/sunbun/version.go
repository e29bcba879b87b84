package main

import (
	"fmt"

	"github.com/spf13/cobra"

	assistant "github.com/sunbun/assistant"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sunbun",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sunbun version %s\n", assistant.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
