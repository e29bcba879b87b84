package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	presentation "github.com/sunbun/assistant/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the conversation graph as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := loadApp(cmd)
		if err != nil {
			fmt.Printf("Error initializing assistant: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		fmt.Println(presentation.GenerateMermaid(app.Engine.Graph()))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
