package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunbun/assistant/internal/cli"
	"github.com/sunbun/assistant/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long:  `Exposes the assistant as MCP tools (create_thread, send_message, get_state) over stdio or SSE.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := loadApp(cmd)
		if err != nil {
			fmt.Printf("Error initializing assistant: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		server := mcp.NewServer(app.Runner, app.Engine, mcp.WithLogger(app.Logger))

		useSSE, _ := cmd.Flags().GetBool("sse")
		if useSSE {
			port, _ := cmd.Flags().GetInt("port")
			sigCtx := cli.NewSignalContext(context.Background())
			defer sigCtx.Cancel()
			if err := server.ServeSSE(sigCtx, port); err != nil {
				fmt.Printf("MCP server error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := server.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Bool("sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().IntP("port", "p", 8765, "Port for SSE mode")
}
