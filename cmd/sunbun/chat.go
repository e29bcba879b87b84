package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunbun/assistant/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Opens a terminal conversation with the assistant. Pass --thread to resume an existing thread.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := loadApp(cmd)
		if err != nil {
			fmt.Printf("Error initializing assistant: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		threadID, _ := cmd.Flags().GetString("thread")
		plain, _ := cmd.Flags().GetBool("plain")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		if err := cli.RunChat(sigCtx, app, cli.ChatOptions{
			ThreadID: threadID,
			Plain:    plain,
		}); err != nil {
			fmt.Printf("Chat error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("thread", "t", "", "Thread ID to resume (generated when omitted)")
	chatCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
}
