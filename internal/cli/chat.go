package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	assistant "github.com/sunbun/assistant"
	"github.com/sunbun/assistant/internal/presentation/tui"
	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/runner"
)

// ChatOptions configures an interactive chat session.
type ChatOptions struct {
	ThreadID string
	Plain    bool      // disable banner and markdown rendering
	Input    io.Reader // defaults to os.Stdin
	Output   io.Writer // defaults to os.Stdout
}

// RunChat drives an interactive conversation on the terminal. It resumes the
// thread if it already exists, prints the pending assistant messages, and
// loops reading input until the thread closes or the user quits.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	interactive := !opts.Plain && term.IsTerminal(int(os.Stdin.Fd()))
	render := func(s string) (string, error) { return s, nil }
	if interactive {
		tui.PrintBanner(assistant.Version)
		render = tui.NewRenderer()
	}

	threadID := opts.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
		fmt.Fprintf(out, "Thread: %s\n\n", threadID)
	}

	state, err := app.Runner.Bootstrap(ctx, threadID)
	if err != nil {
		return fmt.Errorf("failed to open thread: %w", err)
	}
	printMessages(out, render, state.Messages)

	scanner := bufio.NewScanner(in)
	seen := len(state.Messages)

	for {
		if state.Closed {
			fmt.Fprintln(out, "(thread closed)")
			return nil
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		seen++ // the human message we are about to append

		var final *domain.State
		err := app.Runner.Submit(ctx, threadID, runner.Input{
			Messages: []domain.Message{domain.NewHuman(line)},
		}, func(ev runner.Event) error {
			if ev.Type == runner.EventValues {
				final = ev.State
			}
			return nil
		})
		if err != nil {
			fmt.Fprintln(out, "Something went wrong, please try again.")
			continue
		}
		if final == nil {
			continue
		}

		if seen <= len(final.Messages) {
			printMessages(out, render, final.Messages[seen:])
		}
		seen = len(final.Messages)
		state = final
	}
}

func printMessages(out io.Writer, render func(string) (string, error), messages []domain.Message) {
	for _, m := range messages {
		if m.Role != domain.RoleAssistant {
			continue
		}
		content, err := render(m.Content)
		if err != nil {
			content = m.Content
		}
		fmt.Fprintln(out, strings.TrimRight(content, "\n"))
		for _, opt := range m.Options {
			fmt.Fprintf(out, "  [%s]\n", opt.Label)
		}
	}
	fmt.Fprintln(out)
}
