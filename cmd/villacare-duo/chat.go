package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leadballoon/villacare/internal/duo"
	"github.com/leadballoon/villacare/internal/persona"
)

func chatCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat (/banter, /reset, /quit)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := duo.ParseMode(mode)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			out := cmd.OutOrStdout()
			session := duo.NewSession(
				duo.NewHTTPClient(serverURL, nil),
				logger,
				duo.WithObserver(printer(out)),
			)
			return runChat(ctx, session, m, cmd.InOrStdin(), out)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(duo.ModeDuo), "duo, alan, amanda or investor")
	return cmd
}

// runChat reads visitor lines from in until EOF, /quit or cancellation.
func runChat(ctx context.Context, s *duo.Session, mode duo.Mode, in io.Reader, out io.Writer) error {
	if err := s.Start(mode); err != nil {
		return err
	}

	offered := false
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			s.Reset()
			err = s.Start(mode)
		case "/banter":
			if err = s.Banter(ctx); errors.Is(err, duo.ErrNotDuo) {
				fmt.Fprintln(out, "(banter is only available in duo mode)")
				err = nil
			}
		default:
			err = s.Send(ctx, line)
		}
		if err != nil {
			return err
		}

		if !offered && s.Engaged() {
			offered = true
			fmt.Fprintln(out, "(enjoying the chat? get the investor deck: villacare-duo signup --name NAME --email EMAIL)")
		}
	}
}

// printer writes each transcript line as it is appended. Visitor lines are
// already on screen.
func printer(out io.Writer) func(duo.Entry) {
	icons := map[persona.ID]string{persona.Alan: "🎤", persona.Amanda: "💕", persona.Investor: "📊"}
	store := persona.Default()

	return func(e duo.Entry) {
		if e.Role == "user" {
			return
		}
		name := string(e.Agent)
		if p, err := store.Lookup(e.Agent); err == nil {
			name = p.DisplayName
		}
		fmt.Fprintf(out, "%s %s: %s\n", icons[e.Agent], name, e.Content)
	}
}
