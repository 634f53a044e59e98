package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell; the session lives until you exit",
		Long: `Start an interactive shell. Every clubdeck command works without the
"clubdeck" prefix. Logging in inside the shell does not touch the saved
session of one-shot commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.inShell {
				return errors.New("already inside the shell")
			}
			return runShell(cmdContext(cmd), app, os.Stdin, cmd.OutOrStdout())
		},
	}
}

// shellApp derives the App used by shell lines: same services and session,
// no token persistence.
func shellApp(app *App) *App {
	sh := *app
	sh.Tokens = nil
	sh.inShell = true
	return &sh
}

func runShell(ctx context.Context, app *App, in io.ReadCloser, out io.Writer) error {
	sh := shellApp(app)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt(sh),
		HistoryFile:     app.HistoryFile,
		AutoComplete:    shellCompleter(NewRootCmd(sh)),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           in,
		Stdout:          out,
	})
	if err != nil {
		return fmt.Errorf("start shell: %w", err)
	}
	defer rl.Close()

	fmt.Fprint(out, formatter.FormatShellWelcome(shellClubName(ctx, sh)))
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(out, "Use 'exit' or 'quit' to leave the shell.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if executeShellLine(ctx, sh, line, out) {
			return nil
		}
		rl.SetPrompt(shellPrompt(sh))
	}
}

// executeShellLine runs one shell line against a fresh command tree and
// reports whether the shell should exit. Command errors are printed, never
// returned.
func executeShellLine(ctx context.Context, app *App, line string, out io.Writer) bool {
	args, err := parseArgs(line)
	if err != nil {
		fmt.Fprintln(out, formatter.FormatShellError(err))
		return false
	}
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "exit", "quit":
		return true
	case "clubdeck":
		args = args[1:]
		if len(args) == 0 {
			return false
		}
	}

	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(out, formatter.FormatShellError(errors.New(ErrorMessage(err))))
	}
	return false
}

func shellPrompt(app *App) string {
	if u, err := app.Session.Current(); err == nil {
		return formatter.FormatPrompt(u.Username)
	}
	return formatter.FormatPrompt("")
}

func shellClubName(ctx context.Context, app *App) string {
	club, err := app.Dashboard.Club(ctx, app.Session)
	if err != nil || club.Name == "" {
		return "clubdeck"
	}
	return club.Name
}

// shellCompleter mirrors the command tree as readline prefix completions.
func shellCompleter(root *cobra.Command) *readline.PrefixCompleter {
	items := completionItems(root)
	items = append(items, readline.PcItem("exit"), readline.PcItem("quit"))
	return readline.NewPrefixCompleter(items...)
}

func completionItems(cmd *cobra.Command) []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "shell" || c.Name() == "completion" {
			continue
		}
		items = append(items, readline.PcItem(c.Name(), completionItems(c)...))
	}
	return items
}

// parseArgs splits a shell line on whitespace. Single or double quotes
// group words; a backslash escapes the next rune outside single quotes.
func parseArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
