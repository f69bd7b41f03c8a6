package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext, in io.Reader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run several draws and listings while
keeping the Sheets authentication and database connection open.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &session{
				out:      cmd.OutOrStdout(),
				commands: sessionCommands(cmd.Parent()),
			}
			return s.run(in)
		},
	}

	return cmd
}

// session reads command lines and dispatches them to sibling commands
type session struct {
	out      io.Writer
	commands map[string]*cobra.Command
}

func (s *session) run(in io.Reader) error {
	fmt.Fprintln(s.out, "\n🚀 Starting interactive session...")
	fmt.Fprintln(s.out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		if s.dispatch(scanner.Text()) {
			fmt.Fprintln(s.out, "👋 Goodbye!")
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// dispatch runs one line and reports whether the session should end
func (s *session) dispatch(line string) bool {
	parts, err := parseCommandLine(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(s.out, "❌ Error parsing command: %v\n\n", err)
		return false
	}
	if len(parts) == 0 {
		return false
	}

	switch name := parts[0]; name {
	case "exit", "quit":
		return true
	case "help":
		s.printHelp()
	default:
		target, ok := s.commands[name]
		if !ok {
			fmt.Fprintf(s.out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
			return false
		}
		if err := runInSession(target, parts[1:]); err != nil {
			fmt.Fprintf(s.out, "❌ Error: %v\n\n", err)
		}
	}
	return false
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "\nAvailable commands:")
	for _, name := range sortedKeys(s.commands) {
		fmt.Fprintf(s.out, "  %-30s %s\n", s.commands[name].Use, s.commands[name].Short)
	}
	fmt.Fprintln(s.out, "\n  help                           Show this help message")
	fmt.Fprintln(s.out, "  exit, quit                     Exit the interactive session")
}

// sessionCommands returns the sibling commands that can run inside a session
func sessionCommands(root *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	for _, subCmd := range root.Commands() {
		switch subCmd.Name() {
		case "interactive", "completion", "help":
			continue
		}
		commands[subCmd.Name()] = subCmd
	}
	return commands
}

// runInSession runs a command's RunE directly so PersistentPreRunE does not initialise the app again.
// Flags from the previous run are reset to their defaults first.
func runInSession(cmd *cobra.Command, args []string) error {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := cmd.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	args = cmd.Flags().Args()

	if cmd.Args != nil {
		if err := cmd.Args(cmd, args); err != nil {
			return err
		}
	}

	switch {
	case cmd.RunE != nil:
		return cmd.RunE(cmd, args)
	case cmd.Run != nil:
		cmd.Run(cmd, args)
	}
	return nil
}

// parseCommandLine splits a command line into arguments, respecting single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune
	quoted := false

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
			quoted = true
		case unicode.IsSpace(r):
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}

	return args, nil
}
