// Package console is a line-oriented front end to the editor controller,
// used by the headless editor binary and for scripted sessions.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"RoomEditor/editor"
	"RoomEditor/internal/logger"

	"go.uber.org/zap"
)

var ErrUnknownCommand = errors.New("unknown command")

// UsageError reports a command called with the wrong arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return "usage: " + e.Usage }

type Console struct {
	registry *Registry
	ctrl     *editor.Controller
	prompt   string
}

// New returns a console over ctrl. A nil registry uses Commands().
func New(ctrl *editor.Controller, registry *Registry) *Console {
	if registry == nil {
		registry = Commands()
	}
	return &Console{registry: registry, ctrl: ctrl, prompt: "> "}
}

// Exec runs a single command line. Blank lines and # comments do nothing.
func (c *Console) Exec(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil
	}
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	if name == "help" {
		return c.help(), nil
	}
	cmd, ok := c.registry.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if len(args) < cmd.MinArgs {
		return "", &UsageError{Usage: cmd.Usage}
	}
	return cmd.Run(ctx, c.ctrl, args)
}

// Run reads commands from in until EOF or quit, writing results and errors
// to out. Command errors are printed and do not stop the session.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, c.prompt)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if t := strings.TrimSpace(line); t == "quit" || t == "exit" {
			return nil
		}
		result, err := c.Exec(ctx, line)
		switch {
		case err != nil:
			logger.Log.Debug("Console command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintf(out, "error: %v\n", err)
		case result != "":
			fmt.Fprintln(out, result)
		}
		fmt.Fprint(out, c.prompt)
	}
	return scanner.Err()
}

func (c *Console) help() string {
	var b strings.Builder
	for _, name := range c.registry.Names() {
		cmd, _ := c.registry.Lookup(name)
		fmt.Fprintf(&b, "%-36s %s\n", cmd.Usage, cmd.Help)
	}
	return strings.TrimRight(b.String(), "\n")
}
