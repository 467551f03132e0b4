package console

import (
	"context"
	"sort"

	"RoomEditor/editor"
)

// Handler runs one console command against the controller and returns the
// text to print.
type Handler func(ctx context.Context, c *editor.Controller, args []string) (string, error)

type Command struct {
	Name  string
	Usage string
	Help  string
	// MinArgs is the number of required arguments.
	MinArgs int
	Run     Handler
}

// Registry maps command names to handlers.
type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd, replacing any command with the same name.
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name] = cmd
}

func (r *Registry) Lookup(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
