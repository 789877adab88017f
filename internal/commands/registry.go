package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"promptstyles/internal/imagegen"
	"promptstyles/internal/styles"
	"promptstyles/internal/theme"
)

// Picker asks the user to choose among options, starting from selected.
type Picker func(options, selected []string) ([]string, error)

// ImageGenerator produces an image for a prompt pair.
type ImageGenerator interface {
	Generate(ctx context.Context, p styles.Prompt) (imagegen.Result, error)
}

// Env is passed to every handler.
type Env struct {
	Ctx       context.Context
	Out       io.Writer
	Colors    *theme.ColorScheme
	State     *State
	Picker    Picker
	Generator ImageGenerator
	// Width is the column used to wrap prompts; zero means 80.
	Width int
}

// Handler runs a command with the text following its name.
type Handler func(env *Env, args string) (quit bool, err error)

// Command represents a slash command
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     Handler
}

// Registry holds all available commands in registration order.
type Registry struct {
	commands *orderedmap.OrderedMap[string, *Command]
}

// NewRegistry creates a registry with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{commands: orderedmap.New[string, *Command]()}

	r.Register("help", "", "Show available commands", r.handleHelp)
	r.Register("list", "", "List the styles of the open file", handleList)
	r.Register("show", "<name>", "Show one style", handleShow)
	r.Register("use", "<name>", "Select a single style and print its prompts", handleUse)
	r.Register("select", "[keys]", "Select styles by comma-separated keys, or pick them interactively", handleSelect)
	r.Register("manual", "on|off", "Toggle the manual prompt override", handleManual)
	r.Register("positive", "<text>", "Set the manual positive prompt", handlePositive)
	r.Register("negative", "<text>", "Set the manual negative prompt", handleNegative)
	r.Register("resolve", "", "Print the combined prompts of the selection", handleResolve)
	r.Register("files", "", "List the style files of the styles directory", handleFiles)
	r.Register("open", "<file>|default", "Open a style file", handleOpen)
	r.Register("refresh", "", "Reload the open style file", handleRefresh)
	r.Register("generate", "", "Generate an image from the combined prompts", handleGenerate)
	r.Register("debug", "", "Toggle debug mode", handleDebug)
	r.Register("quit", "", "Exit the application", handleQuit)
	r.Register("exit", "", "Exit the application", handleQuit)

	return r
}

// Register adds a new command to the registry
func (r *Registry) Register(name, usage, description string, handler Handler) {
	r.commands.Set(name, &Command{
		Name:        name,
		Usage:       usage,
		Description: description,
		Handler:     handler,
	})
}

// Lookup returns the command called name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	return r.commands.Get(name)
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, r.commands.Len())
	for pair := r.commands.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Execute runs input when it is a slash command. handled is false for any
// other input; quit is true after /quit or /exit.
func (r *Registry) Execute(env *Env, input string) (handled, quit bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return false, false
	}

	if env.Ctx == nil {
		env.Ctx = context.Background()
	}

	name, args, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	env.State.Logger.Debug().Str("command", name).Str("args", args).Msg("Executing command")

	cmd, ok := r.Lookup(name)
	if !ok {
		env.Colors.Error.Fprintf(env.Out, "✗ Unknown command: /%s (type /help for available commands)\n", name)
		return true, false
	}

	quit, err := cmd.Handler(env, args)
	if err != nil {
		env.State.Logger.Debug().Err(err).Str("command", name).Msg("Command failed")
		env.Colors.Error.Fprintf(env.Out, "✗ %v\n", err)
	}
	return true, quit
}

func (r *Registry) handleHelp(env *Env, _ string) (bool, error) {
	fmt.Fprintln(env.Out, env.Colors.Header.Sprint("Available Commands:"))
	for _, cmd := range r.Commands() {
		usage := "/" + cmd.Name
		if cmd.Usage != "" {
			usage += " " + cmd.Usage
		}
		fmt.Fprintf(env.Out, "  %-28s - %s\n", usage, cmd.Description)
	}
	fmt.Fprintln(env.Out)
	return false, nil
}
