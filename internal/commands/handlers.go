package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"promptstyles/internal/catalog"
	"promptstyles/internal/styles"
)

const listColumnWidth = 48

func (e *Env) width() int {
	if e.Width <= 0 {
		return 80
	}
	return e.Width
}

// printPrompt writes a prompt pair wrapped to the console width.
func printPrompt(env *Env, p styles.Prompt) {
	wrap := env.width() - 4
	if wrap < 20 {
		wrap = 20
	}
	env.Colors.Positive.Fprintln(env.Out, "  positive:")
	fmt.Fprintln(env.Out, indent.String(wordwrap.String(orNone(p.Positive), wrap), 4))
	env.Colors.Negative.Fprintln(env.Out, "  negative:")
	fmt.Fprintln(env.Out, indent.String(wordwrap.String(orNone(p.Negative), wrap), 4))
}

func orNone(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}

func requireArg(args, usage string) error {
	if args == "" {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func handleList(env *Env, _ string) (bool, error) {
	table := env.State.Table()
	if err := table.Err(); err != nil {
		return false, err
	}
	if table.Len() == 0 {
		fmt.Fprintln(env.Out, "No styles in the open file")
		return false, nil
	}

	data := pterm.TableData{{"Name", "Positive", "Negative"}}
	for _, e := range table.Entries() {
		data = append(data, []string{
			e.Name,
			truncate.StringWithTail(e.Positive, listColumnWidth, "…"),
			truncate.StringWithTail(e.Negative, listColumnWidth, "…"),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return false, err
	}
	fmt.Fprintln(env.Out, out)
	fmt.Fprintf(env.Out, "%d styles\n", table.Len())
	return false, nil
}

func handleShow(env *Env, args string) (bool, error) {
	if err := requireArg(args, "/show <name>"); err != nil {
		return false, err
	}
	p, err := styles.ResolveOne(env.State.Table(), args)
	if err != nil {
		return false, err
	}
	env.Colors.Name.Fprintln(env.Out, args)
	printPrompt(env, p)
	return false, nil
}

func handleUse(env *Env, args string) (bool, error) {
	if err := requireArg(args, "/use <name>"); err != nil {
		return false, err
	}
	p, err := styles.ResolveOne(env.State.Table(), args)
	if err != nil {
		return false, err
	}
	env.State.Selected = []string{args}
	env.Colors.Success.Fprintf(env.Out, "✓ Using %s\n", args)
	printPrompt(env, p)
	return false, nil
}

func handleSelect(env *Env, args string) (bool, error) {
	var keys []string
	if args != "" {
		keys = styles.SplitKeys(args)
	} else {
		if env.Picker == nil {
			return false, errors.New("no interactive picker available, pass keys: /select a, b")
		}
		names := env.State.Table().Names()
		if len(names) == 0 {
			return false, errors.New("no styles to select from")
		}
		picked, err := env.Picker(names, env.State.Selected)
		if err != nil {
			return false, fmt.Errorf("selection cancelled: %w", err)
		}
		keys = picked
	}

	env.State.Selected = keys
	for _, name := range env.State.Unknown() {
		env.Colors.Error.Fprintf(env.Out, "! Unknown style %q is skipped\n", name)
	}
	env.Colors.Success.Fprintf(env.Out, "✓ Selected: %s\n", strings.Join(keys, ", "))
	printPrompt(env, env.State.Resolve())
	return false, nil
}

func handleManual(env *Env, args string) (bool, error) {
	switch strings.ToLower(args) {
	case "":
	case "on":
		env.State.ManualEnabled = true
	case "off":
		env.State.ManualEnabled = false
	default:
		return false, errors.New("usage: /manual on|off")
	}
	status := "off"
	if env.State.ManualEnabled {
		status = "on"
	}
	env.Colors.Success.Fprintf(env.Out, "✓ Manual override %s\n", status)
	if env.State.ManualEnabled {
		printPrompt(env, env.State.Manual)
	}
	return false, nil
}

func handlePositive(env *Env, args string) (bool, error) {
	env.State.Manual.Positive = args
	reportManual(env, "positive", args)
	return false, nil
}

func handleNegative(env *Env, args string) (bool, error) {
	env.State.Manual.Negative = args
	reportManual(env, "negative", args)
	return false, nil
}

func reportManual(env *Env, field, text string) {
	if text == "" {
		env.Colors.Success.Fprintf(env.Out, "✓ Manual %s prompt cleared\n", field)
	} else {
		env.Colors.Success.Fprintf(env.Out, "✓ Manual %s prompt set\n", field)
	}
	if !env.State.ManualEnabled {
		fmt.Fprintln(env.Out, "  (manual override is off, enable it with /manual on)")
	}
}

func handleResolve(env *Env, _ string) (bool, error) {
	selected := "(none)"
	if len(env.State.Selected) > 0 {
		selected = strings.Join(env.State.Selected, ", ")
	}
	fmt.Fprintf(env.Out, "Selected: %s\n", selected)
	if env.State.ManualEnabled {
		fmt.Fprintln(env.Out, "Manual override: on")
	}
	printPrompt(env, env.State.Resolve())
	return false, nil
}

func handleFiles(env *Env, _ string) (bool, error) {
	files, err := env.State.Multi.Files()
	if err != nil {
		return false, err
	}

	current := env.State.File()
	marker := func(open bool) string {
		if open {
			return "*"
		}
		return " "
	}
	fmt.Fprintln(env.Out, env.Colors.Header.Sprint("Style files:"))
	fmt.Fprintf(env.Out, " %s %s (%s)\n", marker(current == ""), DefaultFile, env.State.Default.Reloader().Path())
	for _, f := range files {
		fmt.Fprintf(env.Out, " %s %s\n", marker(f == current), f)
	}
	if len(files) == 0 {
		fmt.Fprintf(env.Out, "   no .csv files in %s\n", env.State.Multi.Dir())
	}
	return false, nil
}

func handleOpen(env *Env, args string) (bool, error) {
	if err := requireArg(args, "/open <file>|default"); err != nil {
		return false, err
	}
	if err := env.State.Open(args); err != nil {
		return false, err
	}
	name := env.State.File()
	if name == "" {
		name = catalog.DefaultStylesFile
	}
	env.Colors.Success.Fprintf(env.Out, "✓ Opened %s (%d styles)\n", name, env.State.Table().Len())
	return false, nil
}

func handleRefresh(env *Env, _ string) (bool, error) {
	table := env.State.Current().Refresh()
	if err := table.Err(); err != nil {
		return false, err
	}
	env.Colors.Success.Fprintf(env.Out, "✓ Reloaded %d styles\n", table.Len())
	if rowErrors := table.RowErrors(); len(rowErrors) > 0 {
		env.Colors.Error.Fprintf(env.Out, "! %d malformed rows skipped\n", len(rowErrors))
		if env.State.Debug {
			for _, re := range rowErrors {
				fmt.Fprintf(env.Out, "    %s\n", re.Error())
			}
		}
	}
	return false, nil
}

func handleGenerate(env *Env, _ string) (bool, error) {
	if env.Generator == nil {
		return false, errors.New("image generation is not configured (set OPENAI_API_KEY)")
	}
	p := env.State.Resolve()
	if p.Positive == "" {
		return false, errors.New("nothing to generate, select styles or set a manual positive prompt first")
	}

	fmt.Fprintln(env.Out, "Generating image...")
	res, err := env.Generator.Generate(env.Ctx, p)
	if err != nil {
		return false, err
	}
	env.Colors.Success.Fprintf(env.Out, "✓ Image: %s\n", res.URL)
	if res.RevisedPrompt != "" && env.State.Debug {
		fmt.Fprintf(env.Out, "  revised prompt: %s\n", res.RevisedPrompt)
	}
	return false, nil
}

func handleDebug(env *Env, _ string) (bool, error) {
	env.State.Debug = !env.State.Debug
	if env.State.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		env.Colors.Success.Fprintln(env.Out, "✓ Debug mode enabled")
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		env.Colors.Success.Fprintln(env.Out, "✓ Debug mode disabled")
	}
	return false, nil
}

func handleQuit(_ *Env, _ string) (bool, error) {
	return true, nil
}
