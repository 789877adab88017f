// Package ui is the full-screen style picker: a list of styles to toggle,
// a preview of the combined prompts and a line for slash commands.
package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"promptstyles/internal/commands"
	"promptstyles/internal/styles"
	"promptstyles/internal/theme"
	"promptstyles/internal/watch"
)

// UI owns the picker components and lifecycle.
type UI struct {
	app      *tview.Application
	state    *commands.State
	registry *commands.Registry
	env      *commands.Env
	theme    *theme.Theme

	header  *tview.TextView
	list    *tview.Table
	preview *tview.TextView
	output  *tview.TextView
	input   *tview.InputField
	flex    *tview.Flex
	pages   *tview.Pages

	history *History

	reloads    chan struct{}
	subscribed map[*watch.Reloader]bool

	bgWG sync.WaitGroup
}

// New constructs a UI with all widgets and handlers wired. env.Out is
// replaced by the output pane.
func New(env *commands.Env, registry *commands.Registry, tuiTheme *theme.Theme, historyFile string) *UI {
	ui := &UI{
		app:        tview.NewApplication(),
		state:      env.State,
		registry:   registry,
		env:        env,
		theme:      tuiTheme,
		reloads:    make(chan struct{}, 1),
		subscribed: make(map[*watch.Reloader]bool),
	}

	ui.history = NewHistory(LoadHistoryFromFile(historyFile))

	ui.buildLayout()
	ui.env.Out = tview.ANSIWriter(ui.output)
	ui.wireCommands()
	ui.setupListHandlers()
	ui.setupInputHandlers()
	ui.setupGlobalInputCapture()
	ui.watchReloader(ui.state.Current())

	ui.refreshList()
	ui.refreshPreview()
	return ui
}

// Run starts the TUI and blocks until the application stops or ctx is cancelled.
func (ui *UI) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ui.env.Ctx = runCtx
	ui.startBackgroundWorkers(runCtx)

	ui.app.SetRoot(ui.pages, true)
	ui.app.SetFocus(ui.list)

	go func() {
		<-runCtx.Done()
		ui.app.Stop()
	}()

	err := ui.app.Run()
	cancel()
	ui.bgWG.Wait()
	return err
}

func (ui *UI) startBackgroundWorkers(ctx context.Context) {
	ui.bgWG.Add(1)
	go func() {
		defer ui.bgWG.Done()
		ui.runReloadListener(ctx)
	}()
}

// runReloadListener redraws the list whenever the open file is reloaded.
func (ui *UI) runReloadListener(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ui.reloads:
			ui.app.QueueUpdateDraw(func() {
				ui.refreshList()
				ui.refreshPreview()
			})
		}
	}
}

func (ui *UI) watchReloader(r *watch.Reloader) {
	if r == nil || ui.subscribed[r] {
		return
	}
	ui.subscribed[r] = true
	r.Subscribe(func(watch.Snapshot) {
		select {
		case ui.reloads <- struct{}{}:
		default:
		}
	})
}

func (ui *UI) buildLayout() {
	ui.header = tview.NewTextView().
		SetText("promptstyles - style picker\nSpace/Enter: toggle | Tab: commands | Ctrl+R: reload | Ctrl+Q: quit").
		SetTextColor(theme.TUIColor(ui.theme.HeaderColor)).
		SetDynamicColors(true)

	ui.list = tview.NewTable().
		SetSelectable(true, false).
		SetSelectedStyle(tcell.StyleDefault.
			Foreground(tcell.ColorBlack).
			Background(theme.TUIColor(ui.theme.SelectionColor)))
	ui.list.SetBorder(true).
		SetBorderColor(theme.TUIColor(ui.theme.BorderColor)).
		SetTitle(" Styles ")

	ui.preview = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	ui.preview.SetBorder(true).
		SetBorderColor(theme.TUIColor(ui.theme.BorderColor)).
		SetTitle(" Prompt ")

	ui.output = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	ui.output.SetBorder(true).
		SetBorderColor(theme.TUIColor(ui.theme.BorderColor)).
		SetTitle(" Output ")

	ui.input = tview.NewInputField().
		SetLabel("❯ ").
		SetLabelColor(theme.TUIColor(ui.theme.StyleNameColor)).
		SetPlaceholder("/help for commands").
		SetFieldBackgroundColor(tcell.ColorDefault)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.preview, 0, 2, false).
		AddItem(ui.output, 0, 1, false)

	columns := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.list, 0, 1, true).
		AddItem(right, 0, 2, false)

	ui.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.header, 2, 1, false).
		AddItem(columns, 0, 1, true).
		AddItem(ui.input, 1, 1, false)

	ui.pages = tview.NewPages().
		AddPage("main", ui.flex, true, true)
}

// wireCommands adapts the console commands to the picker: /select without
// keys moves to the list, and switching files re-subscribes the list.
func (ui *UI) wireCommands() {
	if sel, ok := ui.registry.Lookup("select"); ok {
		next := sel.Handler
		ui.registry.Register("select", sel.Usage, sel.Description, func(env *commands.Env, args string) (bool, error) {
			if args == "" {
				ui.app.SetFocus(ui.list)
				return false, nil
			}
			return next(env, args)
		})
	}

	prev := ui.state.OnSwitch
	ui.state.OnSwitch = func(r *watch.Reloader) {
		if prev != nil {
			prev(r)
		}
		ui.watchReloader(r)
	}
}

func (ui *UI) setupListHandlers() {
	ui.list.SetSelectedFunc(func(row, _ int) {
		ui.toggleRow(row)
	})
	ui.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == ' ' {
			row, _ := ui.list.GetSelection()
			ui.toggleRow(row)
			return nil
		}
		if event.Key() == tcell.KeyTab {
			ui.app.SetFocus(ui.input)
			return nil
		}
		return event
	})
}

func (ui *UI) setupInputHandlers() {
	ui.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			ui.handleSubmit()
		case tcell.KeyEscape, tcell.KeyTab:
			ui.app.SetFocus(ui.list)
		}
	})
	ui.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			if prev, ok := ui.history.Prev(); ok {
				ui.input.SetText(prev)
			}
			return nil
		case tcell.KeyDown:
			if next, ok := ui.history.Next(); ok {
				ui.input.SetText(next)
			}
			return nil
		}
		return event
	})
}

func (ui *UI) setupGlobalInputCapture() {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlQ:
			ui.promptForQuit()
			return nil
		case tcell.KeyCtrlR:
			ui.state.Current().Refresh()
			return nil
		}
		return event
	})
}

func (ui *UI) styleNames() []string {
	return ui.state.Table().Names()
}

func (ui *UI) isSelected(name string) bool {
	for _, s := range ui.state.Selected {
		if s == name {
			return true
		}
	}
	return false
}

// toggleRow adds or removes the style on row from the selection. Styles
// are combined in the order they were picked.
func (ui *UI) toggleRow(row int) {
	names := ui.styleNames()
	if row < 0 || row >= len(names) {
		return
	}
	name := names[row]
	if name == styles.ErrorKey {
		return
	}

	if ui.isSelected(name) {
		kept := ui.state.Selected[:0:0]
		for _, s := range ui.state.Selected {
			if s != name {
				kept = append(kept, s)
			}
		}
		ui.state.Selected = kept
	} else {
		ui.state.Selected = append(ui.state.Selected, name)
	}

	ui.refreshList()
	ui.refreshPreview()
}

func (ui *UI) refreshList() {
	row, _ := ui.list.GetSelection()
	ui.list.Clear()

	title := " Styles "
	if f := ui.state.File(); f != "" {
		title = fmt.Sprintf(" Styles: %s ", f)
	}
	ui.list.SetTitle(title)

	nameColor := theme.TUIColor(ui.theme.StyleNameColor)
	for i, name := range ui.styleNames() {
		mark := "[ ]"
		if ui.isSelected(name) {
			mark = "[x]"
		}
		cell := tview.NewTableCell(tview.Escape(fmt.Sprintf(" %s %s ", mark, name))).SetExpansion(1)
		if name == styles.ErrorKey {
			cell.SetTextColor(theme.TUIColor(ui.theme.ErrorColor)).SetSelectable(false)
		} else {
			cell.SetTextColor(nameColor)
		}
		ui.list.SetCell(i, 0, cell)
	}

	if n := ui.list.GetRowCount(); n > 0 {
		if row >= n {
			row = n - 1
		}
		if row < 0 {
			row = 0
		}
		ui.list.Select(row, 0)
	}
}

func (ui *UI) refreshPreview() {
	p := ui.state.Resolve()

	var b strings.Builder
	if err := ui.state.Table().Err(); err != nil {
		fmt.Fprintf(&b, "[%s]%s[-]\n\n", ui.theme.ErrorColor, tview.Escape(err.Error()))
	}
	selected := "(none)"
	if len(ui.state.Selected) > 0 {
		selected = strings.Join(ui.state.Selected, ", ")
	}
	fmt.Fprintf(&b, "[%s]Selected:[-] %s\n", ui.theme.StyleNameColor, tview.Escape(selected))
	if ui.state.ManualEnabled {
		fmt.Fprintf(&b, "[%s]Manual override on[-]\n", ui.theme.SuccessColor)
	}
	fmt.Fprintf(&b, "\n[%s]Positive:[-]\n%s\n", ui.theme.PositiveColor, tview.Escape(p.Positive))
	fmt.Fprintf(&b, "\n[%s]Negative:[-]\n%s\n", ui.theme.NegativeColor, tview.Escape(p.Negative))
	if rowErrors := ui.state.Table().RowErrors(); len(rowErrors) > 0 {
		fmt.Fprintf(&b, "\n[%s]%d malformed rows skipped[-]\n", ui.theme.ErrorColor, len(rowErrors))
	}
	ui.preview.SetText(b.String())
}

func (ui *UI) handleSubmit() {
	text := strings.TrimSpace(ui.input.GetText())
	if text == "" {
		return
	}
	ui.input.SetText("")
	ui.history.Add(text)

	if !strings.HasPrefix(text, "/") {
		// plain text selects keys
		text = "/select " + text
	}

	ui.output.Clear()
	_, quit := ui.registry.Execute(ui.env, text)
	ui.output.ScrollToEnd()
	ui.refreshList()
	ui.refreshPreview()
	if quit {
		ui.app.Stop()
	}
}

func (ui *UI) promptForQuit() {
	ui.showModalPromptAsync("quit-confirm", "Quit promptstyles?", []string{"Cancel", "Quit"}, ui.list, func(choice int) {
		if choice == 1 {
			ui.app.Stop()
		}
	})
}

func (ui *UI) showModalPromptAsync(name, text string, buttons []string, focusAfter tview.Primitive, onDone func(int)) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons(buttons)

	escapeIndex := resolveEscapeButton(buttons)
	doneOnce := sync.Once{}
	finish := func(buttonIndex int) {
		doneOnce.Do(func() {
			ui.pages.RemovePage(name)
			if focusAfter != nil {
				ui.app.SetFocus(focusAfter)
			}
			if onDone != nil {
				onDone(buttonIndex)
			}
		})
	}

	modal.SetDoneFunc(func(buttonIndex int, _ string) {
		finish(buttonIndex)
	})
	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			finish(escapeIndex)
			return nil
		}
		return event
	})

	ui.pages.RemovePage(name)
	ui.pages.AddPage(name, modal, true, true)
	ui.app.SetFocus(modal)
}

func resolveEscapeButton(buttons []string) int {
	for i, b := range buttons {
		if strings.Contains(strings.ToLower(b), "cancel") {
			return i
		}
	}
	return 0
}
