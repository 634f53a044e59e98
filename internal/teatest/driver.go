// Package teatest drives bubbletea models synchronously in tests: keys go
// straight to Update and returned commands run inline, so no tea.Program or
// terminal is needed.
package teatest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// maxChain bounds how many command results are fed back into Update for a
// single input.
const maxChain = 32

var namedKeys = map[string]tea.KeyType{
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"space":  tea.KeySpace,
	"ctrl+c": tea.KeyCtrlC,
}

// Driver holds the current model between inputs.
type Driver struct {
	t     *testing.T
	Model tea.Model

	// Quit is set once the model asks the program to exit; later input is
	// ignored.
	Quit bool
}

func New(t *testing.T, m tea.Model) *Driver {
	return &Driver{t: t, Model: m}
}

// Key builds the KeyMsg for a key name such as "left", "esc" or "]".
func Key(name string) tea.KeyMsg {
	if kt, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// Press sends each named key in order.
func (d *Driver) Press(names ...string) *Driver {
	d.t.Helper()
	for _, n := range names {
		d.Send(Key(n))
	}
	return d
}

// Send runs msg through Update and feeds any resulting messages back in.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	for i := 0; msg != nil && !d.Quit; i++ {
		if i == maxChain {
			d.t.Fatalf("teatest: model still producing messages after %d steps", maxChain)
		}
		next, cmd := d.Model.Update(msg)
		d.Model = next
		msg = d.run(cmd)
	}
}

// run executes cmd inline. Batches are flattened and only the last message
// is returned for chaining.
func (d *Driver) run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch m := msg.(type) {
	case tea.QuitMsg:
		d.Quit = true
		return nil
	case tea.BatchMsg:
		var last tea.Msg
		for _, c := range m {
			if out := d.run(c); out != nil {
				last = out
			}
		}
		return last
	}
	return msg
}

func (d *Driver) View() string {
	return d.Model.View()
}
