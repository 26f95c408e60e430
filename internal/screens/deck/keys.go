package deck

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/quizdeck/internal/ui/layout"
)

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Option key.Binding
	Submit key.Binding
	Tab    key.Binding
	Jump   key.Binding
	Scroll key.Binding
	Retake key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "option up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "option down")),
		Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "choose")),
		Option: key.NewBinding(key.WithKeys("a", "b", "c", "d"), key.WithHelp("a-d", "choose option")),
		Submit: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit / result")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "quiz/result")),
		Jump:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"), key.WithHelp("0-9", "go to slide number")),
		Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll code")),
		Retake: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retake"), key.WithDisabled()),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Choose, k.Submit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump, k.Tab},
		{k.Up, k.Down, k.Choose, k.Option},
		{k.Submit, k.Retake, k.Scroll},
		{k.Help, k.Quit},
	}
}

func hints(bindings []key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		out = append(out, layout.KeyHint{Key: b.Help().Key, Description: b.Help().Desc})
	}
	return out
}
