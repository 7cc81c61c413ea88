// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Scale   key.Binding
	Window  key.Binding
	Theme   key.Binding
	FFTUp   key.Binding
	FFTDown key.Binding
	Clear   key.Binding
	Pause   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Scale:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scale")),
		Window:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		FFTUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "fft up")),
		FFTDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fft down")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scale, k.Window, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Scale, k.Window, k.Theme},
		{k.FFTUp, k.FFTDown},
		{k.Clear, k.Pause},
		{k.Help, k.Quit},
	}
}
