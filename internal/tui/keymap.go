// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/stegx/internal/i18n"
)

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Enter     key.Binding
	Submit    key.Binding
	SwitchTab key.Binding
	Copy      key.Binding
	Quit      key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Next, km.Enter, km.SwitchTab, km.Copy, km.Quit}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Next, km.Prev, km.Enter, km.Submit},
		{km.SwitchTab, km.Copy, km.Quit},
	}
}

// keyMap implements help.KeyMap
var _ help.KeyMap = keyMap{}

// newKeyMap builds the bindings with help texts in the active language.
func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", i18n.T("keys.next")),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", i18n.T("keys.prev")),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T("keys.enter")),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", i18n.T("keys.submit")),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("ctrl+t", "f2"),
			key.WithHelp("ctrl+t", i18n.T("keys.switch_tab")),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", i18n.T("keys.copy")),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", i18n.T("keys.quit")),
		),
	}
}
