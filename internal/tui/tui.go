// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides the terminal user interface for StegX: one tab per
// operation, each driving its own controller.
package tui // import "github.com/toeirei/stegx/internal/tui"

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/stegx/internal/i18n"
	"github.com/toeirei/stegx/internal/imagefile"
	"github.com/toeirei/stegx/internal/logging"
	"github.com/toeirei/stegx/internal/stego"
)

const (
	tabHide = iota
	tabExtract
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// outcomeMsg carries the result of a controller Submit back to the UI.
type outcomeMsg struct {
	tab      int
	outcome  stego.Outcome
	accepted bool
}

// imageInfoMsg carries the advisory inspection of a picked file.
type imageInfoMsg struct {
	tab  int
	path string
	info imagefile.Info
	err  error
}

// Options configure the application.
type Options struct {
	Hide    *stego.Controller
	Extract *stego.Controller
	Profile string
	BaseURL string
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	tabs    [2]operationTab
	active  int
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	profile string
	baseURL string
	width   int
}

// New builds the root model. ctx bounds every request the UI starts.
func New(ctx context.Context, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle

	m := Model{
		ctx:     ctx,
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: sp,
		profile: opts.Profile,
		baseURL: opts.BaseURL,
	}
	m.tabs[tabHide] = newOperationTab(opts.Hide)
	m.tabs[tabExtract] = newOperationTab(opts.Extract)
	m.tabs[tabHide].focusField(0)
	return m
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	_, err := tea.NewProgram(
		New(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.anyBusy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case outcomeMsg:
		if !msg.accepted {
			return m, nil
		}
		t := &m.tabs[msg.tab]
		t.busy = false
		t.outcome = msg.outcome
		return m, nil

	case imageInfoMsg:
		t := &m.tabs[msg.tab]
		if strings.TrimSpace(t.value(fieldImage)) == msg.path {
			t.setImageInfo(msg.path, msg.info, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmd := m.tabs[m.active].updateFocused(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := &m.tabs[m.active]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchTab):
		t.blur()
		m.active = 1 - m.active
		next := &m.tabs[m.active]
		return m, next.focusField(next.focus)

	case key.Matches(msg, m.keys.Next):
		return m, tea.Batch(m.leaveField(), t.move(1))

	case key.Matches(msg, m.keys.Prev):
		return m, tea.Batch(m.leaveField(), t.move(-1))

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Enter):
		if t.onLastField() {
			return m.submit()
		}
		return m, tea.Batch(m.leaveField(), t.move(1))

	case key.Matches(msg, m.keys.Copy):
		m.copyExtracted()
		return m, nil
	}

	return m, t.updateFocused(msg)
}

// leaveField inspects the picked file when focus leaves the image field in
// upload mode.
func (m Model) leaveField() tea.Cmd {
	t := m.tabs[m.active]
	if t.focusedID() != fieldImage || t.ctrl.Mode() != stego.ModeUpload {
		return nil
	}
	path := strings.TrimSpace(t.value(fieldImage))
	if path == "" {
		return nil
	}
	tab := m.active
	return func() tea.Msg {
		_, info, err := imagefile.Load(path)
		return imageInfoMsg{tab: tab, path: path, info: info, err: err}
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	t := &m.tabs[m.active]
	if t.busy {
		t.notice = i18n.T("result.busy")
		return m, nil
	}
	t.notice = ""

	form, err := t.snapshot()
	if err != nil {
		t.outcome = stego.Failure(i18n.T("form.image_load_failed", err), err)
		return m, nil
	}

	t.busy = true
	t.outcome = stego.Outcome{}
	ctx, ctrl, tab := m.ctx, t.ctrl, m.active
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		out, accepted := ctrl.Submit(ctx, form)
		return outcomeMsg{tab: tab, outcome: out, accepted: accepted}
	})
}

func (m *Model) copyExtracted() {
	t := &m.tabs[m.active]
	if t.outcome.Kind != stego.OutcomeSuccessWithExtracted {
		return
	}
	if err := writeClipboard(t.outcome.Extracted); err != nil {
		logging.Errorf("clipboard write failed: %v", err)
		t.notice = i18n.T("result.copy_failed", err)
		return
	}
	t.notice = i18n.T("result.copied")
}

func (m Model) anyBusy() bool {
	for _, t := range m.tabs {
		if t.busy {
			return true
		}
	}
	return false
}

func (m Model) View() string {
	title := mainTitleStyle.Render(i18n.T("app.title"))

	var tabs []string
	for i, t := range m.tabs {
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(t.title))
		} else {
			tabs = append(tabs, tabStyle.Render(t.title))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var profile string
	if m.profile != "" {
		profile = helpStyle.Render(i18n.T("form.profile", m.profile, m.tabs[m.active].ctrl.Mode(), m.baseURL))
	}

	body := m.tabs[m.active].view(m.spinner.View())
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		profile,
		"",
		tabRow,
		body,
		m.help.View(m.keys),
	))
}
