// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-viper/mapstructure/v2"
	"github.com/toeirei/stegx/internal/i18n"
	"github.com/toeirei/stegx/internal/imagefile"
	"github.com/toeirei/stegx/internal/logging"
	"github.com/toeirei/stegx/internal/stego"
)

const (
	fieldImage    = "image"
	fieldMessage  = "message"
	fieldPassword = "password"
	fieldOutput   = "output"
)

// formValues is the decoded content of a tab's inputs.
type formValues struct {
	Image    string `mapstructure:"image"`
	Message  string `mapstructure:"message"`
	Password string `mapstructure:"password"`
	Output   string `mapstructure:"output"`
}

type formField struct {
	id    string
	label string
	input textinput.Model
}

// operationTab is the form of one operation plus the state of its last
// attempt.
type operationTab struct {
	title  string
	submit string
	ctrl   *stego.Controller
	fields []formField
	focus  int

	busy      bool
	outcome   stego.Outcome
	imageInfo string
	imageWarn bool
	notice    string
}

func newField(id, label, placeholder string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Width = 48
	ti.Prompt = ""
	ti.Cursor.Style = focusedStyle
	return formField{id: id, label: label, input: ti}
}

// newOperationTab lays out the inputs the controller's operation and mode
// need. The output field only exists for path-mode hides.
func newOperationTab(ctrl *stego.Controller) operationTab {
	t := operationTab{ctrl: ctrl}

	imagePlaceholder := i18n.T("form.image_placeholder")
	if ctrl.Mode() == stego.ModePath {
		imagePlaceholder = i18n.T("form.image_path_placeholder")
	}
	t.fields = append(t.fields, newField(fieldImage, i18n.T("form.image"), imagePlaceholder))

	if ctrl.Operation() == stego.Hide {
		t.title, t.submit = i18n.T("tab.hide"), i18n.T("form.submit_hide")
		t.fields = append(t.fields, newField(fieldMessage, i18n.T("form.message"), i18n.T("form.message_placeholder")))
	} else {
		t.title, t.submit = i18n.T("tab.extract"), i18n.T("form.submit_extract")
	}

	pw := newField(fieldPassword, i18n.T("form.password"), i18n.T("form.password_placeholder"))
	pw.input.EchoMode = textinput.EchoPassword
	pw.input.EchoCharacter = '•'
	t.fields = append(t.fields, pw)

	if ctrl.Operation() == stego.Hide && ctrl.Mode() == stego.ModePath {
		t.fields = append(t.fields, newField(fieldOutput, i18n.T("form.output"), i18n.T("form.output_placeholder")))
	}
	return t
}

func (t *operationTab) focusField(i int) tea.Cmd {
	for j := range t.fields {
		t.fields[j].input.Blur()
	}
	t.focus = i
	return t.fields[i].input.Focus()
}

func (t *operationTab) blur() {
	for j := range t.fields {
		t.fields[j].input.Blur()
	}
}

// move shifts focus by delta, wrapping around.
func (t *operationTab) move(delta int) tea.Cmd {
	n := len(t.fields)
	return t.focusField(((t.focus+delta)%n + n) % n)
}

func (t operationTab) onLastField() bool { return t.focus == len(t.fields)-1 }

func (t operationTab) focusedID() string { return t.fields[t.focus].id }

func (t *operationTab) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.fields[t.focus].input, cmd = t.fields[t.focus].input.Update(msg)
	return cmd
}

func (t operationTab) value(id string) string {
	for _, f := range t.fields {
		if f.id == id {
			return f.input.Value()
		}
	}
	return ""
}

func (t operationTab) values() map[string]any {
	values := make(map[string]any, len(t.fields))
	for _, f := range t.fields {
		values[f.id] = f.input.Value()
	}
	return values
}

// snapshot produces the immutable form handed to the controller. In upload
// mode the image file is read here.
func (t operationTab) snapshot() (stego.FormState, error) {
	var v formValues
	if err := mapstructure.Decode(t.values(), &v); err != nil {
		return stego.FormState{}, err
	}

	ref, _, err := imagefile.Resolve(t.ctrl.Mode(), v.Image)
	if err != nil {
		return stego.FormState{}, err
	}

	var form stego.FormState
	for _, ev := range []stego.FieldChanged{
		{Field: stego.FieldImage, Image: ref},
		{Field: stego.FieldMessage, Text: v.Message},
		{Field: stego.FieldPassword, Text: v.Password},
		{Field: stego.FieldOutputPath, Text: strings.TrimSpace(v.Output)},
	} {
		form = form.Apply(ev)
	}
	return form, nil
}

// setImageInfo records the advisory inspection result of the image field.
func (t *operationTab) setImageInfo(path string, info imagefile.Info, err error) {
	t.imageWarn = false
	switch {
	case err != nil:
		t.imageInfo = i18n.T("form.image_load_failed", err)
		t.imageWarn = true
	case !info.IsImage:
		logging.Warnf("%s is %s, not an image", path, info.MIMEType)
		t.imageInfo = i18n.T("form.image_not_image", path, info.MIMEType)
		t.imageWarn = true
	case info.Width > 0:
		t.imageInfo = i18n.T("form.image_info", info.MIMEType, info.Width, info.Height)
	default:
		t.imageInfo = info.MIMEType
	}
}

func (t operationTab) view(spinnerView string) string {
	var rows []string
	for i, f := range t.fields {
		label := labelStyle.Render(f.label)
		if i == t.focus {
			label = focusedStyle.Render(labelStyle.Render(f.label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, f.input.View()))
		if f.id == fieldImage && t.imageInfo != "" {
			style := helpStyle
			if t.imageWarn {
				style = specialStyle
			}
			rows = append(rows, labelStyle.Render("")+style.Render(t.imageInfo))
		}
	}

	if t.busy {
		rows = append(rows, busyButtonStyle.Render(t.submit), spinnerView+" "+i18n.T("app.processing"))
	} else {
		rows = append(rows, buttonStyle.Render(t.submit))
	}

	if out := t.outcomeView(); out != "" {
		rows = append(rows, "", out)
	}
	if t.notice != "" {
		rows = append(rows, statusMessageStyle.Render(t.notice))
	}
	return formPaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t operationTab) outcomeView() string {
	switch t.outcome.Kind {
	case stego.OutcomeFailure:
		return errorStyle.Render(fmt.Sprintf("%s: %s", i18n.T("result.failure"), DescribeOutcome(t.outcome)))
	case stego.OutcomeSuccessWithExtracted:
		card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Bold(true).Render(i18n.T("result.extracted_title")),
			t.outcome.Extracted,
		))
		return lipgloss.JoinVertical(lipgloss.Left, successStyle.Render(DescribeOutcome(t.outcome)), card)
	case stego.OutcomeSuccess, stego.OutcomeSuccessWithPayload:
		return successStyle.Render(DescribeOutcome(t.outcome))
	}
	return ""
}
