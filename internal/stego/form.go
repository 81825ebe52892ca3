// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import (
	"fmt"

	"github.com/toeirei/stegx/internal/security"
)

// ImageFile is an image picked on the client and sent as a file upload.
// MIMEType is whatever the picker detected; it is advisory and never
// re-checked before submission.
type ImageFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ImageRef is either a picked file or a path string naming an image on the
// server. The zero value is empty.
type ImageRef struct {
	Path string
	File *ImageFile
}

// PathRef refers to an image by path.
func PathRef(path string) ImageRef { return ImageRef{Path: path} }

// FileRef refers to a picked file.
func FileRef(f *ImageFile) ImageRef { return ImageRef{File: f} }

// IsEmpty reports whether no image has been chosen.
func (r ImageRef) IsEmpty() bool { return r.File == nil && r.Path == "" }

// IsFile reports whether the reference carries file content.
func (r ImageRef) IsFile() bool { return r.File != nil }

func (r ImageRef) String() string {
	switch {
	case r.File != nil:
		return fmt.Sprintf("file %s (%d bytes)", r.File.Name, len(r.File.Data))
	case r.Path != "":
		return "path " + r.Path
	default:
		return "<none>"
	}
}

// FormState is the user-entered input for one operation. The presentation
// layer owns the only mutable copy; controllers receive a value snapshot per
// attempt.
type FormState struct {
	Image      ImageRef
	Message    string
	Password   security.Secret
	OutputPath string
}

// FormField names an input of the form.
type FormField int

const (
	FieldImage FormField = iota + 1
	FieldMessage
	FieldPassword
	FieldOutputPath
)

func (f FormField) String() string {
	switch f {
	case FieldImage:
		return "image"
	case FieldMessage:
		return "message"
	case FieldPassword:
		return "password"
	case FieldOutputPath:
		return "output"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// FieldChanged is emitted on every keystroke or file pick. Image is used for
// FieldImage, Text for everything else.
type FieldChanged struct {
	Field FormField
	Text  string
	Image ImageRef
}

// Apply returns a copy of the form with the change applied.
func (f FormState) Apply(ev FieldChanged) FormState {
	switch ev.Field {
	case FieldImage:
		f.Image = ev.Image
	case FieldMessage:
		f.Message = ev.Text
	case FieldPassword:
		f.Password = security.FromString(ev.Text)
	case FieldOutputPath:
		f.OutputPath = ev.Text
	}
	return f
}

// ValidatedInput is a FormState that passed Validate for Op. It is only
// produced by Validate.
type ValidatedInput struct {
	Op         Operation
	Image      ImageRef
	Message    string
	Password   security.Secret
	OutputPath string
}

// Validate checks that every field required by op is present. It performs
// no format checks on the values.
func Validate(op Operation, form FormState) (ValidatedInput, error) {
	var missing []string
	if form.Image.IsEmpty() {
		missing = append(missing, FieldImage.String())
	}
	if op == Hide && form.Message == "" {
		missing = append(missing, FieldMessage.String())
	}
	if form.Password.IsEmpty() {
		missing = append(missing, FieldPassword.String())
	}
	if len(missing) > 0 {
		return ValidatedInput{}, &ValidationError{Missing: missing}
	}

	switch op {
	case Hide, Extract:
	default:
		return ValidatedInput{}, &ConfigError{Reason: "unsupported operation " + op.String()}
	}

	return ValidatedInput{
		Op:         op,
		Image:      form.Image,
		Message:    form.Message,
		Password:   form.Password,
		OutputPath: form.OutputPath,
	}, nil
}
