// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import "fmt"

// Operation is the request a controller performs.
type Operation int

const (
	Hide Operation = iota + 1
	Extract
)

func (o Operation) String() string {
	switch o {
	case Hide:
		return "hide"
	case Extract:
		return "extract"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// ParseOperation maps "hide"/"extract" to an Operation.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "hide":
		return Hide, nil
	case "extract":
		return Extract, nil
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// Mode selects the backend contract. It is fixed at configuration time.
type Mode string

const (
	// ModeUpload posts a multipart form with the image file to
	// {base}/api/steganography/{op}.
	ModeUpload Mode = "upload"
	// ModePath posts a JSON body naming image paths on the server to
	// {base}/{op}.
	ModePath Mode = "path"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeUpload, ModePath:
		return Mode(s), nil
	}
	return "", &ConfigError{Reason: fmt.Sprintf("unknown mode %q (want %q or %q)", s, ModeUpload, ModePath)}
}
