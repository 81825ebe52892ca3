// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import (
	"fmt"
	"strings"
)

// Messages used when the failure carries no server-provided text.
const (
	MessageTransportFailure = "An error occurred while processing your request"
	msgMalformedResponse    = "malformed response"
	msgCancelled            = "request cancelled"
)

// ValidationError lists required form fields that were empty. It is raised
// before any request is built.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + strings.Join(e.Missing, ", ")
}

// ConfigError reports a mismatch between the configured backend contract and
// the input, e.g. a picked file in path-reference mode.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Reason }

// NetworkError wraps a transport failure (DNS, refused connection, timeout,
// cancellation).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message is the text extracted from the
// body, or a status description when the body had none (Fallback is then
// true).
type ServerError struct {
	StatusCode int
	Message    string
	Fallback   bool
}

func (e *ServerError) Error() string { return e.Message }

// MalformedResponseError is a 2xx response whose body could not be read as
// the expected shape.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return msgMalformedResponse
	}
	return msgMalformedResponse + ": " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SaveError is returned when the image from a successful hide could not be
// written to the download directory.
type SaveError struct {
	Name string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("could not save %s: %v", e.Name, e.Err) }

func (e *SaveError) Unwrap() error { return e.Err }
