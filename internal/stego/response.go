// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeSuccess
	OutcomeSuccessWithPayload
	OutcomeSuccessWithExtracted
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeSuccess:
		return "success"
	case OutcomeSuccessWithPayload:
		return "success-with-payload"
	case OutcomeSuccessWithExtracted:
		return "success-with-extracted"
	case OutcomeFailure:
		return "failure"
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

// Outcome is the result of one attempt. Message is always the text to show
// the user; Payload is set for SuccessWithPayload, Extracted for
// SuccessWithExtracted and Err for Failure. SavedPath is where a returned
// image was written.
type Outcome struct {
	Kind      OutcomeKind
	Message   string
	Payload   []byte
	Extracted string
	SavedPath string
	Err       error
}

// OK reports whether the outcome is any success variant.
func (o Outcome) OK() bool {
	switch o.Kind {
	case OutcomeSuccess, OutcomeSuccessWithPayload, OutcomeSuccessWithExtracted:
		return true
	}
	return false
}

func (o Outcome) String() string { return o.Kind.String() + ": " + o.Message }

// MessageHidden is the success text used when the service sends none.
const MessageHidden = "Message hidden successfully!"

const (
	msgHiddenDownload = "Message hidden successfully! Image downloaded to %s"
	msgExtracted      = "Message extracted successfully!"
	msgImageReceived  = "Image received"
)

func Success(message string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Message: message}
}

func SuccessWithPayload(data []byte) Outcome {
	return Outcome{Kind: OutcomeSuccessWithPayload, Message: msgImageReceived, Payload: data}
}

func SuccessWithExtracted(text string) Outcome {
	return Outcome{Kind: OutcomeSuccessWithExtracted, Message: msgExtracted, Extracted: text}
}

func Failure(message string, err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: message, Err: err}
}

// errorFields are tried in order on error bodies. "detail" is what FastAPI
// backends put in HTTPException responses.
var errorFields = []string{"error", "message", "detail"}

// Interpret maps a raw response to an Outcome. It is pure: the same response
// always yields an equal Outcome.
func Interpret(op Operation, raw RawResponse) Outcome {
	if raw.StatusCode >= 200 && raw.StatusCode < 300 {
		return interpretSuccess(op, raw)
	}
	return interpretFailure(raw)
}

func interpretSuccess(op Operation, raw RawResponse) Outcome {
	if op == Hide && isBinary(raw.ContentType) {
		return SuccessWithPayload(raw.Body)
	}

	obj, err := decodeObject(raw.Body)
	if err != nil {
		merr := &MalformedResponseError{Err: err}
		return Failure(msgMalformedResponse, merr)
	}

	if op == Extract {
		v, ok := obj["message"]
		if !ok {
			return Failure(msgMalformedResponse, &MalformedResponseError{Err: errors.New(`missing "message" field`)})
		}
		text, ok := v.(string)
		if !ok {
			return Failure(msgMalformedResponse, &MalformedResponseError{Err: fmt.Errorf(`"message" is %T, not a string`, v)})
		}
		return SuccessWithExtracted(text)
	}

	if text, ok := obj["message"].(string); ok && text != "" {
		return Success(text)
	}
	return Success(MessageHidden)
}

func interpretFailure(raw RawResponse) Outcome {
	if obj, err := decodeObject(raw.Body); err == nil {
		for _, name := range errorFields {
			if text, ok := fieldText(obj[name]); ok {
				return Failure(text, &ServerError{StatusCode: raw.StatusCode, Message: text})
			}
		}
	}
	text := fmt.Sprintf("request failed with status %d", raw.StatusCode)
	if st := http.StatusText(raw.StatusCode); st != "" {
		text += " " + st
	}
	return Failure(text, &ServerError{StatusCode: raw.StatusCode, Message: text, Fallback: true})
}

func decodeObject(body []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("body is not a JSON object")
	}
	return obj, nil
}

// fieldText reads a string field, or the "msg" entries of a FastAPI
// validation error list.
func fieldText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case []any:
		var parts []string
		for _, item := range t {
			switch it := item.(type) {
			case string:
				parts = append(parts, it)
			case map[string]any:
				if msg, ok := it["msg"].(string); ok {
					parts = append(parts, msg)
				}
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, "; "), true
	}
	return "", false
}

// isBinary reports whether a content type should be treated as file content.
// A missing or unparseable type counts as binary.
func isBinary(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	switch {
	case mt == "application/json", strings.HasSuffix(mt, "+json"):
		return false
	case strings.HasPrefix(mt, "text/"):
		return false
	}
	return true
}
