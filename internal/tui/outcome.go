// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/toeirei/stegx/internal/i18n"
	"github.com/toeirei/stegx/internal/stego"
)

// DescribeOutcome renders the user-facing text of out in the active
// language. Text that came from the service is shown as sent.
func DescribeOutcome(out stego.Outcome) string {
	switch out.Kind {
	case stego.OutcomeNone:
		return ""
	case stego.OutcomeSuccess:
		switch {
		case out.SavedPath != "":
			return i18n.T("outcome.hidden_downloaded", out.SavedPath)
		case out.Message == stego.MessageHidden:
			return i18n.T("outcome.hidden")
		}
		return out.Message
	case stego.OutcomeSuccessWithPayload:
		return i18n.T("outcome.image_received")
	case stego.OutcomeSuccessWithExtracted:
		return i18n.T("outcome.extracted")
	}
	return describeFailure(out)
}

func describeFailure(out stego.Outcome) string {
	var (
		verr *stego.ValidationError
		cerr *stego.ConfigError
		serr *stego.SaveError
		merr *stego.MalformedResponseError
		herr *stego.ServerError
		nerr *stego.NetworkError
	)
	switch {
	case errors.As(out.Err, &verr):
		names := make([]string, len(verr.Missing))
		for i, f := range verr.Missing {
			names[i] = i18n.T("outcome.field." + f)
		}
		return i18n.T("outcome.missing_fields", strings.Join(names, ", "))
	case errors.As(out.Err, &cerr):
		return i18n.T("outcome.config_error", cerr.Reason)
	case errors.As(out.Err, &serr):
		return i18n.T("outcome.save_failed", serr.Name, serr.Err)
	case errors.As(out.Err, &merr):
		return i18n.T("outcome.malformed")
	case errors.As(out.Err, &herr):
		if herr.Fallback {
			return strings.TrimSpace(i18n.T("outcome.status", herr.StatusCode, http.StatusText(herr.StatusCode)))
		}
		return herr.Message
	case errors.Is(out.Err, context.Canceled):
		return i18n.T("outcome.cancelled")
	case errors.As(out.Err, &nerr), out.Message == stego.MessageTransportFailure:
		return i18n.T("outcome.transport_failure")
	}
	return out.Message
}
