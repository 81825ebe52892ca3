// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes caps how much of a response body is read into memory.
const maxResponseBytes = 256 << 20

// RawResponse is what the interpreter sees of an HTTP response.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Executor performs exactly one outbound request for a spec.
type Executor interface {
	Execute(ctx context.Context, spec RequestSpec) (RawResponse, error)
}

// HTTPExecutor executes specs with net/http. It never retries; a timeout is
// only applied when the client has one.
type HTTPExecutor struct {
	Client *http.Client
}

// NewHTTPExecutor returns an executor with the given client timeout. Zero
// means no timeout.
func NewHTTPExecutor(timeout time.Duration) *HTTPExecutor {
	return &HTTPExecutor{Client: &http.Client{Timeout: timeout}}
}

// Execute sends spec and reads the full response. Transport failures are
// returned as *NetworkError; HTTP error statuses are not errors here.
func (e *HTTPExecutor) Execute(ctx context.Context, spec RequestSpec) (RawResponse, error) {
	body, contentType, err := spec.Encode()
	if err != nil {
		return RawResponse{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, bytes.NewReader(body))
	if err != nil {
		return RawResponse{}, &NetworkError{Op: "request failed", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return RawResponse{}, &NetworkError{Op: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return RawResponse{}, &NetworkError{Op: "request failed", Err: err}
	}
	if len(data) > maxResponseBytes {
		return RawResponse{}, &NetworkError{Op: "request failed", Err: errors.New("response body too large")}
	}

	return RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
