// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import (
	"context"
	"sync"
)

// mockExecutor records every spec it is asked to execute.
type mockExecutor struct {
	mu          sync.Mutex
	specs       []RequestSpec
	executeFunc func(ctx context.Context, spec RequestSpec) (RawResponse, error)
}

func (m *mockExecutor) Execute(ctx context.Context, spec RequestSpec) (RawResponse, error) {
	m.mu.Lock()
	m.specs = append(m.specs, spec)
	m.mu.Unlock()
	if m.executeFunc == nil {
		return RawResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{}`)}, nil
	}
	return m.executeFunc(ctx, spec)
}

func (m *mockExecutor) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.specs)
}

// respond returns an executor that always answers with the given response.
func respond(status int, contentType string, body []byte) *mockExecutor {
	return &mockExecutor{
		executeFunc: func(ctx context.Context, spec RequestSpec) (RawResponse, error) {
			return RawResponse{StatusCode: status, ContentType: contentType, Body: body}, nil
		},
	}
}

// mockSaver keeps a copy of every payload it is handed.
type mockSaver struct {
	names []string
	saved [][]byte
	err   error
}

func (m *mockSaver) Save(name string, data []byte) (string, error) {
	m.names = append(m.names, name)
	cp := make([]byte, len(data))
	copy(cp, data)
	m.saved = append(m.saved, cp)
	if m.err != nil {
		return "", m.err
	}
	return "/downloads/" + name, nil
}

// mockBuilder lets a test control Build.
type mockBuilder struct {
	mode      Mode
	buildFunc func(in ValidatedInput) (RequestSpec, error)
}

func (m *mockBuilder) Mode() Mode { return m.mode }

func (m *mockBuilder) Build(in ValidatedInput) (RequestSpec, error) {
	return m.buildFunc(in)
}
