// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for StegX using Cobra.
// It wires configuration, logging and i18n, builds the operation controllers
// for the selected profile and hands them to the TUI or to the one-shot
// hide/extract commands. Business logic stays in internal/stego.
package cli
