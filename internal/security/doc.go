// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package security keeps passwords and other sensitive buffers in wrappers
// that redact themselves when formatted or marshaled, and that can be zeroed
// once the value has been sent.
package security
