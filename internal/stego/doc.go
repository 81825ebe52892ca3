// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package stego orchestrates hide/extract requests against a remote
// steganography service. It validates a FormState snapshot, builds the wire
// request for the configured backend contract (multipart upload or JSON path
// reference), executes exactly one HTTP request, interprets the response into
// an Outcome and, for a binary hide result, hands the image to a Saver.
//
// The embedding algorithm and password handling live entirely in the service.
package stego
