// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Encoding is the body format of a RequestSpec.
type Encoding int

const (
	EncodingMultipart Encoding = iota + 1
	EncodingJSON
)

func (e Encoding) String() string {
	switch e {
	case EncodingMultipart:
		return "multipart"
	case EncodingJSON:
		return "json"
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// Param is one named text field of a request body.
type Param struct {
	Name  string
	Value string
}

// FilePart is the binary file field of a multipart body.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// RequestSpec is the complete description of one outbound request. It is
// derived deterministically from the validated input and never mutated;
// Encode of equal specs yields byte-identical bodies.
type RequestSpec struct {
	Method   string
	URL      string
	Encoding Encoding
	Params   []Param
	File     *FilePart
}

// Param returns the value of the named text field.
func (s RequestSpec) Param(name string) (string, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// String renders the spec for logs with the password redacted.
func (s RequestSpec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)", s.Method, s.URL, s.Encoding)
	if s.File != nil {
		fmt.Fprintf(&b, " %s=<%s %d bytes>", s.File.FieldName, s.File.FileName, len(s.File.Data))
	}
	for _, p := range s.Params {
		v := p.Value
		if p.Name == "password" {
			v = "[SECRET]"
		}
		fmt.Fprintf(&b, " %s=%q", p.Name, v)
	}
	return b.String()
}

// Encode materializes the body and its Content-Type header value.
func (s RequestSpec) Encode() ([]byte, string, error) {
	switch s.Encoding {
	case EncodingJSON:
		return s.encodeJSON()
	case EncodingMultipart:
		return s.encodeMultipart()
	}
	return nil, "", fmt.Errorf("unsupported encoding %s", s.Encoding)
}

// encodeJSON writes Params as a JSON object in declaration order.
func (s RequestSpec) encodeJSON() ([]byte, string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s.Params {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Name)
		if err != nil {
			return nil, "", err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, "", err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), "application/json", nil
}

func (s RequestSpec) encodeMultipart() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(s.boundary()); err != nil {
		return nil, "", err
	}

	if s.File != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(s.File.FieldName), escapeQuotes(s.File.FileName)))
		h.Set("Content-Type", s.File.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(s.File.Data); err != nil {
			return nil, "", err
		}
	}
	for _, p := range s.Params {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// boundary derives the multipart boundary from the content so that the same
// spec always encodes to the same bytes.
func (s RequestSpec) boundary() string {
	h := sha256.New()
	h.Write([]byte(s.URL))
	if s.File != nil {
		h.Write([]byte(s.File.FileName))
		h.Write(s.File.Data)
	}
	for _, p := range s.Params {
		h.Write([]byte(p.Name))
		h.Write([]byte{0})
		h.Write([]byte(p.Value))
		h.Write([]byte{0})
	}
	return "stegx-" + hex.EncodeToString(h.Sum(nil))[:40]
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// RequestBuilder turns validated input into the wire request of one backend
// contract.
type RequestBuilder interface {
	Mode() Mode
	Build(in ValidatedInput) (RequestSpec, error)
}

// NewRequestBuilder returns the builder for mode. defaultOutput is used by
// path-reference hides that leave the output path empty.
func NewRequestBuilder(mode Mode, baseURL, defaultOutput string) (RequestBuilder, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeUpload:
		return &UploadBuilder{BaseURL: base}, nil
	case ModePath:
		return &PathBuilder{BaseURL: base, DefaultOutput: defaultOutput}, nil
	}
	return nil, &ConfigError{Reason: fmt.Sprintf("unknown mode %q", mode)}
}

func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return "", &ConfigError{Reason: fmt.Sprintf("invalid base URL %q: %v", raw, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &ConfigError{Reason: fmt.Sprintf("base URL %q must use http or https", raw)}
	}
	if u.Host == "" {
		return "", &ConfigError{Reason: fmt.Sprintf("base URL %q has no host", raw)}
	}
	return u.String(), nil
}

// UploadBuilder speaks the multipart upload contract:
// POST {base}/api/steganography/{hide|extract} with fields image, message
// (hide only) and password.
type UploadBuilder struct {
	BaseURL string
}

func (b *UploadBuilder) Mode() Mode { return ModeUpload }

func (b *UploadBuilder) Build(in ValidatedInput) (RequestSpec, error) {
	if !in.Image.IsFile() {
		return RequestSpec{}, &ConfigError{Reason: fmt.Sprintf("upload mode needs a picked image file, got %s", in.Image)}
	}

	f := in.Image.File
	contentType := f.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	spec := RequestSpec{
		Method:   http.MethodPost,
		URL:      b.BaseURL + "/api/steganography/" + in.Op.String(),
		Encoding: EncodingMultipart,
		File: &FilePart{
			FieldName:   "image",
			FileName:    filepath.Base(f.Name),
			ContentType: contentType,
			Data:        f.Data,
		},
	}
	if in.Op == Hide {
		spec.Params = append(spec.Params, Param{Name: "message", Value: in.Message})
	}
	spec.Params = append(spec.Params, Param{Name: "password", Value: in.Password.Reveal()})
	return spec, nil
}

// PathBuilder speaks the JSON path-reference contract: POST {base}/hide with
// {input_image, output_image, message, password} or POST {base}/extract with
// {image_path, password}.
type PathBuilder struct {
	BaseURL       string
	DefaultOutput string
}

func (b *PathBuilder) Mode() Mode { return ModePath }

func (b *PathBuilder) Build(in ValidatedInput) (RequestSpec, error) {
	if in.Image.IsFile() {
		return RequestSpec{}, &ConfigError{Reason: fmt.Sprintf("path-reference mode cannot send %s; give the image path on the server", in.Image)}
	}

	spec := RequestSpec{
		Method:   http.MethodPost,
		URL:      b.BaseURL + "/" + in.Op.String(),
		Encoding: EncodingJSON,
	}
	switch in.Op {
	case Hide:
		output := in.OutputPath
		if output == "" {
			output = b.DefaultOutput
		}
		spec.Params = []Param{
			{Name: "input_image", Value: in.Image.Path},
			{Name: "output_image", Value: output},
			{Name: "message", Value: in.Message},
			{Name: "password", Value: in.Password.Reveal()},
		}
	case Extract:
		spec.Params = []Param{
			{Name: "image_path", Value: in.Image.Path},
			{Name: "password", Value: in.Password.Reveal()},
		}
	default:
		return RequestSpec{}, &ConfigError{Reason: "unsupported operation " + in.Op.String()}
	}
	// JSON strings must be UTF-8; encoding/json would swap bad bytes for U+FFFD.
	for _, p := range spec.Params {
		if !utf8.ValidString(p.Value) {
			return RequestSpec{}, &ConfigError{Reason: p.Name + " is not valid UTF-8 and cannot be sent as JSON"}
		}
	}
	return spec, nil
}
