// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package imagefile loads images picked on the client. Type detection and
// decoding are advisory: the result is shown to the user but never blocks a
// submission, the service decides what it accepts.
package imagefile

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/toeirei/stegx/internal/stego"
)

// MaxFileSize caps how much a picked file may weigh.
const MaxFileSize = 64 << 20

// Info is what could be learned about a picked file locally.
type Info struct {
	MIMEType string
	IsImage  bool
	Width    int
	Height   int
}

func (i Info) String() string {
	if i.Width > 0 && i.Height > 0 {
		return fmt.Sprintf("%s, %dx%d", i.MIMEType, i.Width, i.Height)
	}
	return i.MIMEType
}

// Load reads path into an ImageFile for upload.
func Load(path string) (*stego.ImageFile, Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, Info{}, err
	}
	if st.IsDir() {
		return nil, Info{}, fmt.Errorf("%s is a directory", path)
	}
	if st.Size() > MaxFileSize {
		return nil, Info{}, fmt.Errorf("%s is too large (%d bytes, limit %d)", path, st.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{}, err
	}
	info := Inspect(data)
	return &stego.ImageFile{Name: filepath.Base(path), MIMEType: info.MIMEType, Data: data}, info, nil
}

// Inspect sniffs the content type of data and, for images, decodes the
// dimensions.
func Inspect(data []byte) Info {
	mt := http.DetectContentType(data)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	info := Info{MIMEType: mt, IsImage: strings.HasPrefix(mt, "image/")}
	if !info.IsImage {
		return info
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return info
	}
	b := img.Bounds()
	info.Width, info.Height = b.Dx(), b.Dy()
	return info
}

// Resolve turns user input into the image reference the mode expects. In
// path mode the input names a file on the server and is passed through; in
// upload mode the file is read locally. Info is zero in path mode.
func Resolve(mode stego.Mode, input string) (stego.ImageRef, Info, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return stego.ImageRef{}, Info{}, nil
	}
	if mode == stego.ModePath {
		return stego.PathRef(input), Info{}, nil
	}
	f, info, err := Load(input)
	if err != nil {
		return stego.ImageRef{}, Info{}, err
	}
	return stego.FileRef(f), info, nil
}
