// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/toeirei/stegx/internal/config"
	"github.com/toeirei/stegx/internal/i18n"
	"github.com/toeirei/stegx/internal/stego"
	"github.com/toeirei/stegx/internal/tui"
)

// runCLI executes a fresh root command with args, isolated from the user's
// config and terminal.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	i18n.Init("en")

	origRead := readPassword
	readPassword = func(func()) ([]byte, bool, error) { return nil, false, nil }
	t.Cleanup(func() { readPassword = origRead })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCover(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cover.png")
	if err := imaging.Save(imaging.New(8, 8, color.White), path); err != nil {
		t.Fatalf("save cover: %v", err)
	}
	return path
}

func TestHideUpload_SavesReturnedImage(t *testing.T) {
	stegoImage := []byte("\x89PNG\r\n\x1a\nstego-bytes")
	var gotMessage, gotPassword, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/steganography/hide" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotMessage, gotPassword = r.FormValue("message"), r.FormValue("password")
		if _, fh, err := r.FormFile("image"); err == nil {
			gotFile = fh.Filename
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(stegoImage)
	}))
	defer srv.Close()

	downloads := t.TempDir()
	out, err := runCLI(t, "hide", "--base-url", srv.URL, "--download.dir", downloads,
		"--image", writeCover(t), "--message", "meet at noon", "--password", "pw")
	if err != nil {
		t.Fatalf("hide failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "downloaded") {
		t.Fatalf("expected download message, got %q", out)
	}
	if gotMessage != "meet at noon" || gotPassword != "pw" || gotFile != "cover.png" {
		t.Fatalf("server saw message=%q password=%q file=%q", gotMessage, gotPassword, gotFile)
	}

	saved, err := os.ReadFile(filepath.Join(downloads, "stego_image.png"))
	if err != nil {
		t.Fatalf("read saved image: %v", err)
	}
	if !bytes.Equal(saved, stegoImage) {
		t.Fatalf("saved image differs from response body")
	}
}

func TestExtractPathMode_PrintsMessage(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"secret text"}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "extract", "--profile", "path", "--base-url", srv.URL, "--image", "/srv/stego.png", "-p", "pw")
	if err != nil {
		t.Fatalf("extract failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Extracted message: secret text") {
		t.Fatalf("unexpected output %q", out)
	}
	if body != `{"image_path":"/srv/stego.png","password":"pw"}` {
		t.Fatalf("unexpected request body %s", body)
	}
}

func TestHidePathMode_DefaultOutput(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Message hidden successfully! Image downloaded."}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "hide", "--mode", "path", "--base-url", srv.URL, "--image", "in.png", "--message", "hi", "--password", "pw")
	if err != nil {
		t.Fatalf("hide failed: %v\n%s", err, out)
	}
	want := `{"input_image":"in.png","output_image":"stego_image.png","message":"hi","password":"pw"}`
	if body != want {
		t.Fatalf("body = %s, want %s", body, want)
	}
	if !strings.Contains(out, "Message hidden successfully!") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExtract_ServerErrorExitsNonZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad password"}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, "extract", "--base-url", srv.URL, "--image", writeCover(t), "--password", "nope")
	if err == nil || err.Error() != "bad password" {
		t.Fatalf("expected bad password error, got %v", err)
	}
}

func TestHide_MissingPasswordSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := runCLI(t, "hide", "--base-url", srv.URL, "--image", writeCover(t), "--message", "hi")
	if err == nil || err.Error() != "missing required field: password" {
		t.Fatalf("expected validation error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("validation failure must not reach the server, got %d requests", hits.Load())
	}
}

func TestHide_PromptsForPassword(t *testing.T) {
	var gotPassword string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		gotPassword = r.FormValue("password")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	orig := readPassword
	prompted := false
	readPassword = func(prompt func()) ([]byte, bool, error) {
		prompted = true
		prompt()
		return []byte("typed"), true, nil
	}
	defer func() { readPassword = orig }()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"hide", "--base-url", srv.URL, "--image", writeCover(t), "--message", "hi"})
	if err := root.Execute(); err != nil {
		t.Fatalf("hide failed: %v\n%s", err, out.String())
	}
	if !prompted || gotPassword != "typed" {
		t.Fatalf("prompted=%v password=%q", prompted, gotPassword)
	}
	if !strings.Contains(out.String(), "Password: ") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestExtract_CopyFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"to clipboard"}`))
	}))
	defer srv.Close()

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	defer func() { writeClipboard = orig }()

	if _, err := runCLI(t, "extract", "--mode", "path", "--base-url", srv.URL, "--image", "x.png", "--password", "pw", "--copy"); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if copied != "to clipboard" {
		t.Fatalf("clipboard got %q", copied)
	}

	writeClipboard = func(string) error { return errors.New("no display") }
	out, err := runCLI(t, "extract", "--mode", "path", "--base-url", srv.URL, "--image", "x.png", "--password", "pw", "--copy")
	if err != nil {
		t.Fatalf("a clipboard failure must not fail the command: %v", err)
	}
	if !strings.Contains(out, "no display") {
		t.Fatalf("clipboard failure not reported: %q", out)
	}
}

func TestTransportFailureMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := runCLI(t, "extract", "--mode", "path", "--base-url", url, "--image", "x.png", "--password", "pw")
	if err == nil || err.Error() != "An error occurred while processing your request" {
		t.Fatalf("expected generic transport error, got %v", err)
	}
}

func TestHide_OutputRequiresPathMode(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := runCLI(t, "hide", "--base-url", srv.URL, "--image", writeCover(t), "--message", "hi", "--password", "pw", "--output", "mine.png")
	if err == nil || !strings.Contains(err.Error(), "only applies in path mode") {
		t.Fatalf("expected --output rejection, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("rejected flags must not reach the server, got %d requests", hits.Load())
	}
}

func TestFailureMessageIsLocalized(t *testing.T) {
	defer i18n.Init("en")
	_, err := runCLI(t, "hide", "--language", "de", "--base-url", "http://127.0.0.1:1", "--image", writeCover(t), "--message", "hi")
	if err == nil || err.Error() != "Pflichtfeld fehlt: Passwort" {
		t.Fatalf("expected German validation error, got %v", err)
	}
}

func TestNonImageWarningIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"plain"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("just some text"), 0o600); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(dir, "stegx.log")

	out, err := runCLI(t, "extract", "--log.file", logPath, "--base-url", srv.URL, "--image", notes, "--password", "pw")
	if err != nil {
		t.Fatalf("extract failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "does not look like an image") {
		t.Fatalf("advisory notice missing: %q", out)
	}
	logged, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logged), "not an image") {
		t.Fatalf("warning not logged: %s", logged)
	}
}

func TestProfileErrors(t *testing.T) {
	if _, err := runCLI(t, "extract", "--profile", "nope", "--image", "x", "--password", "pw"); err == nil || !strings.Contains(err.Error(), "unknown profile") {
		t.Fatalf("expected unknown profile error, got %v", err)
	}
	if _, err := runCLI(t, "extract", "--profile", "origin", "--image", "x", "--password", "pw"); err == nil || !strings.Contains(err.Error(), "--base-url") {
		t.Fatalf("expected missing base URL error, got %v", err)
	}
	if _, err := runCLI(t, "extract", "--mode", "grpc", "--base-url", "http://x", "--image", "x", "--password", "pw"); err == nil || !strings.Contains(err.Error(), "unknown mode") {
		t.Fatalf("expected unknown mode error, got %v", err)
	}
}

func TestMissingImageFile(t *testing.T) {
	_, err := runCLI(t, "hide", "--base-url", "http://127.0.0.1:1", "--image", filepath.Join(t.TempDir(), "nope.png"), "--message", "m", "--password", "pw")
	if err == nil || !strings.Contains(err.Error(), "could not load image") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestConfigFile_CustomProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"from profile"}`))
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := "profile: lab\nprofiles:\n  lab:\n    mode: path\n    base-url: " + srv.URL + "\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", cfgPath, "extract", "--image", "x.png", "--password", "pw")
	if err != nil {
		t.Fatalf("extract failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "from profile") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConfigFlag_MissingFile(t *testing.T) {
	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "version")
	if err == nil || !strings.Contains(err.Error(), "--config") {
		t.Fatalf("expected config flag error, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	i18n.Init("en")

	run := func(args ...string) (string, error) {
		root := NewRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}

	out, err := run("config", "init", "--profile", "path")
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	path, err := config.GetConfigPath(false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("expected written path in output, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "profile: path") {
		t.Fatalf("written config lacks profile: %s", data)
	}

	if _, err := run("config", "init"); err == nil {
		t.Fatal("second init without --force should fail")
	}
	if _, err := run("config", "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}

	out, err = run("config", "show", "--profile", "path")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "http://127.0.0.1:5000") || !strings.Contains(out, "language: en") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}

func TestRootLaunchesTUI(t *testing.T) {
	var got tui.Options
	orig := runTUI
	runTUI = func(ctx context.Context, opts tui.Options) error {
		got = opts
		return nil
	}
	defer func() { runTUI = orig }()

	if _, err := runCLI(t, "--profile", "path"); err != nil {
		t.Fatalf("root failed: %v", err)
	}
	if got.Hide == nil || got.Extract == nil {
		t.Fatal("controllers not passed to the TUI")
	}
	if got.Hide.Operation() != stego.Hide || got.Extract.Operation() != stego.Extract {
		t.Fatal("controllers swapped")
	}
	if got.Hide.Mode() != stego.ModePath || got.Profile != "path" || got.BaseURL != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected options %+v", got)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "version: ") || !strings.Contains(out, "commit: ") {
		t.Fatalf("unexpected version output %q", out)
	}
}
