// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/toeirei/stegx/internal/i18n"
	"github.com/toeirei/stegx/internal/imagefile"
	"github.com/toeirei/stegx/internal/logging"
	"github.com/toeirei/stegx/internal/security"
	"github.com/toeirei/stegx/internal/stego"
	"github.com/toeirei/stegx/internal/tui"
	"golang.org/x/term"
)

// readPassword prompts on the terminal. ok is false when stdin is not a
// terminal. Swapped out in tests.
var readPassword = func(prompt func()) (pw []byte, ok bool, err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, false, nil
	}
	prompt()
	pw, err = term.ReadPassword(fd)
	return pw, true, err
}

var writeClipboard = clipboard.WriteAll

type operationFlags struct {
	image    string
	message  string
	password string
	output   string
	copy     bool
}

func newHideCmd(a *app) *cobra.Command {
	var f operationFlags
	cmd := &cobra.Command{
		Use:   "hide",
		Short: "Hide a message in an image",
		Long: `Sends the image, the message and the password to the service.
In upload mode the resulting image is saved to the download directory; in
path mode the service writes it to --output on its side.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOperation(cmd, stego.Hide, f)
		},
	}
	cmd.Flags().StringVarP(&f.image, "image", "i", "", "image file (upload mode) or image path on the server (path mode)")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "message to hide")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output image path on the server (path mode only)")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var f operationFlags
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a hidden message from an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOperation(cmd, stego.Extract, f)
		},
	}
	cmd.Flags().StringVarP(&f.image, "image", "i", "", "image file (upload mode) or image path on the server (path mode)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copy the extracted message to the clipboard")
	return cmd
}

// runOperation performs one attempt and reports its outcome. A failed
// attempt is returned as an error so the process exits non-zero.
func (a *app) runOperation(cmd *cobra.Command, op stego.Operation, f operationFlags) error {
	hide, extract, _, err := newControllers(a.cfg)
	if err != nil {
		return err
	}
	ctrl := extract
	if op == stego.Hide {
		ctrl = hide
	}

	form, err := a.buildForm(cmd, ctrl.Mode(), f)
	if err != nil {
		return err
	}
	defer form.Password.Zero()

	out, _ := ctrl.Submit(cmd.Context(), form)
	return report(cmd, out, f.copy)
}

func (a *app) buildForm(cmd *cobra.Command, mode stego.Mode, f operationFlags) (stego.FormState, error) {
	if f.output != "" && mode != stego.ModePath {
		return stego.FormState{}, errors.New(i18n.T("cli.error_output_mode"))
	}

	ref, info, err := imagefile.Resolve(mode, f.image)
	if err != nil {
		return stego.FormState{}, errors.New(i18n.T("cli.error_load_image", err))
	}
	if ref.IsFile() && !info.IsImage {
		logging.Warnf("%s is %s, not an image", f.image, info.MIMEType)
		fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("form.image_not_image", f.image, info.MIMEType))
	}

	password := security.FromString(f.password)
	if password.IsEmpty() {
		pw, ok, err := readPassword(func() { fmt.Fprint(cmd.ErrOrStderr(), i18n.T("cli.password_prompt")) })
		if err != nil {
			return stego.FormState{}, errors.New(i18n.T("cli.error_read_password", err))
		}
		if ok {
			fmt.Fprintln(cmd.ErrOrStderr())
			password = security.FromBytes(pw)
			security.Wipe(pw)
		}
	}

	return stego.FormState{
		Image:      ref,
		Message:    f.message,
		Password:   password,
		OutputPath: f.output,
	}, nil
}

func report(cmd *cobra.Command, out stego.Outcome, copyExtracted bool) error {
	if !out.OK() {
		return errors.New(tui.DescribeOutcome(out))
	}

	w := cmd.OutOrStdout()
	if out.Kind != stego.OutcomeSuccessWithExtracted {
		fmt.Fprintln(w, tui.DescribeOutcome(out))
		return nil
	}

	fmt.Fprintln(w, i18n.T("cli.extracted", out.Extracted))
	if copyExtracted {
		if err := writeClipboard(out.Extracted); err != nil {
			logging.Errorf("clipboard write failed: %v", err)
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("result.copy_failed", err))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("result.copied"))
		}
	}
	return nil
}
