// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package terminal implements an interactive chat in the terminal.
//
// Text is rendered as markdown with glamour. Images are written to an image directory
// and announced by path.
package terminal

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/session"
	"github.com/go-a2a/adkchat/types"
)

// maxLineSize bounds one line of user input.
const maxLineSize = 1 << 20

// Turner runs one chat turn.
type Turner interface {
	Turn(ctx context.Context, c *session.Chat, text string) []normalize.Item
}

// ArtifactLister lists the artifacts of a chat. A [Turner] implementing it enables the
// /artifacts command.
type ArtifactLister interface {
	Artifacts(ctx context.Context, c *session.Chat) ([]types.ArtifactInfo, error)
}

// UI is a terminal chat.
type UI struct {
	turner   Turner
	in       io.Reader
	out      io.Writer
	chat     *session.Chat
	imageDir string
	style    string
	wrap     int
	renderer *glamour.TermRenderer
	images   int
	saved    map[[sha256.Size]byte]string
	logger   *slog.Logger
}

// Option configures a [UI].
type Option func(*UI)

// WithImageDir sets the directory images are written to.
func WithImageDir(dir string) Option {
	return func(u *UI) {
		u.imageDir = dir
	}
}

// WithStyle sets the glamour style, such as "dark", "light" or "notty".
func WithStyle(style string) Option {
	return func(u *UI) {
		u.style = style
	}
}

// WithWordWrap sets the column text is wrapped at.
func WithWordWrap(width int) Option {
	return func(u *UI) {
		u.wrap = width
	}
}

// WithChat continues an existing chat instead of starting a new one.
func WithChat(c *session.Chat) Option {
	return func(u *UI) {
		u.chat = c
	}
}

// WithLogger sets the logger for the [UI].
func WithLogger(logger *slog.Logger) Option {
	return func(u *UI) {
		u.logger = logger
	}
}

// New returns a [UI] reading user input from in and writing to out.
func New(turner Turner, in io.Reader, out io.Writer, opts ...Option) (*UI, error) {
	u := &UI{
		turner:   turner,
		in:       in,
		out:      out,
		imageDir: "images",
		wrap:     100,
		saved:    make(map[[sha256.Size]byte]string),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(u)
	}
	if u.chat == nil {
		u.chat = session.NewChat()
	}

	ropts := []glamour.TermRendererOption{glamour.WithWordWrap(u.wrap)}
	if u.style != "" {
		ropts = append(ropts, glamour.WithStandardStyle(u.style))
	} else {
		ropts = append(ropts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	u.renderer = r

	return u, nil
}

// Chat returns the current chat.
func (u *UI) Chat() *session.Chat {
	return u.chat
}

// Run reads messages until the input ends, ctx is done or the user quits.
//
// Lines starting with a slash are commands: /reset starts a new chat, /history shows
// the transcript again, /artifacts lists the artifacts of the session and /quit leaves.
func (u *UI) Run(ctx context.Context) error {
	fmt.Fprintf(u.out, "Data agent chat (user %s, session %s). Type /quit to leave.\n", u.chat.UserID, u.chat.SessionID)

	sc := bufio.NewScanner(u.in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(u.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(u.out)
			return sc.Err()
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			u.chat = session.NewChat()
			clear(u.saved)
			fmt.Fprintf(u.out, "Started a new chat (session %s).\n", u.chat.SessionID)
			continue
		case "/history":
			for _, turn := range u.chat.Transcript() {
				fmt.Fprintf(u.out, "[%s]\n", turn.Role)
				if err := u.Print(turn.Items()); err != nil {
					return err
				}
			}
			continue
		case "/artifacts":
			u.printArtifacts(ctx)
			continue
		}

		if err := u.Print(u.turner.Turn(ctx, u.chat, line)); err != nil {
			return err
		}
	}
}

// Print writes items to the output.
func (u *UI) Print(items []normalize.Item) error {
	for _, it := range items {
		switch it.Kind {
		case normalize.KindText:
			out, err := u.renderer.Render(it.Text)
			if err != nil {
				u.logger.Warn("Failed to render markdown", slog.String("error", err.Error()))
				out = it.Text + "\n"
			}
			fmt.Fprint(u.out, out)
		case normalize.KindImage:
			path, err := u.saveImage(it.Image)
			if err != nil {
				return err
			}
			if it.Caption != "" {
				fmt.Fprintf(u.out, "[image %s saved to %s]\n", it.Caption, path)
			} else {
				fmt.Fprintf(u.out, "[image saved to %s]\n", path)
			}
		case normalize.KindNotice:
			fmt.Fprintf(u.out, "! %s\n", it.Text)
		case normalize.KindError:
			fmt.Fprintf(u.out, "error: %s\n", it.Text)
		}
	}
	return nil
}

func (u *UI) printArtifacts(ctx context.Context) {
	lister, ok := u.turner.(ArtifactLister)
	if !ok {
		fmt.Fprintln(u.out, "error: artifacts are not available")
		return
	}

	infos, err := lister.Artifacts(ctx, u.chat)
	switch {
	case err != nil:
		fmt.Fprintf(u.out, "error: %s\n", err)
	case len(infos) == 0:
		fmt.Fprintln(u.out, "No artifacts.")
	default:
		for _, info := range infos {
			fmt.Fprintf(u.out, "%s (latest version %d, %d saved)\n", info.Name, info.Latest(), len(info.Versions))
		}
	}
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// saveImage writes the image to the image directory and returns its path. An image
// already written is not written again.
func (u *UI) saveImage(ref *normalize.ImageRef) (string, error) {
	key := imageKey(ref)
	if path, ok := u.saved[key]; ok {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if err := os.MkdirAll(u.imageDir, 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	u.images++
	name := fmt.Sprintf("%s-%d%s", u.chat.SessionID, u.images, extension(ref.MIMEType))
	if ref.Name != "" {
		base := strings.TrimSuffix(ref.Name, filepath.Ext(ref.Name))
		name = fmt.Sprintf("%s-%d-%s%s", u.chat.SessionID, u.images, unsafeName.ReplaceAllString(base, "_"), extension(ref.MIMEType))
	}

	path := filepath.Join(u.imageDir, name)
	if err := os.WriteFile(path, ref.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	u.saved[key] = path
	return path, nil
}

func imageKey(ref *normalize.ImageRef) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(ref.MIMEType))
	h.Write([]byte{0})
	h.Write([]byte(ref.Name))
	h.Write([]byte{0})
	h.Write(ref.Data)

	var key [sha256.Size]byte
	h.Sum(key[:0])
	return key
}

var knownExtensions = map[string]string{
	normalize.MIMETypeSVG: ".svg",
	"image/png":           ".png",
	"image/jpeg":          ".jpg",
	"image/gif":           ".gif",
	"image/webp":          ".webp",
}

func extension(mimeType string) string {
	if ext, ok := knownExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
