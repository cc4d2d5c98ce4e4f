// Package output renders HTTP responses to the terminal.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/torosent/minihttp/internal/config"
	"github.com/torosent/minihttp/internal/httpclient"
)

// ErrInvalidJSON is returned when a body declared as JSON does not parse.
var ErrInvalidJSON = errors.New("invalid JSON body")

var jsonOptions = &pretty.Options{Width: 80, Indent: "  "}

// Renderer writes a response as a status line, its headers and its body.
type Renderer struct {
	w      io.Writer
	status lipgloss.Style
	header lipgloss.Style
	json   lipgloss.Style
}

// NewRenderer creates a Renderer writing to w. In auto mode colour is used only when
// w is a terminal and NO_COLOR is unset.
func NewRenderer(w io.Writer, mode config.ColorMode) *Renderer {
	if w == nil {
		w = io.Discard
	}

	lr := lipgloss.NewRenderer(w)
	switch mode {
	case config.ColorNever:
		lr.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		lr.SetColorProfile(termenv.ANSI)
	}

	style := func(color string) lipgloss.Style {
		return lr.NewStyle().
			Foreground(lipgloss.Color(color)).
			TabWidth(lipgloss.NoTabConversion)
	}

	return &Renderer{
		w:      w,
		status: style("4"),
		header: style("2"),
		json:   style("6"),
	}
}

// Render writes resp. Output already written stays written if a later section fails.
func (r *Renderer) Render(resp *httpclient.Response) error {
	if resp == nil {
		return errors.New("response cannot be nil")
	}

	r.renderStatus(resp)
	r.renderHeaders(resp)

	contentType, err := ParseContentType(resp.Header)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.w)

	return r.renderBody(contentType, resp.Body)
}

func (r *Renderer) renderStatus(resp *httpclient.Response) {
	line := strings.TrimSpace(resp.Proto + " " + resp.Status)
	fmt.Fprintf(r.w, "%s\n\n", r.status.Render(line))
}

// renderHeaders prints one line per header value. Names are sorted because
// http.Header does not keep wire order; values of one name keep their order.
func (r *Renderer) renderHeaders(resp *httpclient.Response) {
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range resp.Header[name] {
			fmt.Fprintf(r.w, "%s: %q\n", r.header.Render(name), value)
		}
	}
}

func (r *Renderer) renderBody(contentType ContentType, body []byte) error {
	if contentType != ContentTypeJSON {
		fmt.Fprintln(r.w, string(body))
		return nil
	}

	formatted, err := FormatJSON(body)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(formatted, "\n") {
		fmt.Fprintln(r.w, r.json.Render(line))
	}
	return nil
}

// FormatJSON validates body and returns it indented with two spaces, without a
// trailing newline.
func FormatJSON(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.Wrapf(ErrInvalidJSON, "%d bytes", len(body))
	}
	return strings.TrimRight(string(pretty.PrettyOptions(body, jsonOptions)), "\n"), nil
}
