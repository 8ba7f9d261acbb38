package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cyra/apachelogs/internal/parser"
	"github.com/cyra/apachelogs/internal/timeutil"
)

type statusStyles struct {
	ok, redirect, client, server, other, dim lipgloss.Style
}

func newStatusStyles(r *lipgloss.Renderer) statusStyles {
	return statusStyles{
		ok:       r.NewStyle().Foreground(lipgloss.Color("42")),  // green
		redirect: r.NewStyle().Foreground(lipgloss.Color("39")),  // cyan
		client:   r.NewStyle().Foreground(lipgloss.Color("220")), // yellow
		server:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		other:    r.NewStyle().Foreground(lipgloss.Color("245")),
		dim:      r.NewStyle().Faint(true),
	}
}

// TextRenderer prints one line per entry: time, status, request line and
// client, with the status coloured by class. Colour is dropped when w is
// not a terminal.
type TextRenderer struct {
	w      io.Writer
	styles statusStyles
	opts   Options
}

// NewTextRenderer returns a Renderer that writes text to w.
func NewTextRenderer(w io.Writer, opts Options) *TextRenderer {
	return &TextRenderer{
		w:      w,
		styles: newStatusStyles(lipgloss.NewRenderer(w)),
		opts:   opts,
	}
}

func (r *TextRenderer) Render(e *parser.Entry) error {
	ts := "-"
	if t, ok := firstTime(e, "final_request_time", "request_time", "original_request_time"); ok {
		ts = formatTime(t, r.opts.TimeFormat, timeutil.ApacheLayout)
	}

	status := int64(-1)
	for _, name := range []string{"final_status", "status", "original_status"} {
		if v, ok := e.Int(name); ok {
			status = v
			break
		}
	}

	request := firstString(e, "request_line")
	if request == "-" {
		method, uri := firstString(e, "request_method"), firstString(e, "request_uri")
		switch {
		case method == "-":
			request = uri
		case uri != "-":
			request = method + " " + uri
		default:
			request = method
		}
	}
	client := firstString(e, "remote_host", "remote_address", "remote_client_address")

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s \"%s\" %s", r.styles.dim.Render(ts), r.styleStatus(status), request, client)
	for _, name := range r.opts.Fields {
		if v, ok := e.Get(name); ok {
			fmt.Fprintf(&b, " %s=%s", name, plainText(v))
		}
	}
	_, err := fmt.Fprintln(r.w, b.String())
	return err
}

func (r *TextRenderer) styleStatus(status int64) string {
	if status < 0 {
		return r.styles.other.Render("---")
	}
	text := fmt.Sprintf("%03d", status)
	switch status / 100 {
	case 2:
		return r.styles.ok.Render(text)
	case 3:
		return r.styles.redirect.Render(text)
	case 4:
		return r.styles.client.Render(text)
	case 5:
		return r.styles.server.Render(text)
	}
	return r.styles.other.Render(text)
}

func firstTime(e *parser.Entry, names ...string) (time.Time, bool) {
	for _, name := range names {
		if t, ok := e.Time(name); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// firstString returns the first present string field, escaped for the
// terminal, or "-".
func firstString(e *parser.Entry, names ...string) string {
	for _, name := range names {
		if s, ok := e.Str(name); ok {
			return parser.Escape([]byte(s))
		}
	}
	return "-"
}

func plainText(v any) string {
	switch v := parser.PlainValue(v).(type) {
	case nil:
		return "-"
	case string:
		return parser.Escape([]byte(v))
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
