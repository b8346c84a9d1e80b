// Package render prints limit results for the CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/limitcalc"
)

// Format selects the output encoding.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

// ParseFormat accepts the names listed above, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, Markdown, JSON, YAML:
		return f, nil
	case "md":
		return Markdown, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Renderer writes results in one format. Color only affects text and
// markdown output.
type Renderer struct {
	format  Format
	profile termenv.Profile
	glamour *glamour.TermRenderer
}

// New builds a renderer. With color off, markdown is written raw and text
// carries no escape codes.
func New(format Format, color bool) (*Renderer, error) {
	r := &Renderer{format: format, profile: termenv.Ascii}
	if !color {
		return r, nil
	}
	r.profile = termenv.ColorProfile()
	if format == Markdown {
		g, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return nil, fmt.Errorf("markdown renderer: %w", err)
		}
		r.glamour = g
	}
	return r, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Write renders res to w.
func (r *Renderer) Write(w io.Writer, res limitcalc.Result) error {
	switch r.format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case Markdown:
		md := markdownDocument(res)
		if r.glamour != nil {
			out, err := r.glamour.Render(md)
			if err != nil {
				return err
			}
			md = out
		}
		_, err := io.WriteString(w, md)
		return err
	default:
		_, err := io.WriteString(w, r.text(res))
		return err
	}
}

func markdownDocument(res limitcalc.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# $%s$\n\n", res.LaTeX)
	if res.Determined {
		fmt.Fprintf(&b, "**Result:** $%s$ (%s)\n\n", res.Formatted, res.Strategy)
	}
	b.WriteString(res.Trace.Markdown())
	return b.String()
}

var plainMath = strings.NewReplacer(`\(`, "", `\)`, "")

func (r *Renderer) text(res limitcalc.Result) string {
	var b strings.Builder
	headline := fmt.Sprintf("lim %s->%s  %s", res.Variable, res.Target, res.Function)
	switch {
	case res.Failed():
		b.WriteString(r.style("error: "+res.Error, "#f87171"))
	case res.Determined:
		b.WriteString(headline + " = " + r.style(res.Formatted, "#4ade80"))
	default:
		b.WriteString(headline + " " + r.style("does not exist", "#facc15"))
	}
	b.WriteString("\n")

	n := 0
	for _, s := range res.Trace {
		if s.Title == "" {
			for _, l := range s.Lines {
				b.WriteString("  " + r.faint(plainMath.Replace(l)) + "\n")
			}
			continue
		}
		n++
		b.WriteString(r.bold(fmt.Sprintf("Step %d: %s", n, s.Title)) + "\n")
		for _, l := range s.Lines {
			b.WriteString("    " + plainMath.Replace(l) + "\n")
		}
	}
	return b.String()
}

func (r *Renderer) style(s, hex string) string {
	if r.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(r.profile.Color(hex)).String()
}

func (r *Renderer) bold(s string) string {
	if r.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Bold().String()
}

func (r *Renderer) faint(s string) string {
	if r.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Faint().String()
}
