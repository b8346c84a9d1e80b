package limitcalc

import (
	"fmt"
	"html"
	"strings"
)

// Step is one block of a derivation: the strategy that produced it, a
// heading and the lines underneath. Lines may carry inline LaTeX wrapped
// in \( \).
type Step struct {
	Strategy StrategyID `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	Lines    []string   `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// Trace is an ordered derivation. Strategies build their own and the
// engine concatenates them; a Trace is never shared between evaluations.
type Trace []Step

func newStep(id StrategyID, title string, lines ...string) Step {
	return Step{Strategy: id, Title: title, Lines: lines}
}

// note is an untitled step, rendered as an emphasized remark.
func note(text string) Step { return Step{Lines: []string{text}} }

// Then returns a new trace with more appended to t.
func (t Trace) Then(more ...Step) Trace {
	out := make(Trace, 0, len(t)+len(more))
	out = append(out, t...)
	return append(out, more...)
}

// Line appends a line to the last step, starting a step if t is empty.
func (t Trace) Line(format string, args ...any) Trace {
	out := t.Then()
	if len(out) == 0 {
		out = append(out, Step{})
	}
	last := &out[len(out)-1]
	last.Lines = append(append([]string(nil), last.Lines...), fmt.Sprintf(format, args...))
	return out
}

// HTML renders the trace as a fragment of <p> blocks, numbering the
// titled steps.
func (t Trace) HTML() string {
	var b strings.Builder
	n := 0
	for _, s := range t {
		b.WriteString("<p>")
		if s.Title == "" {
			b.WriteString("<em>")
			b.WriteString(strings.Join(escapeAll(s.Lines), "<br>"))
			b.WriteString("</em></p>")
			continue
		}
		n++
		fmt.Fprintf(&b, "<b>Step %d: %s</b>", n, html.EscapeString(s.Title))
		for _, l := range s.Lines {
			b.WriteString("<br>")
			b.WriteString(html.EscapeString(l))
		}
		b.WriteString("</p>")
	}
	return b.String()
}

// Markdown renders the trace for terminals and chat clients. Inline math
// switches from \( \) to $ $ delimiters.
func (t Trace) Markdown() string {
	math := strings.NewReplacer(`\(`, "$", `\)`, "$")
	var b strings.Builder
	n := 0
	for _, s := range t {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if s.Title == "" {
			for _, l := range s.Lines {
				fmt.Fprintf(&b, "_%s_\n", math.Replace(l))
			}
			continue
		}
		n++
		fmt.Fprintf(&b, "**Step %d: %s**\n\n", n, s.Title)
		for _, l := range s.Lines {
			fmt.Fprintf(&b, "- %s\n", math.Replace(l))
		}
	}
	return b.String()
}

func escapeAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = html.EscapeString(l)
	}
	return out
}

// tex wraps LaTeX for inline display.
func tex(s string) string { return `\(` + s + `\)` }
