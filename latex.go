package limitcalc

import (
	"strings"
	"unicode"
)

// Expression is a function in the plain syntax understood by the symbolic
// parser, e.g. "(x^2-4)/(x-2)". Values are never mutated; strategies derive
// new Expressions instead.
type Expression string

func (e Expression) String() string { return string(e) }

// Translate rewrites LaTeX function text into an Expression. The rewrites
// run in a fixed order and never validate their input: unbalanced braces
// pass through and fail later when the expression is parsed.
func Translate(latex string) Expression {
	s := latex
	s = rewriteRoots(s)
	s = rewriteFractions(s)
	s = strings.NewReplacer(`\left`, "", `\right`, "").Replace(s)
	s = namedSymbols.Replace(s)
	s = rewriteGroup(s, "^{", "^(", ")")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return Expression(s)
}

// namedSymbols maps LaTeX commands to evaluator names. \ln is the natural
// log ("log") and \log is base 10. Longer commands come first so \sinh is
// not eaten by \sin.
var namedSymbols = strings.NewReplacer(
	`\sinh`, "sinh",
	`\cosh`, "cosh",
	`\tanh`, "tanh",
	`\arcsin`, "asin",
	`\arccos`, "acos",
	`\arctan`, "atan",
	`\sin`, "sin",
	`\cos`, "cos",
	`\tan`, "tan",
	`\ln`, "log",
	`\log`, "log10",
	`\exp`, "exp",
	`\pi`, "pi",
	"π", "pi",
	`\cdot`, "*",
	`\times`, "*",
	`\,`, "",
	`\ `, "",
)

// rewriteRoots turns \sqrt[n]{e} into (e)^(1/(n)) and \sqrt{e} into sqrt(e).
func rewriteRoots(s string) string {
	for {
		i := strings.Index(s, `\sqrt`)
		if i < 0 {
			return s
		}
		rest := i + len(`\sqrt`)
		index := ""
		if rest < len(s) && s[rest] == '[' {
			end := strings.IndexByte(s[rest:], ']')
			if end < 0 {
				return s
			}
			index = s[rest+1 : rest+end]
			rest += end + 1
		}
		body, end, ok := bracedGroup(s, rest)
		if !ok {
			return s
		}
		var repl string
		if index == "" {
			repl = "sqrt(" + body + ")"
		} else {
			repl = "(" + body + ")^(1/(" + index + "))"
		}
		s = s[:i] + repl + s[end:]
	}
}

// rewriteFractions turns \frac{a}{b} (and \dfrac, \tfrac) into (a)/(b),
// innermost-last so nested fractions come out balanced.
func rewriteFractions(s string) string {
	for _, cmd := range []string{`\dfrac`, `\tfrac`} {
		s = strings.ReplaceAll(s, cmd, `\frac`)
	}
	for {
		i := strings.Index(s, `\frac`)
		if i < 0 {
			return s
		}
		num, mid, ok := bracedGroup(s, i+len(`\frac`))
		if !ok {
			return s
		}
		den, end, ok := bracedGroup(s, mid)
		if !ok {
			return s
		}
		s = s[:i] + "(" + num + ")/(" + den + ")" + s[end:]
	}
}

// rewriteGroup replaces every opener{...} with open...close.
func rewriteGroup(s, opener, open, close string) string {
	for {
		i := strings.Index(s, opener)
		if i < 0 {
			return s
		}
		body, end, ok := bracedGroup(s, i+len(opener)-1)
		if !ok {
			return s
		}
		s = s[:i] + open + body + close + s[end:]
	}
}

// bracedGroup reads the {...} group starting at s[at], skipping leading
// spaces. It returns the inner text and the index just past the closing
// brace; ok is false when there is no balanced group.
func bracedGroup(s string, at int) (body string, end int, ok bool) {
	for at < len(s) && s[at] == ' ' {
		at++
	}
	if at >= len(s) || s[at] != '{' {
		return "", 0, false
	}
	depth := 0
	for j := at; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[at+1 : j], j + 1, true
			}
		}
	}
	return "", 0, false
}
