package limitcalc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ApproachTarget is the point a limit is taken at, on the extended real
// line. Source keeps the LaTeX the caller typed so traces can echo it.
type ApproachTarget struct {
	Value  float64 `json:"-" yaml:"-"`
	Source string  `json:"source" yaml:"source"`
}

// Target builds an ApproachTarget from a plain number.
func Target(v float64) ApproachTarget {
	return ApproachTarget{Value: v, Source: point(v)}
}

func (a ApproachTarget) IsInf() bool { return math.IsInf(a.Value, 0) }

// Sign is +1 for +∞, -1 for -∞ and 0 for finite targets.
func (a ApproachTarget) Sign() int {
	switch {
	case math.IsInf(a.Value, 1):
		return 1
	case math.IsInf(a.Value, -1):
		return -1
	}
	return 0
}

// LaTeX renders the target for display in \lim_{x \to ...}.
func (a ApproachTarget) LaTeX() string {
	if a.IsInf() {
		return Format(a.Value)
	}
	if s := strings.TrimSpace(a.Source); s != "" {
		return s
	}
	return point(a.Value)
}

var (
	integerRe  = regexp.MustCompile(`^[+-]?\d+$`)
	fractionRe = regexp.MustCompile(`^(-?)\\[dt]?frac\{\s*(-?\d+)\s*\}\{\s*(-?\d+)\s*\}$`)
	numberRe   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseApproach reads an approach value. It never fails: text it cannot
// read yields 0. Recognized forms, in priority order, are \infty with an
// optional sign, a signed integer, \frac{p}{q} of integers (optionally
// negated), \pi and -\pi, and finally the longest leading decimal number.
func ParseApproach(latex string) ApproachTarget {
	src := strings.TrimSpace(latex)
	s := strings.Join(strings.Fields(src), "")
	return ApproachTarget{Value: approachValue(s), Source: src}
}

func approachValue(s string) float64 {
	switch s {
	case `\infty`, `+\infty`, "∞", "+∞":
		return math.Inf(1)
	case `-\infty`, "-∞":
		return math.Inf(-1)
	case `\pi`, "π", `+\pi`:
		return math.Pi
	case `-\pi`, "-π":
		return -math.Pi
	}
	if integerRe.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	if m := fractionRe.FindStringSubmatch(s); m != nil {
		p, perr := strconv.ParseFloat(m[2], 64)
		q, qerr := strconv.ParseFloat(m[3], 64)
		if perr == nil && qerr == nil && q != 0 {
			v := p / q
			if m[1] == "-" {
				v = -v
			}
			return v
		}
	}
	if m := numberRe.FindString(s); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v
		}
	}
	return 0
}
