package limitcalc

import (
	"math"
	"strconv"
	"strings"
)

const formatTolerance = 1e-6

// Format renders a limit value as LaTeX. Infinities become \infty, values
// close to a small fraction or a small multiple of π get exact forms and
// everything else is printed with at most four decimals. Fractions keep
// the first match of the search, so integers other than ±1 print as
// \frac{n}{1}.
func Format(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return `\infty`
	case math.IsInf(v, -1):
		return `-\infty`
	case math.IsNaN(v):
		return `\text{undefined}`
	}
	if n, d, ok := matchFraction(v, 10, 20); ok {
		return ratio(n, d)
	}
	if n, d, ok := matchFraction(v/math.Pi, 6, 6); ok {
		return piMultiple(n, d)
	}
	return decimal(v)
}

// matchFraction finds the first n/d within tolerance of v, scanning
// denominators 1..maxDen and then numerators -maxNum..maxNum. Zero is
// never matched as a fraction.
func matchFraction(v float64, maxDen, maxNum int) (n, d int, ok bool) {
	for d = 1; d <= maxDen; d++ {
		for n = -maxNum; n <= maxNum; n++ {
			if n == 0 {
				continue
			}
			if math.Abs(v-float64(n)/float64(d)) < formatTolerance {
				return n, d, true
			}
		}
	}
	return 0, 0, false
}

// ratio prints the matched fraction as found, sign in the numerator.
// Only ±1 print bare; 4 prints as \frac{4}{1}.
func ratio(n, d int) string {
	if d == 1 && (n == 1 || n == -1) {
		return strconv.Itoa(n)
	}
	return `\frac{` + strconv.Itoa(n) + `}{` + strconv.Itoa(d) + `}`
}

// piMultiple prints kπ/d with the sign in front and a unit coefficient
// elided.
func piMultiple(n, d int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	num := `\pi`
	if n != 1 {
		num = strconv.Itoa(n) + `\pi`
	}
	if d == 1 {
		return sign + num
	}
	return sign + `\frac{` + num + `}{` + strconv.Itoa(d) + `}`
}

// point renders an approach point or substituted value. Whole numbers
// print bare here since they are inputs, not results.
func point(v float64) string {
	if !math.IsInf(v, 0) && v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return Format(v)
}

func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
