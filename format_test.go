package limitcalc_test

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njchilds90/limitcalc"
)

// reduce returns n/d in lowest terms with a positive denominator.
func reduce(n, d int) (int, int) {
	a, b := n, d
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return n / a, d / a
}

func TestFormat_Fractions(t *testing.T) {
	for d := 1; d <= 10; d++ {
		for n := -20; n <= 20; n++ {
			if n == 0 {
				continue
			}
			rn, rd := reduce(n, d)
			want := fmt.Sprintf(`\frac{%d}{%d}`, rn, rd)
			if rd == 1 && abs(rn) == 1 {
				want = strconv.Itoa(rn)
			}
			assert.Equal(t, want, limitcalc.Format(float64(n)/float64(d)), "%d/%d", n, d)
		}
	}
}

func TestFormat_FractionExamples(t *testing.T) {
	assert.Equal(t, `\frac{4}{1}`, limitcalc.Format(4))
	assert.Equal(t, `\frac{-1}{2}`, limitcalc.Format(-0.5))
	assert.Equal(t, `\frac{-20}{1}`, limitcalc.Format(-20))
	assert.Equal(t, `\frac{7}{3}`, limitcalc.Format(14.0/6))
}

func TestFormat_PiMultiples(t *testing.T) {
	for d := 1; d <= 6; d++ {
		for k := -6; k <= 6; k++ {
			if k == 0 {
				continue
			}
			rk, rd := reduce(k, d)
			num := `\pi`
			if abs(rk) != 1 {
				num = strconv.Itoa(abs(rk)) + `\pi`
			}
			want := num
			if rd != 1 {
				want = `\frac{` + num + `}{` + strconv.Itoa(rd) + `}`
			}
			if rk < 0 {
				want = "-" + want
			}
			assert.Equal(t, want, limitcalc.Format(float64(k)*math.Pi/float64(d)), "%dπ/%d", k, d)
		}
	}
}

func TestFormat_Special(t *testing.T) {
	assert.Equal(t, `\infty`, limitcalc.Format(math.Inf(1)))
	assert.Equal(t, `-\infty`, limitcalc.Format(math.Inf(-1)))
	assert.Equal(t, "0", limitcalc.Format(0))
	assert.Equal(t, "0", limitcalc.Format(math.Copysign(0, -1)))
	assert.Equal(t, "0", limitcalc.Format(-1e-9))
	assert.Equal(t, "1", limitcalc.Format(1))
	assert.Equal(t, "-1", limitcalc.Format(-1))
	assert.Equal(t, "2.7183", limitcalc.Format(math.E))
	assert.Equal(t, "0.123", limitcalc.Format(0.123))
	assert.Equal(t, "100", limitcalc.Format(100))
	assert.Equal(t, "1.4142", limitcalc.Format(math.Sqrt2))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
