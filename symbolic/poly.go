package symbolic

// ============================================================
// Expansion
// ============================================================

func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
				}
				return expandExpr(AddOf(terms...))
			}
		}
		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp := n.val.Num().Int64()
			if exp >= 2 && exp <= 10 {
				base := expandExpr(v.base)
				if m, isMul := base.(*Mul); isMul {
					fs := make([]Expr, len(m.factors))
					for i, f := range m.factors {
						fs[i] = PowOf(f, v.exp)
					}
					return expandExpr(MulOf(fs...))
				}
				if _, isAdd := base.(*Add); isAdd {
					result := Expr(N(1))
					for i := int64(0); i < exp; i++ {
						result = expandExpr(MulOf(result, base))
					}
					return result
				}
			}
		}
		return PowOf(expandExpr(v.base), v.exp)
	}
	return e
}

// ============================================================
// Polynomial utilities
// ============================================================

// Degree returns the highest power of varName in an expanded polynomial.
// Negative integer powers count as negative degrees.
func Degree(expr Expr, varName string) int {
	expr = expr.Simplify()
	switch v := expr.(type) {
	case *Sym:
		if v.name == varName {
			return 1
		}
		return 0
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && n.IsInteger() {
				return int(n.val.Num().Int64())
			}
		}
		return 0
	case *Add:
		maxDeg := 0
		for i, t := range v.terms {
			if d := Degree(t, varName); i == 0 || d > maxDeg {
				maxDeg = d
			}
		}
		return maxDeg
	case *Mul:
		totalDeg := 0
		for _, f := range v.factors {
			totalDeg += Degree(f, varName)
		}
		return totalDeg
	}
	return 0
}

type PolyCoeffsResult map[int]Expr

func PolyCoeffs(expr Expr, varName string) PolyCoeffsResult {
	result := PolyCoeffsResult{}
	extractCoeffs(expr.Simplify(), varName, result)
	return result
}

func extractCoeffs(e Expr, varName string, out PolyCoeffsResult) {
	switch v := e.(type) {
	case *Num:
		addCoeff(out, 0, v)
	case *Sym:
		if v.name == varName {
			addCoeff(out, 1, N(1))
		} else {
			addCoeff(out, 0, v)
		}
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && n.IsInteger() {
				addCoeff(out, int(n.val.Num().Int64()), N(1))
				return
			}
		}
		addCoeff(out, 0, e)
	case *Mul:
		deg := 0
		coeffFactors := []Expr{}
		for _, f := range v.factors {
			if d := Degree(f, varName); d != 0 {
				deg += d
			} else {
				coeffFactors = append(coeffFactors, f)
			}
		}
		addCoeff(out, deg, product(coeffFactors))
	case *Add:
		for _, t := range v.terms {
			extractCoeffs(t, varName, out)
		}
	default:
		addCoeff(out, 0, e)
	}
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}

// Polynomial expands expr and returns its float coefficients indexed by
// degree. ok is false unless expr is a polynomial in varName whose
// coefficients evaluate to numbers without it.
func Polynomial(expr Expr, varName string) (coeffs []float64, ok bool) {
	pc := PolyCoeffs(Expand(expr), varName)
	maxDeg := 0
	for d, c := range pc {
		if d < 0 || DependsOn(c, varName) {
			return nil, false
		}
		if d > maxDeg {
			maxDeg = d
		}
	}
	coeffs = make([]float64, maxDeg+1)
	for d, c := range pc {
		v, err := c.Eval(nil)
		if err != nil {
			return nil, false
		}
		coeffs[d] = v
	}
	return Trim(coeffs), true
}

// Trim drops zero leading coefficients, keeping at least the constant.
func Trim(coeffs []float64) []float64 {
	n := len(coeffs)
	for n > 1 && coeffs[n-1] == 0 {
		n--
	}
	return coeffs[:n]
}

// FromCoeffs rebuilds a polynomial expression in varName.
func FromCoeffs(coeffs []float64, varName string) Expr {
	terms := make([]Expr, 0, len(coeffs))
	for d := len(coeffs) - 1; d >= 0; d-- {
		c, ok := NFloat(coeffs[d])
		if !ok || c.IsZero() {
			continue
		}
		switch d {
		case 0:
			terms = append(terms, c)
		case 1:
			terms = append(terms, MulOf(c, S(varName)))
		default:
			terms = append(terms, MulOf(c, PowOf(S(varName), N(int64(d)))))
		}
	}
	return AddOf(terms...)
}

