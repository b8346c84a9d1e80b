package symbolic

// ============================================================
// Taylor / Maclaurin series
// ============================================================

func TaylorSeries(expr Expr, varName string, a Expr, order int) Expr {
	terms := []Expr{}
	current := expr
	factorial := N(1)
	for k := 0; k <= order; k++ {
		if k > 0 {
			factorial = numMul(factorial, N(int64(k)))
		}
		coeff := MulOf(current.Sub(varName, a), PowOf(factorial, N(-1)))
		if n, ok := coeff.(*Num); ok && n.IsZero() {
			current = Diff(current, varName)
			continue
		}
		var xTerm Expr
		switch k {
		case 0:
			xTerm = coeff
		case 1:
			xTerm = MulOf(coeff, AddOf(S(varName), MulOf(N(-1), a)))
		default:
			xTerm = MulOf(coeff, PowOf(AddOf(S(varName), MulOf(N(-1), a)), N(int64(k))))
		}
		terms = append(terms, xTerm)
		current = Diff(current, varName)
	}
	return AddOf(terms...)
}

func MaclaurinSeries(expr Expr, varName string, order int) Expr {
	return TaylorSeries(expr, varName, N(0), order)
}

// ============================================================
// JSON
// ============================================================

// JSONTree returns the expression as nested maps, ready to embed in a
// larger JSON document.
func JSONTree(e Expr) map[string]interface{} { return e.toJSON() }
