package symbolic

import (
	"math/big"
	"sort"
	"strings"
	"unicode"
)

// ============================================================
// Parser
// ============================================================
//
// Grammar:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary | unary)*     implicit product
//	unary   := ('-' | '+') unary | power
//	power   := primary ('^' unary)?                   right associative
//	primary := number | name | func | '(' expr ')' | '|' expr '|'
//	func    := fname ('^' unary)? ( '(' expr ')' | power )

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokName
	tokFunc
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse reads plain-syntax math text. names lists multi-letter symbols
// (such as a free variable called "theta") that must not be split into
// single-letter products.
func Parse(text string, names ...string) (Expr, error) {
	toks, err := lex(text, names)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &ParseError{Pos: t.pos, Msg: "unexpected " + quote(t.text)}
	}
	return e.Simplify(), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string, names ...string) Expr {
	e, err := Parse(text, names...)
	if err != nil {
		panic(err)
	}
	return e
}

func quote(s string) string {
	if s == "" {
		return "end of input"
	}
	return "'" + s + "'"
}

// ============================================================
// Lexer
// ============================================================

func lex(text string, names []string) ([]token, error) {
	vocab := make([]string, 0, len(unary)+len(names)+1)
	for name := range unary {
		vocab = append(vocab, name)
	}
	vocab = append(vocab, "sqrt", "pi")
	for _, n := range names {
		if len(n) > 1 {
			vocab = append(vocab, n)
		}
	}
	// Longest first so "log10" wins over "log" and "sinh" over "sin".
	sort.Slice(vocab, func(i, j int) bool {
		if len(vocab[i]) != len(vocab[j]) {
			return len(vocab[i]) > len(vocab[j])
		}
		return vocab[i] < vocab[j]
	})
	multi := map[string]bool{}
	for _, n := range names {
		multi[n] = true
	}

	var toks []token
	rs := []rune(text)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			if j < len(rs) && (rs[j] == 'e' || rs[j] == 'E') {
				k := j + 1
				if k < len(rs) && (rs[k] == '+' || rs[k] == '-') {
					k++
				}
				if k < len(rs) && unicode.IsDigit(rs[k]) {
					for k < len(rs) && unicode.IsDigit(rs[k]) {
						k++
					}
					j = k
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[i:j]), pos: i})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, splitName(string(rs[i:j]), i, vocab, multi)...)
			i = j
		case strings.ContainsRune("+-*/^()|", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		default:
			return nil, &ParseError{Pos: i, Msg: "unexpected character " + quote(string(r))}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

// splitName breaks a run like "xsinx" into x, sin, x. Known names match
// longest first; anything else becomes a single-letter symbol, and a digit
// run becomes a number ("x2" is x*2).
func splitName(run string, pos int, vocab []string, multi map[string]bool) []token {
	if multi[run] {
		return []token{{kind: tokName, text: run, pos: pos}}
	}
	var out []token
	rs := []rune(run)
	for i := 0; i < len(rs); {
		rest := string(rs[i:])
		matched := false
		for _, v := range vocab {
			if strings.HasPrefix(rest, v) {
				kind := tokName
				if v == "sqrt" || IsFunction(v) {
					kind = tokFunc
				}
				out = append(out, token{kind: kind, text: v, pos: pos + i})
				i += len([]rune(v))
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if unicode.IsDigit(rs[i]) {
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			out = append(out, token{kind: tokNum, text: string(rs[i:j]), pos: pos + i})
			i = j
			continue
		}
		out = append(out, token{kind: tokName, text: string(rs[i]), pos: pos + i})
		i++
	}
	return out
}

// ============================================================
// Recursive descent
// ============================================================

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }
func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}
func (p *parser) isOp(s string) bool { t := p.peek(); return t.kind == tokOp && t.text == s }

func (p *parser) expect(s string) error {
	t := p.next()
	if t.kind != tokOp || t.text != s {
		return &ParseError{Pos: t.pos, Msg: "expected '" + s + "', found " + quote(t.text)}
	}
	return nil
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = &Mul{factors: []Expr{N(-1), right}}
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return &Add{terms: terms}, nil
}

// startsPrimary reports whether the next token can begin an implicit factor.
func (p *parser) startsPrimary() bool {
	t := p.peek()
	switch t.kind {
	case tokNum, tokName, tokFunc:
		return true
	case tokOp:
		return t.text == "("
	}
	return false
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for {
		switch {
		case p.isOp("*"):
			p.next()
			f, err := p.unary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)
		case p.isOp("/"):
			p.next()
			f, err := p.unary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, &Pow{base: f, exp: N(-1)})
		case p.startsPrimary():
			f, err := p.power()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)
		default:
			if len(factors) == 1 {
				return left, nil
			}
			return &Mul{factors: factors}, nil
		}
	}
}

func (p *parser) unary() (Expr, error) {
	switch {
	case p.isOp("-"):
		p.next()
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Mul{factors: []Expr{N(-1), e}}, nil
	case p.isOp("+"):
		p.next()
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Pow{base: base, exp: exp}, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, &ParseError{Pos: t.pos, Msg: "bad number " + quote(t.text)}
		}
		return &Num{val: r}, nil
	case tokName:
		return S(t.text), nil
	case tokFunc:
		return p.call(t)
	case tokOp:
		switch t.text {
		case "(":
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			return e, p.expect(")")
		case "|":
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			return &Func{name: "abs", arg: e}, p.expect("|")
		}
	}
	return nil, &ParseError{Pos: t.pos, Msg: "unexpected " + quote(t.text)}
}

// call parses a function application. "sin^2(x)" squares the result and a
// bare argument ("sinx") binds at power level.
func (p *parser) call(name token) (Expr, error) {
	var power Expr
	if p.isOp("^") {
		p.next()
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		power = e
	}
	var arg Expr
	var err error
	if p.isOp("(") {
		p.next()
		if arg, err = p.expr(); err != nil {
			return nil, err
		}
		if err = p.expect(")"); err != nil {
			return nil, err
		}
	} else if arg, err = p.power(); err != nil {
		return nil, err
	}
	var out Expr
	if name.text == "sqrt" {
		out = &Pow{base: arg, exp: F(1, 2)}
	} else {
		out = &Func{name: name.text, arg: arg}
	}
	if power != nil {
		out = &Pow{base: out, exp: power}
	}
	return out, nil
}
