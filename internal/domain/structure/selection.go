package structure

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Selection
// ─────────────────────────────────────────────────────────────────────────────

// Selection is a compiled atom selection expression.
//
// Grammar, lowest precedence first:
//
//	expr    = term { "or" term }
//	term    = factor { "and" factor }
//	factor  = "not" factor | "(" expr ")" | predicate
//	predicate:
//	  all | none | hetero
//	  chain V | resname V | name V | altloc V | element V
//	  resseq N | resseq A:B | resseq A: | resseq :B
//	  resid R | resid R through R
//
// Keywords are case-insensitive.  Values may be quoted with ' or "; a quoted
// blank (' ') matches an empty label.  Name-like values accept * ? [...]
// wildcards.
type Selection struct {
	query string
	root  node
}

// Compile parses query into a Selection.
func Compile(query string) (*Selection, error) {
	p := &parser{lx: lex(query), query: query}
	if p.peek().typ == itemEOF {
		return nil, p.errorf(p.peek(), "empty selection")
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.next(); tok.typ != itemEOF {
		return nil, p.errorf(tok, "unexpected %s %q", tok.typ, tok.val)
	}
	return &Selection{query: query, root: root}, nil
}

// MustCompile is Compile that panics on error.  It is meant for selections
// fixed at build time.
func MustCompile(query string) *Selection {
	s, err := Compile(query)
	if err != nil {
		panic(err)
	}
	return s
}

// Query returns the source text.
func (s *Selection) Query() string { return s.query }

// String renders the parsed expression in canonical, fully parenthesized
// form.
func (s *Selection) String() string { return s.root.String() }

// Evaluate returns the indices of matching atoms in file order.
func (s *Selection) Evaluate(m *Model) ([]int, error) {
	mask, err := s.root.eval(m)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSelectionEval, "evaluating selection").
			WithDetail(strconv.Quote(s.query))
	}
	var out []int
	for i, ok := range mask {
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Parser
// ─────────────────────────────────────────────────────────────────────────────

type parser struct {
	lx     *lexer
	query  string
	peeked *item
}

func (p *parser) next() item {
	if p.peeked != nil {
		it := *p.peeked
		p.peeked = nil
		return it
	}
	return p.lx.nextItem()
}

func (p *parser) peek() item {
	if p.peeked == nil {
		it := p.lx.nextItem()
		p.peeked = &it
	}
	return *p.peeked
}

func (p *parser) errorf(at item, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if at.typ == itemError {
		msg = at.val
	}
	return errors.Newf(errors.CodeSelectionSyntax, "%s (column %d)", msg, at.pos+1).
		WithDetail(strconv.Quote(p.query))
}

// keyword reports whether the next item is the bare word kw.
func (p *parser) keyword(kw string) bool {
	tok := p.peek()
	return tok.typ == itemWord && strings.EqualFold(tok.val, kw)
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.keyword("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.keyword("and") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.keyword("not") {
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.typ {
	case itemError:
		return nil, p.errorf(tok, "")
	case itemLeftParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != itemRightParen {
			return nil, p.errorf(closing, "expected ')' but got %s %q", closing.typ, closing.val)
		}
		return inner, nil
	case itemWord:
		return p.parsePredicate(tok)
	}
	return nil, p.errorf(tok, "unexpected %s %q", tok.typ, tok.val)
}

func (p *parser) parsePredicate(kw item) (node, error) {
	switch strings.ToLower(kw.val) {
	case "all":
		return constNode(true), nil
	case "none":
		return constNode(false), nil
	case "hetero":
		return heteroNode{}, nil
	case "chain", "resname", "name", "altloc", "element":
		v, err := p.value(kw)
		if err != nil {
			return nil, err
		}
		return newLabelNode(strings.ToLower(kw.val), v.val), nil
	case "resseq":
		v, err := p.value(kw)
		if err != nil {
			return nil, err
		}
		return p.parseRange(v)
	case "resid":
		v, err := p.value(kw)
		if err != nil {
			return nil, err
		}
		first, err := p.parseResid(v)
		if err != nil {
			return nil, err
		}
		if !p.keyword("through") {
			return first, nil
		}
		v, err = p.value(p.next())
		if err != nil {
			return nil, err
		}
		last, err := p.parseResid(v)
		if err != nil {
			return nil, err
		}
		return throughNode{first, last}, nil
	}
	return nil, p.errorf(kw, "unknown keyword %q", kw.val)
}

// value consumes the argument of keyword kw.
func (p *parser) value(kw item) (item, error) {
	tok := p.next()
	switch tok.typ {
	case itemWord, itemQuoted:
		return tok, nil
	case itemError:
		return tok, p.errorf(tok, "")
	}
	return tok, p.errorf(tok, "missing value after %q", kw.val)
}

func (p *parser) parseRange(v item) (node, error) {
	lo, hi, isRange := strings.Cut(strings.TrimSpace(v.val), ":")
	r := resseqNode{}
	var err error
	if lo != "" {
		if r.lo, err = strconv.Atoi(lo); err != nil {
			return nil, p.errorf(v, "invalid residue number %q", lo)
		}
		r.hasLo = true
	}
	if !isRange {
		r.hi, r.hasHi = r.lo, r.hasLo
		if !r.hasLo {
			return nil, p.errorf(v, "missing residue number")
		}
		return r, nil
	}
	if hi != "" {
		if r.hi, err = strconv.Atoi(hi); err != nil {
			return nil, p.errorf(v, "invalid residue number %q", hi)
		}
		r.hasHi = true
	}
	if !r.hasLo && !r.hasHi {
		return nil, p.errorf(v, "empty residue range")
	}
	return r, nil
}

// parseResid splits "12", "-3" or "12A" into sequence number and insertion
// code.
func (p *parser) parseResid(v item) (residNode, error) {
	s := strings.TrimSpace(v.val)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return residNode{}, p.errorf(v, "invalid residue id %q", v.val)
	}
	icode := s[end:]
	if len(icode) > 1 {
		return residNode{}, p.errorf(v, "invalid insertion code in %q", v.val)
	}
	return residNode{seq: n, icode: strings.ToUpper(icode)}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Expression nodes
// ─────────────────────────────────────────────────────────────────────────────

type node interface {
	eval(m *Model) ([]bool, error)
	String() string
}

func maskOf(m *Model, pred func(Atom) bool) []bool {
	mask := make([]bool, len(m.atoms))
	for i, a := range m.atoms {
		mask[i] = pred(a)
	}
	return mask
}

type constNode bool

func (n constNode) eval(m *Model) ([]bool, error) {
	return maskOf(m, func(Atom) bool { return bool(n) }), nil
}

func (n constNode) String() string {
	if n {
		return "all"
	}
	return "none"
}

type heteroNode struct{}

func (heteroNode) eval(m *Model) ([]bool, error) {
	return maskOf(m, func(a Atom) bool { return a.Hetero }), nil
}

func (heteroNode) String() string { return "hetero" }

type labelNode struct {
	field   string
	pattern string
	get     func(Atom) string
	fold    bool
}

func newLabelNode(field, pattern string) labelNode {
	n := labelNode{field: field, pattern: strings.TrimSpace(pattern), fold: true}
	switch field {
	case "chain":
		n.get = func(a Atom) string { return a.ChainID }
		n.fold = false
	case "resname":
		n.get = func(a Atom) string { return a.ResName }
	case "name":
		n.get = func(a Atom) string { return a.Name }
	case "altloc":
		n.get = func(a Atom) string { return a.AltLoc }
	case "element":
		n.get = func(a Atom) string { return a.Element }
	}
	if n.fold {
		n.pattern = strings.ToUpper(n.pattern)
	}
	return n
}

func (n labelNode) match(v string) bool {
	v = strings.TrimSpace(v)
	if n.fold {
		v = strings.ToUpper(v)
	}
	if strings.ContainsAny(n.pattern, "*?[") {
		ok, err := path.Match(n.pattern, v)
		return err == nil && ok
	}
	return v == n.pattern
}

func (n labelNode) eval(m *Model) ([]bool, error) {
	return maskOf(m, func(a Atom) bool { return n.match(n.get(a)) }), nil
}

func (n labelNode) String() string { return fmt.Sprintf("%s '%s'", n.field, n.pattern) }

type resseqNode struct {
	lo, hi       int
	hasLo, hasHi bool
}

func (n resseqNode) eval(m *Model) ([]bool, error) {
	return maskOf(m, func(a Atom) bool {
		return (!n.hasLo || a.ResSeq >= n.lo) && (!n.hasHi || a.ResSeq <= n.hi)
	}), nil
}

func (n resseqNode) String() string {
	if n.hasLo && n.hasHi && n.lo == n.hi {
		return fmt.Sprintf("resseq %d", n.lo)
	}
	var lo, hi string
	if n.hasLo {
		lo = strconv.Itoa(n.lo)
	}
	if n.hasHi {
		hi = strconv.Itoa(n.hi)
	}
	return "resseq " + lo + ":" + hi
}

type residNode struct {
	seq   int
	icode string
}

func (n residNode) matches(a Atom) bool {
	return a.ResSeq == n.seq && strings.EqualFold(strings.TrimSpace(a.ICode), n.icode)
}

func (n residNode) eval(m *Model) ([]bool, error) {
	return maskOf(m, n.matches), nil
}

func (n residNode) id() string { return strconv.Itoa(n.seq) + n.icode }

func (n residNode) String() string { return "resid " + n.id() }

// throughNode selects, per chain, every atom from the first atom of residue
// first to the last atom of residue last in file order.
type throughNode struct {
	first, last residNode
}

func (n throughNode) eval(m *Model) ([]bool, error) {
	mask := make([]bool, len(m.atoms))
	for _, chain := range m.Chains() {
		start, end := -1, -1
		for i, a := range m.atoms {
			if a.ChainID != chain {
				continue
			}
			if start < 0 && n.first.matches(a) {
				start = i
			}
			if n.last.matches(a) {
				end = i
			}
		}
		if start < 0 || end < 0 {
			continue
		}
		if end < start {
			return nil, errors.Newf(errors.CodeSelectionEval,
				"residue %s precedes %s in chain %q", n.last.id(), n.first.id(), chain)
		}
		for i := start; i <= end; i++ {
			if m.atoms[i].ChainID == chain {
				mask[i] = true
			}
		}
	}
	return mask, nil
}

func (n throughNode) String() string {
	return fmt.Sprintf("resid %s through %s", n.first.id(), n.last.id())
}

type notNode struct{ inner node }

func (n notNode) eval(m *Model) ([]bool, error) {
	mask, err := n.inner.eval(m)
	if err != nil {
		return nil, err
	}
	for i := range mask {
		mask[i] = !mask[i]
	}
	return mask, nil
}

func (n notNode) String() string { return "(not " + n.inner.String() + ")" }

type andNode struct{ left, right node }

func (n andNode) eval(m *Model) ([]bool, error) {
	l, r, err := evalBoth(m, n.left, n.right)
	if err != nil {
		return nil, err
	}
	for i := range l {
		l[i] = l[i] && r[i]
	}
	return l, nil
}

func (n andNode) String() string { return "(" + n.left.String() + " and " + n.right.String() + ")" }

type orNode struct{ left, right node }

func (n orNode) eval(m *Model) ([]bool, error) {
	l, r, err := evalBoth(m, n.left, n.right)
	if err != nil {
		return nil, err
	}
	for i := range l {
		l[i] = l[i] || r[i]
	}
	return l, nil
}

func (n orNode) String() string { return "(" + n.left.String() + " or " + n.right.String() + ")" }

func evalBoth(m *Model, left, right node) ([]bool, []bool, error) {
	l, err := left.eval(m)
	if err != nil {
		return nil, nil, err
	}
	r, err := right.eval(m)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
