package structure

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemWord
	itemQuoted
	itemLeftParen
	itemRightParen
)

func (t itemType) String() string {
	switch t {
	case itemError:
		return "error"
	case itemEOF:
		return "end of selection"
	case itemWord:
		return "word"
	case itemQuoted:
		return "quoted string"
	case itemLeftParen:
		return "'('"
	case itemRightParen:
		return "')'"
	}
	return fmt.Sprintf("item(%d)", int(t))
}

const eof = 0

type item struct {
	typ itemType
	val string
	pos int
}

type stateFn func(lx *lexer) stateFn

// lexer splits a selection string into words, quoted strings and
// parentheses.  It runs as a state machine that emits items on a channel.
type lexer struct {
	input string
	start int
	pos   int
	width int
	state stateFn
	items chan item
}

func lex(input string) *lexer {
	return &lexer{
		input: input,
		state: lexSelection,
		items: make(chan item, 4),
	}
}

func (lx *lexer) nextItem() item {
	for {
		select {
		case it := <-lx.items:
			return it
		default:
			if lx.state == nil {
				return item{itemEOF, "", lx.pos}
			}
			lx.state = lx.state(lx)
		}
	}
}

func (lx *lexer) current() string {
	return lx.input[lx.start:lx.pos]
}

func (lx *lexer) emit(typ itemType) {
	lx.items <- item{typ, lx.current(), lx.start}
	lx.start = lx.pos
}

func (lx *lexer) emitValue(typ itemType, val string) {
	lx.items <- item{typ, val, lx.start}
	lx.start = lx.pos
}

func (lx *lexer) next() rune {
	if lx.pos >= len(lx.input) {
		lx.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(lx.input[lx.pos:])
	lx.width = w
	lx.pos += w
	return r
}

// ignore skips over the pending input before this point.
func (lx *lexer) ignore() {
	lx.start = lx.pos
}

// backup steps back one rune.  Can be called only once per call of next.
func (lx *lexer) backup() {
	lx.pos -= lx.width
}

func (lx *lexer) peek() rune {
	r := lx.next()
	lx.backup()
	return r
}

// errf stops lexing by emitting an error item and returning nil.
func (lx *lexer) errf(format string, values ...interface{}) stateFn {
	lx.items <- item{itemError, fmt.Sprintf(format, values...), lx.start}
	return nil
}

func (lx *lexer) stop() stateFn {
	lx.ignore()
	lx.emit(itemEOF)
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isWordChar(r rune) bool {
	return r != eof && !isSpace(r) && !strings.ContainsRune(`()'"`, r)
}

// lexSelection consumes whitespace and dispatches on the next rune.
func lexSelection(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case r == eof:
		return lx.stop()
	case isSpace(r):
		lx.ignore()
		return lexSelection
	case r == '(':
		lx.emit(itemLeftParen)
		return lexSelection
	case r == ')':
		lx.emit(itemRightParen)
		return lexSelection
	case r == '\'' || r == '"':
		return lexQuoted(r)
	}
	lx.backup()
	return lexWord
}

// lexWord consumes a bare word: a keyword, a number, a range or a label.
func lexWord(lx *lexer) stateFn {
	for isWordChar(lx.peek()) {
		lx.next()
	}
	lx.emit(itemWord)
	return lexSelection
}

// lexQuoted returns a state that consumes a string closed by quote.  The
// opening quote has already been consumed.
func lexQuoted(quote rune) stateFn {
	return func(lx *lexer) stateFn {
		for {
			switch lx.next() {
			case eof:
				return lx.errf("unterminated quoted string starting at column %d", lx.start+1)
			case quote:
				val := lx.input[lx.start+1 : lx.pos-1]
				lx.emitValue(itemQuoted, val)
				return lexSelection
			}
		}
	}
}
