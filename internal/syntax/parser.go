package syntax

import (
	"errors"
	"fmt"
	"io"
)

// ErrorKind classifies malformed source.
type ErrorKind uint8

const (
	UnexpectedCloseBracket ErrorKind = iota + 1 // ']' without an open loop
	UnterminatedLoop                            // '[' without a matching ']'
)

// Sentinel errors matched by SyntaxError.Is.
var (
	ErrUnexpectedCloseBracket = errors.New("unexpected closing bracket")
	ErrUnterminatedLoop       = errors.New("unterminated loop")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case UnexpectedCloseBracket:
		return ErrUnexpectedCloseBracket
	case UnterminatedLoop:
		return ErrUnterminatedLoop
	}
	return nil
}

func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// SyntaxError represents malformed source.
type SyntaxError struct {
	Pos  Pos
	Kind ErrorKind
	Msg  string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Is makes errors.Is match the sentinel for the error's kind.
func (e *SyntaxError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// IsIncomplete reports whether err means the source ended inside a loop,
// so that more input could still make it valid.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrUnterminatedLoop)
}

// TokenStream is the token sequence consumed by the parser.
// *Scanner implements it.
type TokenStream interface {
	Next() bool // advance; false if the stream is exhausted
	Token() Token
	Pos() Pos
}

// Parser builds a syntax tree from a token stream with one token of lookahead.
type Parser struct {
	tokens TokenStream
	src    *Scanner // nil when parsing a foreign token stream

	// Current token
	tok Token
	pos Pos

	errh func(pos Pos, msg string)
}

// NewParser creates a Parser reading source text from src.
// If errh is not nil it is called with the position and message of a
// syntax error before Parse returns it.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	s := NewScanner(filename, src)
	p := NewTokenParser(s, errh)
	p.src = s
	return p
}

// NewTokenParser creates a Parser consuming an existing token stream.
func NewTokenParser(ts TokenStream, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{tokens: ts, errh: errh}
	p.next() // prime the parser with the first token
	return p
}

// Parse is a convenience wrapper that parses src in one call.
func Parse(filename string, src io.Reader) (*Root, error) {
	return NewParser(filename, src, nil).Parse()
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token. Running past the end of the stream means
// a token source did not terminate its sequence with EOF, or the parser
// advanced after EOF; both are bugs, not malformed input.
func (p *Parser) next() {
	if !p.tokens.Next() {
		panic("syntax: ran out of tokens")
	}
	p.tok = p.tokens.Token()
	p.pos = p.tokens.Pos()
}

// want consumes the current token, which must be tok.
func (p *Parser) want(tok Token) {
	if p.tok != tok {
		panic(fmt.Sprintf("syntax: %s: expected %s, found %s", p.pos, tok, p.tok))
	}
	p.next()
}

// errorAt builds a syntax error and reports it to the error handler.
func (p *Parser) errorAt(pos Pos, kind ErrorKind, msg string) error {
	if p.errh != nil {
		p.errh(pos, msg)
	}
	return &SyntaxError{Pos: pos, Kind: kind, Msg: msg}
}

// ----------------------------------------------------------------------------
// Parsing

// Parse parses the complete program. On malformed source it returns a nil
// tree and a *SyntaxError.
func (p *Parser) Parse() (*Root, error) {
	if p.src != nil && p.src.Err() != nil {
		return nil, fmt.Errorf("reading source: %w", p.src.Err())
	}

	root := &Root{node: node{p.pos}}
	body, err := p.stmtList(nil)
	if err != nil {
		return nil, err
	}
	root.Body = body
	return root, nil
}

// stmtList parses statements until the end of the current scope. open is
// the loop being parsed, or nil at the root; the root scope ends at EOF and
// a loop scope ends at ']', which is left for the caller to consume.
func (p *Parser) stmtList(open *Loop) ([]Stmt, error) {
	var list []Stmt

	for {
		switch p.tok {
		case _Right, _Left, _Add, _Sub:
			list = append(list, p.run())

		case _Put:
			list = append(list, NewPrintChar(p.pos))
			p.next()

		case _Get:
			list = append(list, NewReadChar(p.pos))
			p.next()

		case _Lbrack:
			loop, err := p.loop()
			if err != nil {
				return nil, err
			}
			list = append(list, loop)

		case _Rbrack:
			if open == nil {
				return nil, p.errorAt(p.pos, UnexpectedCloseBracket,
					"unexpected closing bracket: no loop is open")
			}
			return list, nil

		case _EOF:
			if open != nil {
				return nil, p.errorAt(open.pos, UnterminatedLoop,
					"unterminated loop: missing closing bracket")
			}
			return list, nil

		default:
			panic(fmt.Sprintf("syntax: %s: unexpected token %s", p.pos, p.tok))
		}
	}
}

// run collapses a run of identical movement or arithmetic tokens into one node.
func (p *Parser) run() Stmt {
	tok, pos := p.tok, p.pos
	count := 0
	for p.tok == tok {
		count++
		p.next()
	}

	switch tok {
	case _Right:
		return NewMoveRight(pos, count)
	case _Left:
		return NewMoveLeft(pos, count)
	case _Add:
		return NewIncrement(pos, count)
	default:
		return NewDecrement(pos, count)
	}
}

// loop parses '[' body ']'.
func (p *Parser) loop() (*Loop, error) {
	loop := NewLoop(p.pos)
	p.want(_Lbrack)

	body, err := p.stmtList(loop)
	if err != nil {
		return nil, err
	}
	loop.Body = body
	loop.Rbrack = p.pos
	p.want(_Rbrack)
	return loop, nil
}
