/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package scanner converts Luma source text into a stream of lexical
tokens. It keeps the per-rune cursor bookkeeping of ecal's
parser/lexer.go lexFunc state machine, but drives it synchronously
instead of over a channel: the evaluation pipeline is single-threaded
end to end, so there is no second goroutine to hand tokens to.
*/
package scanner

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/krotik/luma/token"
)

/*
Error is a fatal scanning failure. All four kinds in spec.md §4.1/§7 are
represented by Kind; the offending SourceSlice always accompanies it.
*/
type Error struct {
	Kind  ErrorKind
	Msg   string
	Slice token.SourceSlice
}

/*
ErrorKind enumerates the scanner's fatal failure modes.
*/
type ErrorKind int

const (
	UnterminatedString ErrorKind = iota
	UnterminatedComment
	IllegalCharacter
	MalformedNumber
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedString:
		return "UnterminatedString"
	case UnterminatedComment:
		return "UnterminatedComment"
	case IllegalCharacter:
		return "IllegalCharacter"
	case MalformedNumber:
		return "MalformedNumber"
	}
	return "UnknownScannerError"
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Slice)
}

const runeEOF = -1

/*
scanner holds the cursor state for one source text. It is driven
synchronously by Scan; there is no background goroutine — spec.md's
pipeline is strictly single-threaded (§5), so unlike ecal's lexer this
implementation does not hand tokens across a channel.
*/
type scanner struct {
	src        string
	pos        int // next unread byte offset
	line       int // 1-based current line
	lineStart  int // byte offset of the start of the current line
	tokens     []token.Token
}

/*
Scan lexes the entire source text and returns the resulting token list,
always terminated by a token.EOF token, or the first fatal Error
encountered.
*/
func Scan(src string) ([]token.Token, error) {
	s := &scanner{src: src, pos: 0, line: 1, lineStart: 0}

	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		s.tokens = append(s.tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	return s.tokens, nil
}

func (s *scanner) slice(start, startLine, startCol int) token.SourceSlice {
	return token.SourceSlice{
		AbsStart: start,
		AbsEnd:   s.pos,
		Line:     startLine,
		ColStart: startCol,
		ColEnd:   s.col(),
	}
}

func (s *scanner) col() int {
	return s.pos - s.lineStart + 1
}

func (s *scanner) peekAt(offset int) rune {
	p := s.pos + offset
	if p >= len(s.src) {
		return runeEOF
	}
	r, _ := utf8.DecodeRuneInString(s.src[p:])
	return r
}

func (s *scanner) peek() rune {
	return s.peekAt(0)
}

func (s *scanner) advance() rune {
	if s.pos >= len(s.src) {
		return runeEOF
	}
	r, w := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += w
	if r == '\n' {
		s.line++
		s.lineStart = s.pos
	} else if r == '\r' {
		// \r\n counts as a single EndOfLine; bump the line counter on \r
		// and, if the following byte is \n, swallow it without a second
		// line bump.
		s.line++
		s.lineStart = s.pos
		if s.peek() == '\n' {
			s.pos++
			s.lineStart = s.pos
		}
	}
	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isAlnum(r rune) bool { return isAlpha(r) || isDigit(r) }

func (s *scanner) skipWhitespace() {
	for {
		r := s.peek()
		if r == ' ' || r == '\t' {
			s.advance()
			continue
		}
		break
	}
}

/*
next reads and returns the next token, skipping any leading spaces or
tabs (but not newlines, which are significant Layout tokens).
*/
func (s *scanner) next() (token.Token, error) {
	s.skipWhitespace()

	start := s.pos
	startLine := s.line
	startCol := s.col()

	r := s.peek()

	switch {
	case r == runeEOF:
		return token.Token{Kind: token.EOF, Slice: s.slice(start, startLine, startCol)}, nil

	case r == '\n' || r == '\r':
		s.advance()
		return token.Token{Kind: token.EndOfLine, Slice: s.slice(start, startLine, startCol)}, nil

	case r == '"' || r == '\'':
		return s.scanString(start, startLine, startCol)

	case r == '-' && s.peekAt(1) == '-':
		return s.scanComment(start, startLine, startCol)

	case isDigit(r) || (r == '.' && isDigit(s.peekAt(1))):
		return s.scanNumber(start, startLine, startCol)

	case isAlpha(r):
		return s.scanWord(start, startLine, startCol)

	default:
		return s.scanSymbol(start, startLine, startCol)
	}
}

/*
scanSymbol greedily extends punctuation to the longest valid
multi-character operator, per spec.md §4.1 step 3.
*/
func (s *scanner) scanSymbol(start, startLine, startCol int) (token.Token, error) {
	r := s.advance()

	mk := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Slice: s.slice(start, startLine, startCol)}
	}

	switch r {
	case '+':
		return mk(token.Plus), nil
	case '-':
		return mk(token.Minus), nil
	case '*':
		return mk(token.Star), nil
	case '/':
		return mk(token.Slash), nil
	case '%':
		return mk(token.Percent), nil
	case '^':
		return mk(token.Caret), nil
	case '#':
		return mk(token.Hash), nil
	case '(':
		return mk(token.LParen), nil
	case ')':
		return mk(token.RParen), nil
	case '{':
		return mk(token.LBrace), nil
	case '}':
		return mk(token.RBrace), nil
	case '[':
		return mk(token.LBracket), nil
	case ']':
		return mk(token.RBracket), nil
	case ';':
		return mk(token.Semicolon), nil
	case ',':
		return mk(token.Comma), nil
	case ':':
		return mk(token.Colon), nil
	case '=':
		if s.peek() == '=' {
			s.advance()
			return mk(token.Eq), nil
		}
		return mk(token.Assign), nil
	case '~':
		if s.peek() == '=' {
			s.advance()
			return mk(token.Neq), nil
		}
		return token.Token{}, s.illegal(start, startLine, startCol, "~")
	case '<':
		if s.peek() == '=' {
			s.advance()
			return mk(token.Le), nil
		}
		return mk(token.Lt), nil
	case '>':
		if s.peek() == '=' {
			s.advance()
			return mk(token.Ge), nil
		}
		return mk(token.Gt), nil
	case '.':
		if s.peek() == '.' {
			s.advance()
			if s.peek() == '.' {
				s.advance()
				return mk(token.Ellipsis), nil
			}
			return mk(token.Concat), nil
		}
		return mk(token.Dot), nil
	}

	return token.Token{}, s.illegal(start, startLine, startCol, string(r))
}

func (s *scanner) illegal(start, startLine, startCol int, lexeme string) error {
	return &Error{
		Kind:  IllegalCharacter,
		Msg:   fmt.Sprintf("illegal character %q", lexeme),
		Slice: s.slice(start, startLine, startCol),
	}
}

/*
scanString handles '...' and "...". Backslash escapes are not
interpreted; the body is stored verbatim (spec.md §4.1 step 4).
*/
func (s *scanner) scanString(start, startLine, startCol int) (token.Token, error) {
	quote := s.advance()
	bodyStart := s.pos

	for {
		r := s.peek()
		if r == runeEOF || r == '\n' || r == '\r' {
			return token.Token{}, &Error{
				Kind:  UnterminatedString,
				Msg:   "unterminated string literal",
				Slice: s.slice(start, startLine, startCol),
			}
		}
		if r == '\\' {
			s.advance()
			if s.peek() != runeEOF {
				s.advance()
			}
			continue
		}
		if r == quote {
			break
		}
		s.advance()
	}

	body := s.src[bodyStart:s.pos]
	s.advance() // closing quote

	return token.Token{Kind: token.String, Val: body, Slice: s.slice(start, startLine, startCol)}, nil
}

/*
scanComment handles both "--[[ ... ]]" block comments and "-- ..." line
comments (spec.md §4.1 step 5).
*/
func (s *scanner) scanComment(start, startLine, startCol int) (token.Token, error) {
	s.advance() // first -
	s.advance() // second -

	if s.peek() == '[' && s.peekAt(1) == '[' {
		s.advance()
		s.advance()
		bodyStart := s.pos

		for {
			if s.peek() == runeEOF {
				return token.Token{}, &Error{
					Kind:  UnterminatedComment,
					Msg:   "unterminated block comment",
					Slice: s.slice(start, startLine, startCol),
				}
			}
			if s.peek() == ']' && s.peekAt(1) == ']' {
				body := s.src[bodyStart:s.pos]
				s.advance()
				s.advance()
				return token.Token{Kind: token.Comment, Val: body, Slice: s.slice(start, startLine, startCol)}, nil
			}
			s.advance()
		}
	}

	bodyStart := s.pos
	for s.peek() != '\n' && s.peek() != '\r' && s.peek() != runeEOF {
		s.advance()
	}
	body := s.src[bodyStart:s.pos]

	return token.Token{Kind: token.Comment, Val: body, Slice: s.slice(start, startLine, startCol)}, nil
}

/*
scanNumber extends over [0-9.] and rejects more than one dot, per
spec.md §4.1 step 7.
*/
func (s *scanner) scanNumber(start, startLine, startCol int) (token.Token, error) {
	dots := 0
	for {
		r := s.peek()
		if isDigit(r) {
			s.advance()
			continue
		}
		if r == '.' {
			dots++
			s.advance()
			continue
		}
		break
	}

	lexeme := s.src[start:s.pos]

	if dots > 1 {
		return token.Token{}, &Error{
			Kind:  MalformedNumber,
			Msg:   fmt.Sprintf("malformed number %q", lexeme),
			Slice: s.slice(start, startLine, startCol),
		}
	}

	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{}, &Error{
			Kind:  MalformedNumber,
			Msg:   fmt.Sprintf("malformed number %q", lexeme),
			Slice: s.slice(start, startLine, startCol),
		}
	}

	return token.Token{Kind: token.Number, Val: lexeme, Num: n, Slice: s.slice(start, startLine, startCol)}, nil
}

/*
scanWord extends over [A-Za-z0-9_] and classifies the result as a
keyword or an Identifier (spec.md §4.1 step 6).
*/
func (s *scanner) scanWord(start, startLine, startCol int) (token.Token, error) {
	for isAlnum(s.peek()) {
		s.advance()
	}
	word := s.src[start:s.pos]

	if kw, ok := token.Keywords[word]; ok {
		return token.Token{Kind: kw, Val: word, Slice: s.slice(start, startLine, startCol)}, nil
	}

	return token.Token{Kind: token.Identifier, Val: word, Slice: s.slice(start, startLine, startCol)}, nil
}

/*
StripLayout discards EndOfLine, Whitespace and Comment tokens, as required by
the parser's contract in spec.md §4.1 ("the parser never sees
Whitespace") and §4.2 ("EndOfLine tokens are treated as whitespace for
grammatical purposes"). EOF is always kept as the final token.
*/
func StripLayout(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == token.Whitespace {
			continue
		}
		if t.Kind == token.EndOfLine {
			continue
		}
		if t.Kind == token.Comment {
			continue
		}
		out = append(out, t)
	}
	return out
}

/*
Keywords that open/close a block, used by the interactive driver's
completeness heuristic (spec.md §5). Exported here because the scanner
owns the canonical keyword-to-Kind mapping. While and For are not
listed: the Do that follows their header opens the block, so each loop
counts once against its single End.
*/
var OpeningKeywords = map[token.Kind]bool{
	token.Do: true, token.Function: true, token.If: true,
	token.Repeat: true, token.LBrace: true, token.LParen: true,
}

var ClosingKeywords = map[token.Kind]bool{
	token.End: true, token.Until: true, token.RBrace: true, token.RParen: true,
}
