/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package token defines the source-position and lexical token model shared
by the scanner and the parser.
*/
package token

import "fmt"

/*
SourceSlice is an immutable region of the original source text. abs_start
and abs_end are 0-based byte offsets; col_start and col_end are 1-based
for user display.
*/
type SourceSlice struct {
	AbsStart int
	AbsEnd   int
	Line     int
	ColStart int
	ColEnd   int
}

/*
Join returns the smallest SourceSlice that contains both s and other. It
is used to widen a parent AST node's slice to cover its children.
*/
func (s SourceSlice) Join(other SourceSlice) SourceSlice {
	res := s

	if other.AbsStart < res.AbsStart {
		res.AbsStart = other.AbsStart
		res.Line = other.Line
		res.ColStart = other.ColStart
	}

	if other.AbsEnd > res.AbsEnd {
		res.AbsEnd = other.AbsEnd
		res.ColEnd = other.ColEnd
	}

	return res
}

/*
String returns a human-readable "line:col" representation.
*/
func (s SourceSlice) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.ColStart)
}

/*
Kind identifies the grammatical family of a Token.
*/
type Kind int

/*
Token kinds. Each family (layout, literals, punctuation, multi-char
operators, keywords) occupies a contiguous range, in that order, so that
Kind ordering can be used for coarse classification in tests and
pretty-printers, mirroring the layout ecal uses for its LexTokenID
ranges.
*/
const (
	ILLEGAL Kind = iota

	// Layout

	EOF
	EndOfLine
	Whitespace

	// Literals

	Identifier
	Number
	String
	Comment

	// Punctuation

	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Hash
	Lt
	Gt
	Assign
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Colon
	Comma
	Dot

	// Multi-char operators

	Concat   // ..
	Eq       // ==
	Neq      // ~=
	Ge       // >=
	Le       // <=
	Ellipsis // ...

	// Keywords

	And
	Break
	Do
	Else
	Elseif
	End
	False
	For
	Function
	If
	In
	Local
	Nil
	Not
	Or
	Repeat
	Return
	Then
	True
	Until
	While
)

var kindNames = map[Kind]string{
	ILLEGAL:    "illegal",
	EOF:        "eof",
	EndOfLine:  "eol",
	Whitespace: "whitespace",
	Identifier: "identifier",
	Number:     "number",
	String:     "string",
	Comment:    "comment",
	Plus:       "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Caret: "^",
	Hash: "#", Lt: "<", Gt: ">", Assign: "=",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Semicolon: ";", Colon: ":", Comma: ",", Dot: ".",
	Concat: "..", Eq: "==", Neq: "~=", Ge: ">=", Le: "<=", Ellipsis: "...",
	And: "and", Break: "break", Do: "do", Else: "else", Elseif: "elseif", End: "end",
	False: "false", For: "for", Function: "function", If: "if", In: "in",
	Local: "local", Nil: "nil", Not: "not", Or: "or", Repeat: "repeat",
	Return: "return", Then: "then", True: "true", Until: "until", While: "while",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Keywords maps the fixed keyword spelling table to its Kind. Anything not
in this table that otherwise looks like an identifier is Identifier.
*/
var Keywords = map[string]Kind{
	"and": And, "break": Break, "do": Do, "else": Else, "elseif": Elseif,
	"end": End, "false": False, "for": For, "function": Function, "if": If,
	"in": In, "local": Local, "nil": Nil, "not": Not, "or": Or,
	"repeat": Repeat, "return": Return, "then": Then, "true": True,
	"until": Until, "while": While,
}

/*
Token is a tagged variant over the lexical token families: punctuation,
multi-char operators, keywords, and literals (Identifier/Number/String/
Comment). Equality of Kind-only is what the parser uses for grammar
decisions; Val additionally distinguishes literal payloads for tests.
*/
type Token struct {
	Kind  Kind
	Val   string // literal payload as written in source (keywords carry their spelling); "" for punctuation
	Num   float64
	Slice SourceSlice
}

/*
String renders a token roughly as it appeared in source, used by parser
error messages.
*/
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "<eof>"
	case Identifier, Comment:
		return t.Val
	case String:
		return fmt.Sprintf("%q", t.Val)
	case Number:
		return t.Val
	default:
		return t.Kind.String()
	}
}

/*
Equal compares two tokens. If values is false only Kind is compared
(what the parser needs); if true, Val and Num are compared too (what
tests need).
*/
func (t Token) Equal(other Token, values bool) bool {
	if t.Kind != other.Kind {
		return false
	}
	if !values {
		return true
	}
	return t.Val == other.Val && t.Num == other.Num
}
