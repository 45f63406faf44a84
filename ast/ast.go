/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package ast defines the tree produced by the parser. Following
spec.md's design note, statements and expressions are kept as two
distinct sum types (rather than ecal's single homogeneous ASTNode) so
the parser's return types stay precise: a statement parser can never
hand back something only valid as an expression, and vice versa.
*/
package ast

import "github.com/krotik/luma/token"

/*
Node is implemented by every AST type; it exposes the SourceSlice every
node carries (spec.md §3).
*/
type Node interface {
	Slice() token.SourceSlice
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

/*
Exp is the sum type of expression nodes.
*/
type Exp interface {
	Node
	expNode()
}

type Base struct {
	S token.SourceSlice
}

func (b Base) Slice() token.SourceSlice { return b.S }

type NilExp struct{ Base }
type BoolExp struct {
	Base
	Val bool
}
type NumberExp struct {
	Base
	Val float64
}
type StringExp struct {
	Base
	Val string
}
type VarargExp struct{ Base }
type NameExp struct {
	Base
	Name string
}

/*
IndexExp is t[k].
*/
type IndexExp struct {
	Base
	Prefix Exp
	Key    Exp
}

/*
FieldExp is t.name, sugar for IndexExp with a string key, kept distinct
so the parser's var/prefixexp disambiguation (spec.md §4.2) and
assignment-target validation can match on it directly.
*/
type FieldExp struct {
	Base
	Prefix Exp
	Name   string
}

/*
CallExp is f(args...).
*/
type CallExp struct {
	Base
	Prefix Exp
	Args   []Exp
}

/*
MethodCallExp is obj:name(args...); desugars at evaluation time to a
call of obj.name with obj prepended as the first argument.
*/
type MethodCallExp struct {
	Base
	Prefix Exp
	Name   string
	Args   []Exp
}

type BinopExp struct {
	Base
	Op  token.Kind
	LHS Exp
	RHS Exp
}

type UnopExp struct {
	Base
	Op      token.Kind
	Operand Exp
}

/*
FunctionExp is a function literal: `function(params) body end`.
*/
type FunctionExp struct {
	Base
	Params   []string
	IsVararg bool
	Body     *Block
}

/*
Field is one entry of a table constructor.
*/
type Field interface {
	Node
	fieldNode()
}

type PositionalField struct {
	Base
	Val Exp
}
type NamedField struct {
	Base
	Name string
	Val  Exp
}
type ComputedField struct {
	Base
	Key Exp
	Val Exp
}

func (*PositionalField) fieldNode() {}
func (*NamedField) fieldNode()      {}
func (*ComputedField) fieldNode()   {}

type TableExp struct {
	Base
	Fields []Field
}

func (*NilExp) expNode()        {}
func (*BoolExp) expNode()       {}
func (*NumberExp) expNode()     {}
func (*StringExp) expNode()     {}
func (*VarargExp) expNode()     {}
func (*NameExp) expNode()       {}
func (*IndexExp) expNode()      {}
func (*FieldExp) expNode()      {}
func (*CallExp) expNode()       {}
func (*MethodCallExp) expNode() {}
func (*BinopExp) expNode()      {}
func (*UnopExp) expNode()       {}
func (*FunctionExp) expNode()   {}
func (*TableExp) expNode()      {}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

/*
Stat is the sum type of statement nodes, including the two terminal
statements (Return, Break) which may only appear as the last element
of a Block.
*/
type Stat interface {
	Node
	statNode()
}

/*
Var is the restricted subset of Exp that may appear on the left of an
assignment (spec.md §3 invariant): Name, Index, or Field.
*/
type Var = Exp

type AssignStat struct {
	Base
	Targets []Var
	Values  []Exp
}

type LocalAssignStat struct {
	Base
	Names  []string
	Values []Exp // nil if no initializers were given
}

type DoStat struct {
	Base
	Body *Block
}

type WhileStat struct {
	Base
	Cond Exp
	Body *Block
}

type RepeatStat struct {
	Base
	Body *Block
	Cond Exp
}

/*
IfBranch is one `cond then block` arm of an if/elseif chain.
*/
type IfBranch struct {
	Cond Exp
	Body *Block
}

type IfStat struct {
	Base
	Branches []IfBranch
	Else     *Block // nil if there is no else clause
}

type NumericForStat struct {
	Base
	Name  string
	Start Exp
	Stop  Exp
	Step  Exp // nil if defaulted to 1
	Body  *Block
}

type GenericForStat struct {
	Base
	Names []string
	Exps  []Exp
	Body  *Block
}

/*
FunctionDeclStat is `function a.b.c:d(...) ... end`, desugared by the
parser into an assignment to the dotted path, with `self` implicitly
prepended to Params when IsMethod is true (spec.md §4.2 "Function
names").
*/
type FunctionDeclStat struct {
	Base
	Path     []string
	IsMethod bool
	Fn       *FunctionExp
}

type LocalFunctionStat struct {
	Base
	Name string
	Fn   *FunctionExp
}

/*
CallStat is a function call used as a statement; the call's return
values, if any, are discarded.
*/
type CallStat struct {
	Base
	Call Exp // *CallExp or *MethodCallExp
}

type ReturnStat struct {
	Base
	Values []Exp // nil for a bare `return`
}

type BreakStat struct{ Base }

func (*AssignStat) statNode()        {}
func (*LocalAssignStat) statNode()   {}
func (*DoStat) statNode()            {}
func (*WhileStat) statNode()         {}
func (*RepeatStat) statNode()        {}
func (*IfStat) statNode()            {}
func (*NumericForStat) statNode()    {}
func (*GenericForStat) statNode()    {}
func (*FunctionDeclStat) statNode()  {}
func (*LocalFunctionStat) statNode() {}
func (*CallStat) statNode()          {}
func (*ReturnStat) statNode()        {}
func (*BreakStat) statNode()         {}

/*
Block is an ordered sequence of regular statements optionally followed
by exactly one terminal statement (Return or Break), per spec.md §3's
invariant. Last is nil for a block with no terminal statement.
*/
type Block struct {
	S     token.SourceSlice
	Stats []Stat // never contains a ReturnStat/BreakStat
	Last  Stat   // nil, *ReturnStat, or *BreakStat
}

func (b *Block) Slice() token.SourceSlice { return b.S }

/*
AllStats returns Stats followed by Last (if present), useful for
generic tree walks that do not need to distinguish terminal position.
*/
func (b *Block) AllStats() []Stat {
	if b.Last == nil {
		return b.Stats
	}
	out := make([]Stat, 0, len(b.Stats)+1)
	out = append(out, b.Stats...)
	return append(out, b.Last)
}
