/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package parser turns a Luma token stream into the ast.Block tree
(spec.md §4.2). The grammar is implemented as recursive-descent for
statements and precedence-climbing for expressions, which the design
notes (spec.md §9) call out explicitly as the preferred strategy over
ecal's post-hoc node-rotation approach.
*/
package parser

import (
	"fmt"

	"github.com/krotik/luma/ast"
	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/scanner"
	"github.com/krotik/luma/token"
)

/*
Parse scans and parses a complete Luma chunk. The returned Block's
slice spans the whole chunk (spec.md §4.2 contract).
*/
func Parse(name, src string) (*ast.Block, error) {
	toks, err := scanner.Scan(src)
	if err != nil {
		se := err.(*scanner.Error)
		return nil, diag.New(diag.Kind(se.Kind.String()), se.Msg, se.Slice)
	}

	p := &parser{toks: scanner.StripLayout(toks)}

	block, perr := p.parseChunk()
	if perr != nil {
		return nil, perr
	}

	return block, nil
}

type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) check(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.check(k) {
		return token.Token{}, p.errUnexpected(k)
	}
	return p.advance(), nil
}

func (p *parser) errUnexpected(expected ...token.Kind) error {
	t := p.cur()
	msg := fmt.Sprintf("unexpected %s", t)
	if len(expected) > 0 {
		msg = fmt.Sprintf("unexpected %s, expected %s", t, expected[0])
	}
	return diag.New(diag.UnexpectedToken, msg, t.Slice)
}

func (p *parser) errUnterminated(construct string, start token.SourceSlice) error {
	return diag.New(diag.Unterminated, fmt.Sprintf("unterminated %s", construct), start)
}

var blockTerminators = map[token.Kind]bool{
	token.End: true, token.Else: true, token.Elseif: true,
	token.Until: true, token.EOF: true,
}

/*
parseChunk parses a top-level chunk: a block followed by EOF.
*/
func (p *parser) parseChunk() (*ast.Block, error) {
	start := p.cur().Slice
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, p.errUnexpected(token.EOF)
	}
	block.S = start.Join(p.cur().Slice)
	return block, nil
}

/*
parseBlock parses {stat [';']} [laststat [';']] up to (but not
consuming) a block terminator token.
*/
func (p *parser) parseBlock() (*ast.Block, error) {
	start := p.cur().Slice
	block := &ast.Block{S: start}

	for !blockTerminators[p.cur().Kind] {
		if p.check(token.Semicolon) {
			p.advance()
			continue
		}

		if p.check(token.Return) {
			ret, err := p.parseReturn()
			if err != nil {
				return nil, err
			}
			block.Last = ret
			if p.check(token.Semicolon) {
				p.advance()
			}
			break
		}

		if p.check(token.Break) {
			brk := &ast.BreakStat{}
			brk.S = p.advance().Slice
			block.Last = brk
			if p.check(token.Semicolon) {
				p.advance()
			}
			break
		}

		stat, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stats = append(block.Stats, stat)
	}

	if len(block.Stats) > 0 {
		block.S = block.S.Join(block.Stats[len(block.Stats)-1].Slice())
	}
	if block.Last != nil {
		block.S = block.S.Join(block.Last.Slice())
	}

	return block, nil
}

func (p *parser) parseReturn() (*ast.ReturnStat, error) {
	start := p.advance().Slice // 'return'

	ret := &ast.ReturnStat{}
	ret.S = start

	if !blockTerminators[p.cur().Kind] && !p.check(token.Semicolon) {
		exps, err := p.parseExpList()
		if err != nil {
			return nil, err
		}
		ret.Values = exps
		ret.S = start.Join(exps[len(exps)-1].Slice())
	}

	return ret, nil
}

/*
parseStatement parses one regular (non-terminal) statement.
*/
func (p *parser) parseStatement() (ast.Stat, error) {
	switch p.cur().Kind {
	case token.Do:
		return p.parseDo()
	case token.While:
		return p.parseWhile()
	case token.Repeat:
		return p.parseRepeat()
	case token.If:
		return p.parseIf()
	case token.For:
		return p.parseFor()
	case token.Function:
		return p.parseFunctionDecl()
	case token.Local:
		return p.parseLocal()
	default:
		return p.parseExprStatement()
	}
}

func (p *parser) parseDo() (ast.Stat, error) {
	start := p.advance().Slice // 'do'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.End)
	if err != nil {
		return nil, p.errUnterminated("do block", start)
	}
	return &ast.DoStat{Base: ast.Base{S: start.Join(end.Slice)}, Body: body}, nil
}

func (p *parser) parseWhile() (ast.Stat, error) {
	start := p.advance().Slice // 'while'
	cond, err := p.parseExp(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.End)
	if err != nil {
		return nil, p.errUnterminated("while loop", start)
	}
	return &ast.WhileStat{Base: ast.Base{S: start.Join(end.Slice)}, Cond: cond, Body: body}, nil
}

func (p *parser) parseRepeat() (ast.Stat, error) {
	start := p.advance().Slice // 'repeat'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Until); err != nil {
		return nil, p.errUnterminated("repeat loop", start)
	}
	cond, err := p.parseExp(0)
	if err != nil {
		return nil, err
	}
	return &ast.RepeatStat{Base: ast.Base{S: start.Join(cond.Slice())}, Body: body, Cond: cond}, nil
}

func (p *parser) parseIf() (ast.Stat, error) {
	start := p.advance().Slice // 'if'

	branch, err := p.parseIfBranch()
	if err != nil {
		return nil, err
	}
	stat := &ast.IfStat{Base: ast.Base{S: start}, Branches: []ast.IfBranch{branch}}

	for p.check(token.Elseif) {
		p.advance()
		b, err := p.parseIfBranch()
		if err != nil {
			return nil, err
		}
		stat.Branches = append(stat.Branches, b)
	}

	if p.check(token.Else) {
		p.advance()
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stat.Else = elseBlock
	}

	end, err := p.expect(token.End)
	if err != nil {
		return nil, p.errUnterminated("if statement", start)
	}
	stat.S = start.Join(end.Slice)

	return stat, nil
}

func (p *parser) parseIfBranch() (ast.IfBranch, error) {
	cond, err := p.parseExp(0)
	if err != nil {
		return ast.IfBranch{}, err
	}
	if _, err := p.expect(token.Then); err != nil {
		return ast.IfBranch{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.IfBranch{}, err
	}
	return ast.IfBranch{Cond: cond, Body: body}, nil
}

func (p *parser) parseFor() (ast.Stat, error) {
	start := p.advance().Slice // 'for'

	firstName, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}

	if p.check(token.Assign) {
		return p.parseNumericFor(start, firstName.Val)
	}

	names := []string{firstName.Val}
	for p.check(token.Comma) {
		p.advance()
		n, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		names = append(names, n.Val)
	}

	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}
	exps, err := p.parseExpList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.End)
	if err != nil {
		return nil, p.errUnterminated("for loop", start)
	}

	return &ast.GenericForStat{Base: ast.Base{S: start.Join(end.Slice)}, Names: names, Exps: exps, Body: body}, nil
}

func (p *parser) parseNumericFor(start token.SourceSlice, name string) (ast.Stat, error) {
	p.advance() // '='

	from, err := p.parseExp(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Comma); err != nil {
		return nil, err
	}
	to, err := p.parseExp(0)
	if err != nil {
		return nil, err
	}

	var step ast.Exp
	if p.check(token.Comma) {
		p.advance()
		step, err = p.parseExp(0)
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.End)
	if err != nil {
		return nil, p.errUnterminated("for loop", start)
	}

	return &ast.NumericForStat{
		Base: ast.Base{S: start.Join(end.Slice)}, Name: name, Start: from, Stop: to, Step: step, Body: body,
	}, nil
}

func (p *parser) parseFunctionDecl() (ast.Stat, error) {
	start := p.advance().Slice // 'function'

	first, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	path := []string{first.Val}

	for p.check(token.Dot) {
		p.advance()
		n, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		path = append(path, n.Val)
	}

	isMethod := false
	if p.check(token.Colon) {
		p.advance()
		n, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		path = append(path, n.Val)
		isMethod = true
	}

	fn, err := p.parseFuncBody(start, isMethod)
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclStat{Base: ast.Base{S: start.Join(fn.Slice())}, Path: path, IsMethod: isMethod, Fn: fn}, nil
}

func (p *parser) parseLocal() (ast.Stat, error) {
	start := p.advance().Slice // 'local'

	if p.check(token.Function) {
		p.advance()
		name, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		fn, err := p.parseFuncBody(start, false)
		if err != nil {
			return nil, err
		}
		return &ast.LocalFunctionStat{Base: ast.Base{S: start.Join(fn.Slice())}, Name: name.Val, Fn: fn}, nil
	}

	first, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	names := []string{first.Val}
	for p.check(token.Comma) {
		p.advance()
		n, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		names = append(names, n.Val)
	}

	stat := &ast.LocalAssignStat{Base: ast.Base{S: start}, Names: names}

	if p.check(token.Assign) {
		p.advance()
		exps, err := p.parseExpList()
		if err != nil {
			return nil, err
		}
		stat.Values = exps
		stat.S = start.Join(exps[len(exps)-1].Slice())
	} else {
		stat.S = start.Join(p.toks[p.pos-1].Slice)
	}

	return stat, nil
}

/*
parseExprStatement handles the statement forms that start with a
prefixexp: assignments and bare function calls (spec.md §4.2
"Statement disambiguation"). A statement that doesn't even start with
a prefixexp (e.g. a leading number or string literal) can never be a
valid statement, but spec.md §8's testable property still asks for the
more specific MalformedAssignment diagnosis whenever such a statement
goes on to look like an assignment attempt.
*/
func (p *parser) parseExprStatement() (ast.Stat, error) {
	if !startsPrefixExp(p.cur().Kind) {
		return p.parseNonPrefixExpStatement()
	}

	first, err := p.parsePrefixExp()
	if err != nil {
		return nil, err
	}

	if p.check(token.Assign) || p.check(token.Comma) {
		targets := []ast.Var{first}
		for p.check(token.Comma) {
			p.advance()
			t, err := p.parsePrefixExp()
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}

		for _, t := range targets {
			if !isAssignable(t) {
				return nil, diag.New(diag.MalformedAssignment, "left side of assignment must be a variable", t.Slice())
			}
		}

		if _, err := p.expect(token.Assign); err != nil {
			return nil, diag.New(diag.MalformedAssignment, "expected '=' in assignment", p.cur().Slice)
		}

		values, err := p.parseExpList()
		if err != nil {
			return nil, err
		}

		return &ast.AssignStat{
			Base:    ast.Base{S: first.Slice().Join(values[len(values)-1].Slice())},
			Targets: targets,
			Values:  values,
		}, nil
	}

	switch first.(type) {
	case *ast.CallExp, *ast.MethodCallExp:
		return &ast.CallStat{Base: ast.Base{S: first.Slice()}, Call: first}, nil
	}

	return nil, diag.New(diag.NotAStatement, "expression used as a statement is not a function call", first.Slice())
}

func isAssignable(e ast.Exp) bool {
	switch e.(type) {
	case *ast.NameExp, *ast.IndexExp, *ast.FieldExp:
		return true
	}
	return false
}

/*
startsPrefixExp reports whether a token kind can begin a prefixexp
(spec.md §4.2): a name, or a parenthesized expression.
*/
func startsPrefixExp(k token.Kind) bool {
	return k == token.Identifier || k == token.LParen
}

/*
parseNonPrefixExpStatement handles a statement whose first token
cannot start a prefixexp at all, so it is neither a variable nor a
function call. Lua still parses it as a plain expression (a literal,
a table constructor, a unary operator chain, ...) to give a precise
diagnosis: an immediately following '=' or ',' means the programmer
was attempting an assignment with a non-variable target
(MalformedAssignment); anything else means the expression was simply
used where a statement was expected (NotAStatement).
*/
func (p *parser) parseNonPrefixExpStatement() (ast.Stat, error) {
	start := p.cur().Slice
	exp, err := p.parseExp(0)
	if err != nil {
		return nil, err
	}

	if p.check(token.Assign) || p.check(token.Comma) {
		return nil, diag.New(diag.MalformedAssignment,
			"left side of assignment must be a variable", start.Join(exp.Slice()))
	}

	return nil, diag.New(diag.NotAStatement,
		"expression used as a statement is not a function call", exp.Slice())
}

func (p *parser) parseFuncBody(start token.SourceSlice, isMethod bool) (*ast.FunctionExp, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	var params []string
	if isMethod {
		params = append(params, "self")
	}
	vararg := false

	if !p.check(token.RParen) {
		for {
			if p.check(token.Ellipsis) {
				p.advance()
				vararg = true
				break
			}
			n, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			params = append(params, n.Val)
			if !p.check(token.Comma) {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.End)
	if err != nil {
		return nil, p.errUnterminated("function body", start)
	}

	return &ast.FunctionExp{Base: ast.Base{S: start.Join(end.Slice)}, Params: params, IsVararg: vararg, Body: body}, nil
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

type binInfo struct {
	prec  int
	right bool
}

var binops = map[token.Kind]binInfo{
	token.Or:      {1, false},
	token.And:     {2, false},
	token.Lt:      {3, false},
	token.Gt:      {3, false},
	token.Le:      {3, false},
	token.Ge:      {3, false},
	token.Eq:      {3, false},
	token.Neq:     {3, false},
	token.Concat:  {4, true},
	token.Plus:    {5, false},
	token.Minus:   {5, false},
	token.Star:    {6, false},
	token.Slash:   {6, false},
	token.Percent: {6, false},
	token.Caret:   {8, true},
}

const unaryPrec = 7

func (p *parser) parseExpList() ([]ast.Exp, error) {
	first, err := p.parseExp(0)
	if err != nil {
		return nil, err
	}
	exps := []ast.Exp{first}
	for p.check(token.Comma) {
		p.advance()
		e, err := p.parseExp(0)
		if err != nil {
			return nil, err
		}
		exps = append(exps, e)
	}
	return exps, nil
}

func (p *parser) parseExp(minPrec int) (ast.Exp, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		info, ok := binops[p.cur().Kind]
		if !ok || info.prec < minPrec {
			break
		}
		opTok := p.advance()

		nextMin := info.prec + 1
		if info.right {
			nextMin = info.prec
		}

		right, err := p.parseExp(nextMin)
		if err != nil {
			return nil, err
		}

		left = &ast.BinopExp{
			Base: ast.Base{S: left.Slice().Join(right.Slice())},
			Op:   opTok.Kind, LHS: left, RHS: right,
		}
	}

	return left, nil
}

var unaryOps = map[token.Kind]bool{token.Minus: true, token.Not: true, token.Hash: true}

func (p *parser) parseUnary() (ast.Exp, error) {
	if unaryOps[p.cur().Kind] {
		opTok := p.advance()
		operand, err := p.parseExp(unaryPrec)
		if err != nil {
			return nil, err
		}
		return &ast.UnopExp{Base: ast.Base{S: opTok.Slice.Join(operand.Slice())}, Op: opTok.Kind, Operand: operand}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (ast.Exp, error) {
	t := p.cur()

	switch t.Kind {
	case token.Nil:
		p.advance()
		return &ast.NilExp{Base: ast.Base{S: t.Slice}}, nil
	case token.True, token.False:
		p.advance()
		return &ast.BoolExp{Base: ast.Base{S: t.Slice}, Val: t.Kind == token.True}, nil
	case token.Number:
		p.advance()
		return &ast.NumberExp{Base: ast.Base{S: t.Slice}, Val: t.Num}, nil
	case token.String:
		p.advance()
		return &ast.StringExp{Base: ast.Base{S: t.Slice}, Val: t.Val}, nil
	case token.Ellipsis:
		p.advance()
		return &ast.VarargExp{Base: ast.Base{S: t.Slice}}, nil
	case token.Function:
		p.advance()
		return p.parseFuncBody(t.Slice, false)
	case token.LBrace:
		return p.parseTableConstructor()
	case token.Identifier, token.LParen:
		return p.parsePrefixExp()
	}

	return nil, p.errUnexpected()
}

/*
parsePrefixExp parses var/functioncall/'(' exp ')' and any chain of
index, field, call, and method-call suffixes (spec.md §4.2
"prefixexp").
*/
func (p *parser) parsePrefixExp() (ast.Exp, error) {
	var atom ast.Exp

	if p.check(token.LParen) {
		start := p.advance().Slice
		inner, err := p.parseExp(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, p.errUnterminated("parenthesized expression", start)
		}
		atom = inner
	} else {
		name, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		atom = &ast.NameExp{Base: ast.Base{S: name.Slice}, Name: name.Val}
	}

	for {
		switch p.cur().Kind {
		case token.Dot:
			p.advance()
			name, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			atom = &ast.FieldExp{Base: ast.Base{S: atom.Slice().Join(name.Slice)}, Prefix: atom, Name: name.Val}

		case token.LBracket:
			p.advance()
			key, err := p.parseExp(0)
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.RBracket)
			if err != nil {
				return nil, err
			}
			atom = &ast.IndexExp{Base: ast.Base{S: atom.Slice().Join(end.Slice)}, Prefix: atom, Key: key}

		case token.Colon:
			p.advance()
			name, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			args, end, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			atom = &ast.MethodCallExp{Base: ast.Base{S: atom.Slice().Join(end)}, Prefix: atom, Name: name.Val, Args: args}

		case token.LParen, token.LBrace, token.String:
			args, end, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			atom = &ast.CallExp{Base: ast.Base{S: atom.Slice().Join(end)}, Prefix: atom, Args: args}

		default:
			return atom, nil
		}
	}
}

/*
parseArgs parses the three call-argument forms (spec.md §4.2 "args")
and returns the argument list plus the SourceSlice of the final token
consumed, for the caller to fold into the call node's span.
*/
func (p *parser) parseArgs() ([]ast.Exp, token.SourceSlice, error) {
	switch p.cur().Kind {
	case token.LParen:
		start := p.advance().Slice
		if p.check(token.RParen) {
			end := p.advance().Slice
			return nil, end, nil
		}
		exps, err := p.parseExpList()
		if err != nil {
			return nil, token.SourceSlice{}, err
		}
		end, err := p.expect(token.RParen)
		if err != nil {
			return nil, token.SourceSlice{}, p.errUnterminated("call arguments", start)
		}
		return exps, end.Slice, nil

	case token.LBrace:
		t, err := p.parseTableConstructor()
		if err != nil {
			return nil, token.SourceSlice{}, err
		}
		return []ast.Exp{t}, t.Slice(), nil

	case token.String:
		t := p.advance()
		return []ast.Exp{&ast.StringExp{Base: ast.Base{S: t.Slice}, Val: t.Val}}, t.Slice, nil
	}

	return nil, token.SourceSlice{}, p.errUnexpected()
}

func (p *parser) parseTableConstructor() (ast.Exp, error) {
	start, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}

	var fields []ast.Field

	for !p.check(token.RBrace) {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)

		if p.check(token.Comma) || p.check(token.Semicolon) {
			p.advance()
			continue
		}
		break
	}

	end, err := p.expect(token.RBrace)
	if err != nil {
		return nil, p.errUnterminated("table constructor", start.Slice)
	}

	return &ast.TableExp{Base: ast.Base{S: start.Slice.Join(end.Slice)}, Fields: fields}, nil
}

func (p *parser) parseField() (ast.Field, error) {
	if p.check(token.LBracket) {
		start := p.advance().Slice
		key, err := p.parseExp(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Assign); err != nil {
			return nil, err
		}
		val, err := p.parseExp(0)
		if err != nil {
			return nil, err
		}
		return &ast.ComputedField{Base: ast.Base{S: start.Join(val.Slice())}, Key: key, Val: val}, nil
	}

	if p.check(token.Identifier) && p.peekNext().Kind == token.Assign {
		name := p.advance()
		p.advance() // '='
		val, err := p.parseExp(0)
		if err != nil {
			return nil, err
		}
		return &ast.NamedField{Base: ast.Base{S: name.Slice.Join(val.Slice())}, Name: name.Val, Val: val}, nil
	}

	val, err := p.parseExp(0)
	if err != nil {
		return nil, err
	}
	return &ast.PositionalField{Base: ast.Base{S: val.Slice()}, Val: val}, nil
}

func (p *parser) peekNext() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

