// Package frontend turns program source text into an *ast.Program: a
// concurrent state-machine lexer feeding a hand-written recursive descent
// parser. The parser does not use a generated grammar; this language's
// statements are small enough (a handful of prefix-notation forms) that a
// direct recursive descent over the token stream needs no shift/reduce
// tables.
package frontend

import (
	"fmt"
	"strconv"

	"cellatom/internal/ast"
)

// parser consumes items from a lexer and builds a Program in arena.
type parser struct {
	lex   *lexer
	arena *ast.Arena
	tok   item // current lookahead
}

// ParseError reports a malformed program, with the offending line/column
// carried from the token that triggered it.
type ParseError struct {
	Line, Pos int
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Pos, e.Msg)
}

// Parse scans and parses src into a Program backed by a fresh Arena.
func Parse(src string) (*ast.Program, error) {
	p := &parser{lex: newLexer(src), arena: ast.NewArena()}
	p.advance()

	var stmts []ast.Operand
	for p.tok.typ != itemEOF {
		if p.tok.typ == itemSemicolon {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return ast.NewProgram(p.arena, stmts), nil
}

func (p *parser) advance() {
	p.tok = p.lex.nextItem()
}

func (p *parser) expect(typ itemType, what string) (item, error) {
	if p.tok.typ != typ {
		return item{}, p.errorf("expected %s, got %q", what, p.tok.val)
	}
	tok := p.tok
	p.advance()
	return tok, nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: p.tok.line, Pos: p.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

// parseStatement parses one top-level statement: a binary op or a
// neighbours block.
func (p *parser) parseStatement() (ast.Operand, error) {
	if p.tok.typ == itemNeighbours {
		return p.parseNeighbours()
	}
	return p.parseBinaryOp()
}

var binOpKinds = map[itemType]ast.NodeKind{
	itemAssign: ast.Assign,
	itemPlus:   ast.Add,
	itemMinus:  ast.Sub,
	itemStar:   ast.Mul,
	itemSlash:  ast.Div,
	itemMin:    ast.Min,
	itemMax:    ast.Max,
}

// parseBinaryOp parses "op dest rvalue".
func (p *parser) parseBinaryOp() (ast.Operand, error) {
	kind, ok := binOpKinds[p.tok.typ]
	if !ok {
		return ast.Operand{}, p.errorf("expected an operator, got %q", p.tok.val)
	}
	p.advance()

	dest, err := p.parseRegister()
	if err != nil {
		return ast.Operand{}, err
	}
	rhs, err := p.parseRvalue()
	if err != nil {
		return ast.Operand{}, err
	}
	return p.arena.BinaryOp(kind, dest, rhs), nil
}

// parseRvalue parses a register, a literal, a range map, or a nested
// binary op.
func (p *parser) parseRvalue() (ast.Operand, error) {
	switch p.tok.typ {
	case itemIdent:
		return p.parseRegister()
	case itemNumber:
		return p.parseLiteral()
	case itemLBracket:
		return p.parseRangeMap()
	case itemAssign, itemPlus, itemMinus, itemStar, itemSlash, itemMin, itemMax:
		return p.parseBinaryOp()
	}
	return ast.Operand{}, p.errorf("expected a register, literal, range map, or operator, got %q", p.tok.val)
}

// parseRegister parses "a<digit>", "g<digit>", or "v".
func (p *parser) parseRegister() (ast.Operand, error) {
	tok, err := p.expect(itemIdent, "a register")
	if err != nil {
		return ast.Operand{}, err
	}
	name := tok.val
	if name == "v" {
		return ast.V, nil
	}
	if len(name) == 2 && (name[0] == 'a' || name[0] == 'g') {
		digit := int(name[1] - '0')
		if digit < 0 || digit > 9 {
			return ast.Operand{}, &ParseError{Line: tok.line, Pos: tok.pos, Msg: fmt.Sprintf("register index out of range: %q", name)}
		}
		if name[0] == 'a' {
			return ast.Register(digit), nil
		}
		return ast.Global(digit), nil
	}
	return ast.Operand{}, &ParseError{Line: tok.line, Pos: tok.pos, Msg: fmt.Sprintf("not a register: %q", name)}
}

// parseLiteral parses a signed integer literal.
func (p *parser) parseLiteral() (ast.Operand, error) {
	tok, err := p.expect(itemNumber, "a number")
	if err != nil {
		return ast.Operand{}, err
	}
	n, convErr := strconv.ParseInt(tok.val, 10, 16)
	if convErr != nil {
		return ast.Operand{}, &ParseError{Line: tok.line, Pos: tok.pos, Msg: fmt.Sprintf("invalid integer literal %q: %v", tok.val, convErr)}
	}
	return ast.Literal(int16(n)), nil
}

// parseRangeMap parses "[ rvalue | (entry ,)* ]".
func (p *parser) parseRangeMap() (ast.Operand, error) {
	if _, err := p.expect(itemLBracket, "'['"); err != nil {
		return ast.Operand{}, err
	}
	key, err := p.parseRvalue()
	if err != nil {
		return ast.Operand{}, err
	}
	if _, err := p.expect(itemPipe, "'|'"); err != nil {
		return ast.Operand{}, err
	}

	var entries []ast.RangeEntry
	for p.tok.typ != itemRBracket {
		entry, err := p.parseRangeEntry()
		if err != nil {
			return ast.Operand{}, err
		}
		entries = append(entries, entry)
		if p.tok.typ == itemComma {
			p.advance()
		}
	}
	if _, err := p.expect(itemRBracket, "']'"); err != nil {
		return ast.Operand{}, err
	}

	rt := &ast.RangeTable{Key: key, Entries: entries}
	return p.arena.NewRangeMap(rt), nil
}

// parseRangeEntry parses "( rvalue , rvalue ) => rvalue".
func (p *parser) parseRangeEntry() (ast.RangeEntry, error) {
	if _, err := p.expect(itemLParen, "'('"); err != nil {
		return ast.RangeEntry{}, err
	}
	min, err := p.parseRvalue()
	if err != nil {
		return ast.RangeEntry{}, err
	}
	if _, err := p.expect(itemComma, "','"); err != nil {
		return ast.RangeEntry{}, err
	}
	max, err := p.parseRvalue()
	if err != nil {
		return ast.RangeEntry{}, err
	}
	if _, err := p.expect(itemRParen, "')'"); err != nil {
		return ast.RangeEntry{}, err
	}
	if _, err := p.expect(itemArrow, "'=>'"); err != nil {
		return ast.RangeEntry{}, err
	}
	result, err := p.parseRvalue()
	if err != nil {
		return ast.RangeEntry{}, err
	}
	return ast.RangeEntry{Min: min, Max: max, Result: result}, nil
}

// parseNeighbours parses "neighbours ( statement* )".
func (p *parser) parseNeighbours() (ast.Operand, error) {
	if _, err := p.expect(itemNeighbours, "'neighbours'"); err != nil {
		return ast.Operand{}, err
	}
	if _, err := p.expect(itemLParen, "'('"); err != nil {
		return ast.Operand{}, err
	}

	var body []ast.Operand
	for p.tok.typ != itemRParen {
		if p.tok.typ == itemSemicolon {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.Operand{}, err
		}
		body = append(body, stmt)
	}
	if _, err := p.expect(itemRParen, "')'"); err != nil {
		return ast.Operand{}, err
	}
	return p.arena.NewNeighbours(body), nil
}
