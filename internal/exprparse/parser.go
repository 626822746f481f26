// Package exprparse implements a precedence-climbing (Pratt) parser over
// internal/exprlex's token stream, producing internal/exprast trees. It
// follows the teacher's hand-written recursive-descent parser structuring
// (a Parser struct holding one token of lookahead, one parseX method per
// grammar rule, typed *exprerr.Exception errors with source position)
// rather than a parser generator, cut down to the small expression grammar
// spec.md §4.3 describes: ternary (lowest, right-assoc) over binary
// operators (precedence-table-driven, left-assoc) over unary operators
// over postfix subscript over primaries (literals, identifiers, calls,
// parenthesized sub-expressions, and the prefix nested-expression operator).
package exprparse

import (
	"fmt"

	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprerr"
	"github.com/cwbudde/go-expr/internal/exprlex"
)

// Config supplies everything the grammar needs from the compiler that owns
// operator registration, kept separate from exprlex.Options (the scanner's
// concern) and exprast (the tree shape's concern) so this package depends
// on neither exprcomp nor exprplugin.
type Config struct {
	IntType, FloatType, StringType exprbox.TypeID

	// Precedence reports a symbolic operator's binding power; ok is false
	// for a glyph the scanner can produce but that is not a registered
	// binary operator (e.g. "!" is unary-only).
	Precedence func(op string) (prec int, ok bool)

	// UnaryOperators is the set of symbolic glyphs usable as a prefix
	// operator.
	UnaryOperators []string

	// VerbalBinaryOps/VerbalUnaryOps map a verbal alias identifier (e.g.
	// "and", "mod") to its canonical operator symbol, so the parser can
	// treat an otherwise-ordinary identifier as an operator application
	// without the scanner needing any keyword list.
	VerbalBinaryOps map[string]string
	VerbalUnaryOps  map[string]string

	// NestedExprOperator is the prefix glyph introducing a nested
	// expression reference (spec.md §4.8), e.g. "*"; empty disables the
	// syntax entirely.
	NestedExprOperator string
	// NestedExprFunc is the function name the resulting Function node
	// carries, for the compiler's nested-expression plug-in to recognize.
	NestedExprFunc string
	// AllowIdentifiersForNested lets the nested-expression operator's
	// operand be a bare identifier, lifted into a string literal naming
	// the referenced expression (spec.md §4.2/§4.8's
	// allow-identifiers-for-nested-expressions compile flag). Without it,
	// a bare identifier parses as an ordinary operand, evaluated like any
	// other string-yielding expression.
	AllowIdentifiersForNested bool
}

// Parser parses one expression's source text against cfg.
type Parser struct {
	sc  *exprlex.Scanner
	cfg Config
	src string
	cur exprlex.Token
}

// New creates a Parser over src and primes its first token of lookahead.
func New(src string, lexOpts exprlex.Options, cfg Config) (*Parser, error) {
	p := &Parser{sc: exprlex.New(src, lexOpts), cfg: cfg, src: src}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse consumes the entire source text as one expression and reports a
// SyntaxError if anything is left over.
func (p *Parser) Parse() (exprast.Node, error) {
	node, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != exprlex.EOF {
		return nil, p.errorf(p.cur.Pos, "unexpected trailing token %q", p.cur.Text)
	}
	return node, nil
}

func (p *Parser) advance() error {
	tok, err := p.sc.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(pos int, format string, args ...any) error {
	return exprerr.New(exprerr.SyntaxError, fmt.Sprintf(format, args...)).At(pos, p.src)
}

func (p *Parser) expectPunct(text string) error {
	if p.cur.Kind != exprlex.Punct || p.cur.Text != text {
		return p.errorf(p.cur.Pos, "expected %q, found %q", text, p.cur.Text)
	}
	return p.advance()
}

func (p *Parser) atPunct(text string) bool {
	return p.cur.Kind == exprlex.Punct && p.cur.Text == text
}

// parseTernary is the lowest-precedence, right-associative entry point:
// cond ? then : else, where else may itself be another ternary.
func (p *Parser) parseTernary() (exprast.Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.atPunct("?") {
		return cond, nil
	}
	qPos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	thenNode, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.atPunct(":") {
		return nil, p.errorf(p.cur.Pos, "expected ':' to complete ternary expression, found %q", p.cur.Text)
	}
	colonPos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	elseNode, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return exprast.NewTernary(cond, thenNode, elseNode, qPos, colonPos, cond.Pos()), nil
}

// parseBinary implements precedence climbing: it repeatedly folds in
// right operands whose operator binds at least as tightly as minPrec, and
// recurses with prec+1 for the right side so that same-precedence chains
// (a - b - c) associate left, matching exprast's default left-associative
// bracketing rule.
func (p *Parser) parseBinary(minPrec int) (exprast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, verbal, prec, ok := p.peekBinaryOperator()
		if !ok || prec < minPrec {
			return lhs, nil
		}
		opPos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		if verbal != "" {
			lhs = exprast.NewBinaryOpVerbal(op, verbal, lhs, rhs, opPos)
		} else {
			lhs = exprast.NewBinaryOp(op, lhs, rhs, opPos)
		}
	}
}

func (p *Parser) peekBinaryOperator() (op, verbal string, prec int, ok bool) {
	switch p.cur.Kind {
	case exprlex.Operator:
		if prec, found := p.cfg.Precedence(p.cur.Text); found {
			return p.cur.Text, "", prec, true
		}
	case exprlex.Ident:
		if canon, found := p.cfg.VerbalBinaryOps[p.cur.Text]; found {
			if prec, pfound := p.cfg.Precedence(canon); pfound {
				return canon, p.cur.Text, prec, true
			}
		}
	}
	return "", "", 0, false
}

func (p *Parser) parseUnary() (exprast.Node, error) {
	if op, verbal, ok := p.peekUnaryOperator(); ok {
		opPos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if verbal != "" {
			return exprast.NewUnaryOpVerbal(op, verbal, arg, opPos), nil
		}
		return exprast.NewUnaryOp(op, arg, opPos), nil
	}
	return p.parsePostfix()
}

func (p *Parser) peekUnaryOperator() (op, verbal string, ok bool) {
	switch p.cur.Kind {
	case exprlex.Operator:
		for _, u := range p.cfg.UnaryOperators {
			if u == p.cur.Text {
				return u, "", true
			}
		}
	case exprlex.Ident:
		if canon, ok := p.cfg.VerbalUnaryOps[p.cur.Text]; ok {
			return canon, p.cur.Text, true
		}
	}
	return "", "", false
}

// parsePostfix handles chained subscript application: expr[index][index]...
// The subscript operator is synthesized as a BinaryOp with operator "[]"
// rather than scanned as one glyph, since "[" and "]" are independently
// meaningful punctuation (argument-less array literals are not part of this
// grammar, so there is no ambiguity to resolve).
func (p *Parser) parsePostfix() (exprast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.atPunct("[") {
		opPos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		index, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		node = exprast.NewBinaryOp("[]", node, index, opPos)
	}
	return node, nil
}

func (p *Parser) parsePrimary() (exprast.Node, error) {
	if node, ok, err := p.tryParseNestedExpression(); err != nil {
		return nil, err
	} else if ok {
		return node, nil
	}

	tok := p.cur
	switch tok.Kind {
	case exprlex.Int:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return exprast.NewLiteral(exprbox.New(p.cfg.IntType, tok.IntValue), hintForBase(tok.NumberBase), tok.Pos), nil

	case exprlex.Float:
		if err := p.advance(); err != nil {
			return nil, err
		}
		hint := exprast.HintNone
		if tok.Scientific {
			hint = exprast.HintScientific
		}
		return exprast.NewLiteral(exprbox.New(p.cfg.FloatType, tok.FloatValue), hint, tok.Pos), nil

	case exprlex.Str:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return exprast.NewLiteral(exprbox.New(p.cfg.StringType, tok.StringValue), exprast.HintNone, tok.Pos), nil

	case exprlex.Ident:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atPunct("(") {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return exprast.NewFunction(tok.Text, args, tok.Pos), nil
		}
		return exprast.NewIdentifier(tok.Text, tok.Pos), nil

	case exprlex.Punct:
		if tok.Text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
		return nil, p.errorf(tok.Pos, "unexpected token %q", tok.Text)

	default:
		return nil, p.errorf(tok.Pos, "unexpected token %q", tok.Text)
	}
}

func (p *Parser) parseArgList() ([]exprast.Node, error) {
	if err := p.advance(); err != nil { // consume "("
		return nil, err
	}
	var args []exprast.Node
	if p.atPunct(")") {
		return args, p.advance()
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// tryParseNestedExpression recognizes the prefix nested-expression operator
// (spec.md §4.8). Its operand is any string-yielding expression; when
// AllowIdentifiersForNested is set, a bare identifier is additionally
// lifted into a string literal naming the expression, so `*Foo` and
// `*"Foo"` compile identically (spec.md §4.2).
func (p *Parser) tryParseNestedExpression() (exprast.Node, bool, error) {
	if p.cfg.NestedExprOperator == "" {
		return nil, false, nil
	}
	if p.cur.Kind != exprlex.Operator || p.cur.Text != p.cfg.NestedExprOperator {
		return nil, false, nil
	}
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, false, err
	}

	if p.cfg.AllowIdentifiersForNested && p.cur.Kind == exprlex.Ident {
		nameTok := p.cur
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		nameLit := exprast.NewLiteral(exprbox.New(p.cfg.StringType, nameTok.Text), exprast.HintNone, nameTok.Pos)
		fn := exprast.NewFunction(p.cfg.NestedExprFunc, []exprast.Node{nameLit}, pos)
		return fn, true, nil
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, false, err
	}
	fn := exprast.NewFunction(p.cfg.NestedExprFunc, []exprast.Node{operand}, pos)
	return fn, true, nil
}

func hintForBase(base exprlex.NumberBase) exprast.NumberHint {
	switch base {
	case exprlex.Base16:
		return exprast.HintHex
	case exprlex.Base8:
		return exprast.HintOctal
	case exprlex.Base2:
		return exprast.HintBinary
	default:
		return exprast.HintNone
	}
}
