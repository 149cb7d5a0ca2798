package schema

import (
	"strconv"

	"its-hmny.dev/resourcec/pkg/diag"
)

// Parser is a two-token-lookahead recursive-descent parser over the token
// stream produced by a Lexer. It never backtracks: every parseXxx method
// assumes curToken is already positioned at the first token of the
// construct it parses, and leaves curToken positioned just past it.
type Parser struct {
	lexer *Lexer

	curToken  Token
	peekToken Token
}

// NewParser prepares a Parser over the given Lexer, priming both the
// current and lookahead tokens.
func NewParser(lexer *Lexer) (*Parser, error) {
	p := &Parser{lexer: lexer}

	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Parser) advance() error {
	p.curToken = p.peekToken

	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.peekToken = tok
	return nil
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) curTokenIsKeyword(kw string) bool {
	return p.curToken.Type == TokenKeyword && p.curToken.Literal == kw
}

// expect asserts curToken has the given type, consumes it and advances, or
// returns a syntactic diagnostic describing what was found instead.
func (p *Parser) expect(t TokenType, what string) error {
	if !p.curTokenIs(t) {
		return p.unexpected(what)
	}
	return p.advance()
}

func (p *Parser) unexpected(what string) error {
	return diag.At(diag.Syntactic, p.curToken.Pos.Line, p.curToken.Pos.Column,
		"expected %s, got %q", what, p.curToken.Literal)
}

// ParseProgram parses the full token stream into a *Program: zero or more
// resource declarations back to back, up to EOF.
func (p *Parser) ParseProgram() (*Program, error) {
	program := &Program{}

	for !p.curTokenIs(TokenEOF) {
		if !p.curTokenIsKeyword("resource") {
			return nil, p.unexpected("'resource'")
		}

		resource, err := p.parseResource()
		if err != nil {
			return nil, err
		}
		program.Resources = append(program.Resources, resource)
	}

	return program, nil
}

// parseResource parses 'resource Name { field* }'. Assumes curToken is the
// 'resource' keyword.
func (p *Parser) parseResource() (Resource, error) {
	pos := p.curToken.Pos
	if err := p.advance(); err != nil { // consume 'resource'
		return Resource{}, err
	}

	if !p.curTokenIs(TokenIdent) {
		return Resource{}, p.unexpected("a resource name")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return Resource{}, err
	}

	if err := p.expect(TokenLBrace, "'{'"); err != nil {
		return Resource{}, err
	}

	var fields []Field
	for !p.curTokenIs(TokenRBrace) {
		if p.curTokenIs(TokenEOF) {
			return Resource{}, p.unexpected("'}'")
		}

		field, err := p.parseField(len(fields))
		if err != nil {
			return Resource{}, err
		}
		fields = append(fields, field)
	}

	if err := p.advance(); err != nil { // consume '}'
		return Resource{}, err
	}

	return Resource{Name: name, Fields: fields, Pos: pos}, nil
}

// attributeSet accumulates the attributes seen so far for one field
// declaration, rejecting duplicates as they're parsed.
type attributeSet struct {
	nullable bool
	optional bool
	def      *Literal
}

// parseField parses 'attribute* type name'. Assumes curToken is the first
// token of the field (an attribute keyword or the start of a type).
func (p *Parser) parseField(index int) (Field, error) {
	pos := p.curToken.Pos
	var attrs attributeSet

	for p.curTokenIs(TokenKeyword) && isAttributeKeyword(p.curToken.Literal) {
		if err := p.parseAttribute(&attrs); err != nil {
			return Field{}, err
		}
	}

	typ, err := p.parseType()
	if err != nil {
		return Field{}, err
	}

	if !p.curTokenIs(TokenIdent) {
		return Field{}, p.unexpected("a field name")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return Field{}, err
	}

	return Field{
		Name:     name,
		Type:     typ,
		Nullable: attrs.nullable,
		Optional: attrs.optional,
		Default:  attrs.def,
		Index:    index,
		Pos:      pos,
	}, nil
}

func isAttributeKeyword(kw string) bool {
	return kw == "nullable" || kw == "optional" || kw == "default"
}

func (p *Parser) parseAttribute(attrs *attributeSet) error {
	switch p.curToken.Literal {
	case "nullable":
		if attrs.nullable {
			return p.duplicateAttribute("nullable")
		}
		attrs.nullable = true
		return p.advance()

	case "optional":
		if attrs.optional {
			return p.duplicateAttribute("optional")
		}
		attrs.optional = true
		return p.advance()

	case "default":
		if attrs.def != nil {
			return p.duplicateAttribute("default")
		}
		if err := p.advance(); err != nil { // consume 'default'
			return err
		}
		if err := p.expect(TokenLParen, "'('"); err != nil {
			return err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return err
		}
		if err := p.expect(TokenRParen, "')'"); err != nil {
			return err
		}
		attrs.def = lit
		return nil

	default:
		return p.unexpected("an attribute")
	}
}

func (p *Parser) duplicateAttribute(name string) error {
	return diag.At(diag.Syntactic, p.curToken.Pos.Line, p.curToken.Pos.Column,
		"duplicate %q attribute on field", name)
}

// parseType parses 'string' | 'number' | 'bool' | 'list' type | Ident.
func (p *Parser) parseType() (Type, error) {
	switch {
	case p.curTokenIsKeyword("string"), p.curTokenIsKeyword("number"), p.curTokenIsKeyword("bool"):
		name := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return PrimitiveType{Name: name}, nil

	case p.curTokenIsKeyword("list"):
		if err := p.advance(); err != nil { // consume 'list'
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ListType{Elem: elem}, nil

	case p.curTokenIs(TokenIdent):
		name := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NamedType{Name: name}, nil

	default:
		return nil, p.unexpected("a type")
	}
}

// parseLiteral parses 'integer | "true" | "false" | stringLiteral'. Note
// that 'true'/'false' are not reserved words, so they surface here as plain
// identifiers and are recognized by their spelling.
func (p *Parser) parseLiteral() (*Literal, error) {
	switch p.curToken.Type {
	case TokenInt:
		value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
		if err != nil {
			return nil, diag.Wrap(diag.Syntactic, err,
				"line %d, column %d: integer literal %q out of range",
				p.curToken.Pos.Line, p.curToken.Pos.Column, p.curToken.Literal)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Kind: LiteralInt, IntValue: value}, nil

	case TokenString:
		value := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Kind: LiteralString, StringValue: value}, nil

	case TokenIdent:
		switch p.curToken.Literal {
		case "true", "false":
			value := p.curToken.Literal == "true"
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &Literal{Kind: LiteralBool, BoolValue: value}, nil
		default:
			return nil, p.unexpected("a literal (integer, true, false or string)")
		}

	default:
		return nil, p.unexpected("a literal (integer, true, false or string)")
	}
}
