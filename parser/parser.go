// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements the BarkML recursive-descent parser (§4.2):
// it consumes the scanner's token sequence and produces a Module AST,
// enforcing a bounded recursion depth and reporting the first structured
// ParseError encountered. Parsing is single-pass and non-resumable.
package parser

import (
	"strings"

	"github.com/serates/barkml/ast"
	"github.com/serates/barkml/errors"
	"github.com/serates/barkml/literal"
	"github.com/serates/barkml/scanner"
	"github.com/serates/barkml/token"
	"github.com/serates/barkml/types"
)

// MaxRecursionDepth bounds the parser's recursive descent (§4.2): every
// entry into value, value_type, statement, or module increments the
// depth counter and is rejected once it would exceed this ceiling.
const MaxRecursionDepth = 64

// Parse lexes and parses src (labelled label for diagnostics) into a
// Module AST, per §6.2's `parse(source_label, text) -> Result<Module,
// ParseError>`.
func Parse(label string, src []byte) (*ast.Module, error) {
	toks, lexErr := scanner.ScanAll(label, src)
	if lexErr != nil {
		return nil, lexErr
	}
	p := newParser(label, toks)
	return p.parseModule()
}

// posToken pairs a scanner token with the run of comments that
// immediately preceded it, so the parser's single forward cursor can
// attach a comment run to whatever statement or value follows it
// (§4.2 "Comment attachment") without a second pass over the stream.
type posToken struct {
	tok      scanner.Token
	leading  []string
}

type parser struct {
	label string
	toks  []posToken
	idx   int
	depth int
}

func newParser(label string, toks []scanner.Token) *parser {
	p := &parser{label: label}
	var pending []string
	for _, t := range toks {
		if t.Kind == token.COMMENT {
			pending = append(pending, decodeComment(t.Lit))
			continue
		}
		p.toks = append(p.toks, posToken{tok: t, leading: pending})
		pending = nil
	}
	if len(p.toks) == 0 {
		// ScanAll always emits at least EOF; this is defensive only.
		p.toks = []posToken{{tok: scanner.Token{Kind: token.EOF}}}
	}
	return p
}

func decodeComment(raw string) string {
	switch {
	case strings.HasPrefix(raw, "#"):
		return strings.TrimSpace(raw[1:])
	case strings.HasPrefix(raw, "/*"):
		body := strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")
		return strings.TrimSpace(body)
	default:
		return raw
	}
}

func (p *parser) cur() posToken     { return p.toks[p.idx] }
func (p *parser) kind() token.Kind  { return p.cur().tok.Kind }
func (p *parser) loc() token.Location { return p.cur().tok.Loc }
func (p *parser) lit() string       { return p.cur().tok.Lit }

func (p *parser) advance() {
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
}

// enterDepth increments the recursion guard, returning a *errors.Error
// and false if doing so would exceed MaxRecursionDepth. Per §4.2 "Depth
// decrements on exit, including the failure path", a failed enter also
// restores depth before returning so a later sibling production is not
// penalized by this one's overflow.
func (p *parser) enterDepth(loc token.Location) (*errors.Error, bool) {
	p.depth++
	if p.depth > MaxRecursionDepth {
		err := errors.Newf(errors.RecursionLimit, loc, "exceeded max recursion depth %d", MaxRecursionDepth)
		err.Depth = p.depth
		p.depth--
		return err, false
	}
	return nil, true
}

func (p *parser) leave() { p.depth-- }

func (p *parser) errorf(loc token.Location, format string, args ...interface{}) *errors.Error {
	return errors.Newf(errors.ParseError, loc, format, args...)
}

// parseModule parses the synthetic root statement (§4.1 step 2): the
// flat list of top-level statements in the source, wrapped in a Module
// keyed on p.label.
func (p *parser) parseModule() (*ast.Module, error) {
	loc := p.loc()
	if err, ok := p.enterDepth(loc); !ok {
		return nil, err
	}
	defer p.leave()

	mod := ast.NewModule(p.label, loc)
	stmts, err := p.parseStatements(token.EOF)
	if err != nil {
		return nil, err
	}
	for _, st := range stmts {
		key := childKey(st)
		if mod.Children.Has(key) {
			return nil, p.errorDuplicate(st, key)
		}
		mod.Children.Set(key, st)
	}
	return mod, nil
}

func (p *parser) errorDuplicate(st ast.Statement, key string) *errors.Error {
	e := errors.Newf(errors.DuplicateIdentifier, st.Pos(), "duplicate identifier %q", key)
	return e
}

// childKey returns the key a statement occupies among its siblings: a
// Block's composite id (so labelled siblings are disambiguated, §3.5),
// or the statement's own identifier otherwise.
func childKey(s ast.Statement) string {
	if b, ok := s.(*ast.Block); ok {
		return b.CompositeID
	}
	return s.Identifier()
}

// parseStatements parses a run of statements up to (but not consuming)
// a token of kind end (RBRACE for a nested body, EOF for the module
// root). Commas between statements are optional (§4.2).
func (p *parser) parseStatements(end token.Kind) ([]ast.Statement, error) {
	var out []ast.Statement
	for p.kind() != end {
		if p.kind() == token.EOF {
			return nil, p.errorf(p.loc(), "unexpected EOF, expected %s", end)
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
		for p.kind() == token.COMMA {
			p.advance()
		}
	}
	return out, nil
}

// readMeta collects the bracket-label run and comment run immediately
// preceding the next element (§3.2, §4.1 "Labels").
func (p *parser) readMeta() (ast.Metadata, error) {
	comments := p.cur().leading
	var labels []string
	for p.kind() == token.LBRACK {
		p.advance()
		name, err := p.readNameLike()
		if err != nil {
			return ast.Metadata{}, err
		}
		if p.kind() != token.RBRACK {
			return ast.Metadata{}, p.errorf(p.loc(), "expected ']' closing label, found %s", p.kind())
		}
		p.advance()
		labels = append(labels, name)
	}
	return ast.Metadata{Comments: comments, Labels: labels}, nil
}

// readNameLike consumes one identifier-position token: a plain
// identifier, a keyword token used positionally as an identifier (the
// 0.8.4 ordering fix means `true` is still scanned as the TRUE keyword,
// so it's the parser, not the scanner, that accepts it as a name here),
// or a double-quoted string substituting for an identifier (§4.1).
func (p *parser) readNameLike() (string, error) {
	switch {
	case p.kind() == token.IDENT:
		name := p.lit()
		p.advance()
		return name, nil
	case p.kind() == token.STRING:
		name, err := p.decodeStringToken(p.cur().tok)
		if err != nil {
			return "", err
		}
		p.advance()
		return name, nil
	case p.kind().IsKeyword():
		name := p.lit()
		p.advance()
		return name, nil
	default:
		return "", p.errorf(p.loc(), "expected identifier, found %s", p.kind())
	}
}

// parseStatement parses one labelled, commented statement: a section, a
// block, or an assignment, per the statement production of §4.2.
func (p *parser) parseStatement() (ast.Statement, error) {
	loc := p.loc()
	if err, ok := p.enterDepth(loc); !ok {
		return nil, err
	}
	defer p.leave()

	meta, err := p.readMeta()
	if err != nil {
		return nil, err
	}
	headLoc := p.loc()
	ident, err := p.readNameLike()
	if err != nil {
		return nil, err
	}

	switch p.kind() {
	case token.COLON, token.ASSIGN:
		return p.parseAssignmentTail(ident, headLoc, meta)
	case token.LBRACE:
		return p.parseBody(ident, nil, headLoc, meta)
	case token.IDENT, token.STRING:
		labels, err := p.parseInlineLabels()
		if err != nil {
			return nil, err
		}
		if p.kind() != token.LBRACE {
			return nil, p.errorf(p.loc(), "expected '{' after block labels, found %s", p.kind())
		}
		return p.parseBody(ident, labels, headLoc, meta)
	default:
		if p.kind().IsKeyword() {
			// A keyword token can also open a chain of inline block
			// labels (e.g. a label that happens to read "true").
			labels, err := p.parseInlineLabels()
			if err != nil {
				return nil, err
			}
			if p.kind() == token.LBRACE {
				return p.parseBody(ident, labels, headLoc, meta)
			}
		}
		return nil, p.errorf(p.loc(), "expected '=', ':', or '{' after %q, found %s", ident, p.kind())
	}
}

// parseInlineLabels consumes the `{ label }` run of a block's own
// disambiguating labels (§3.5, grammar's `block := ident { label } ...`),
// distinct from the bracket Metadata labels of §3.2, which precede
// the whole statement rather than following its identifier.
func (p *parser) parseInlineLabels() ([]string, error) {
	var labels []string
	for p.kind() == token.IDENT || p.kind() == token.STRING || p.kind().IsKeyword() {
		name, err := p.readNameLike()
		if err != nil {
			return nil, err
		}
		labels = append(labels, name)
	}
	return labels, nil
}

// parseBody parses a `{ ... }` body following a statement head. When
// inlineLabels is non-empty the head is unambiguously a Block (its
// children are assignments only, per grammar). When empty, the body is
// parsed generically and then classified: an all-assignment body
// becomes a Block with no labels, matching the grammar's block
// production with an empty label list; any non-assignment child makes
// it a Section. (This classification rule resolves an ambiguity the
// source grammar leaves implicit; see DESIGN.md.)
func (p *parser) parseBody(ident string, inlineLabels []string, loc token.Location, meta ast.Metadata) (ast.Statement, error) {
	p.advance() // consume '{'

	if len(inlineLabels) > 0 {
		blk := ast.NewBlock(ident, inlineLabels, loc, meta)
		for p.kind() != token.RBRACE {
			if p.kind() == token.EOF {
				return nil, p.errorf(p.loc(), "unexpected EOF, expected '}'")
			}
			a, err := p.parseAssignmentOnly()
			if err != nil {
				return nil, err
			}
			if blk.Children.Has(a.Ident) {
				return nil, p.errorf(a.Loc, "duplicate identifier %q", a.Ident)
			}
			blk.Children.Set(a.Ident, a)
			for p.kind() == token.COMMA {
				p.advance()
			}
		}
		p.advance() // consume '}'
		return blk, nil
	}

	stmts, err := p.parseStatements(token.RBRACE)
	if err != nil {
		return nil, err
	}
	p.advance() // consume '}'

	allAssignments := true
	for _, s := range stmts {
		if _, ok := s.(*ast.Assignment); !ok {
			allAssignments = false
			break
		}
	}
	if allAssignments {
		blk := ast.NewBlock(ident, nil, loc, meta)
		for _, s := range stmts {
			a := s.(*ast.Assignment)
			if blk.Children.Has(a.Ident) {
				return nil, p.errorf(a.Loc, "duplicate identifier %q", a.Ident)
			}
			blk.Children.Set(a.Ident, a)
		}
		return blk, nil
	}

	sec := ast.NewSection(ident, loc, meta)
	for _, s := range stmts {
		key := childKey(s)
		if sec.Children.Has(key) {
			return nil, p.errorDuplicate(s, key)
		}
		sec.Children.Set(key, s)
	}
	return sec, nil
}

// parseAssignmentOnly parses one statement inside a labelled block body,
// where only the assignment form is grammatically valid.
func (p *parser) parseAssignmentOnly() (*ast.Assignment, error) {
	loc := p.loc()
	if err, ok := p.enterDepth(loc); !ok {
		return nil, err
	}
	defer p.leave()

	meta, err := p.readMeta()
	if err != nil {
		return nil, err
	}
	headLoc := p.loc()
	ident, err := p.readNameLike()
	if err != nil {
		return nil, err
	}
	if p.kind() != token.COLON && p.kind() != token.ASSIGN {
		return nil, p.errorf(p.loc(), "expected assignment in block body, found %s", p.kind())
	}
	st, err := p.parseAssignmentTail(ident, headLoc, meta)
	if err != nil {
		return nil, err
	}
	return st.(*ast.Assignment), nil
}

// parseAssignmentTail parses the `(":" value_type)? "=" value` portion
// of an assignment once its identifier is already consumed. This
// follows the concrete examples in §8 (`name: string = "svc"`) rather
// than the EBNF's literal token order, which places type_hint after the
// "="; see DESIGN.md.
func (p *parser) parseAssignmentTail(ident string, headLoc token.Location, meta ast.Metadata) (ast.Statement, error) {
	var hint *types.Type
	if p.kind() == token.COLON {
		p.advance()
		ty, err := p.parseValueType()
		if err != nil {
			return nil, err
		}
		hint = &ty
	}
	if p.kind() != token.ASSIGN {
		return nil, p.errorf(p.loc(), "expected '=', found %s", p.kind())
	}
	p.advance()
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if hint != nil && val.Kind != types.Macro {
		// An unresolved macro's real type is unknown until the loader
		// substitutes it (§4.5); checking compatibility here would
		// reject every hinted macro reference before resolution ever
		// runs. The loader's resolve pass re-checks compatibility
		// against the substituted value.
		actual := val.Type()
		if !types.Compatible(*hint, actual) {
			return nil, errors.Newf(errors.TypeMismatch, val.Loc,
				"declared type %s is incompatible with value of type %s", *hint, actual)
		}
	}
	return &ast.Assignment{Ident: ident, Type: hint, Value: val, Loc: headLoc, Meta: meta}, nil
}

// parseValueType parses a value_type production: a scalar/numeric type
// keyword, or array(...)/table(...) with a recursively parsed element
// type (§4.3).
func (p *parser) parseValueType() (types.Type, error) {
	loc := p.loc()
	if err, ok := p.enterDepth(loc); !ok {
		return types.Type{}, err
	}
	defer p.leave()

	kind, ok := typeKeywordKinds[p.kind()]
	if !ok {
		return types.Type{}, p.errorf(loc, "expected a type name, found %s", p.kind())
	}
	p.advance()

	switch kind {
	case types.Array:
		elem, err := p.parseParenthesizedElemType()
		if err != nil {
			return types.Type{}, err
		}
		return types.Arr(elem), nil
	case types.Table:
		elem, err := p.parseParenthesizedElemType()
		if err != nil {
			return types.Type{}, err
		}
		return types.Tbl(elem), nil
	default:
		return types.Scalar(kind), nil
	}
}

func (p *parser) parseParenthesizedElemType() (types.Type, error) {
	if p.kind() != token.LPAREN {
		return types.Type{}, p.errorf(p.loc(), "expected '(', found %s", p.kind())
	}
	p.advance()
	elem, err := p.parseValueType()
	if err != nil {
		return types.Type{}, err
	}
	if p.kind() != token.RPAREN {
		return types.Type{}, p.errorf(p.loc(), "expected ')', found %s", p.kind())
	}
	p.advance()
	return elem, nil
}

var typeKeywordKinds = map[token.Kind]types.Kind{
	token.TYPE_STRING:  types.String,
	token.TYPE_BYTES:   types.Bytes,
	token.TYPE_SYMBOL:  types.Symbol,
	token.TYPE_VERSION: types.Version,
	token.TYPE_REQUIRE: types.Require,
	token.TYPE_BOOL:    types.Bool,
	token.TYPE_I8:      types.I8,
	token.TYPE_I16:     types.I16,
	token.TYPE_I32:     types.I32,
	token.TYPE_I64:     types.I64,
	token.TYPE_I128:    types.I128,
	token.TYPE_U8:      types.U8,
	token.TYPE_U16:     types.U16,
	token.TYPE_U32:     types.U32,
	token.TYPE_U64:     types.U64,
	token.TYPE_U128:    types.U128,
	token.TYPE_F32:     types.F32,
	token.TYPE_F64:     types.F64,
	token.TYPE_ARRAY:   types.Array,
	token.TYPE_TABLE:   types.Table,
	token.TYPE_SECTION: types.Section,
	token.TYPE_BLOCK:   types.Block,
}

// parseValue parses a value production: scalar, array, table, or macro
// reference (§4.2).
func (p *parser) parseValue() (*ast.Value, error) {
	loc := p.loc()
	if err, ok := p.enterDepth(loc); !ok {
		return nil, err
	}
	defer p.leave()

	// Values only pick up a leading comment run (§3.2); unlike a
	// statement head, a value position cannot also accept bracket
	// labels ("[" here starts an array value, not a [label]).
	meta := ast.Metadata{Comments: p.cur().leading}

	switch p.kind() {
	case token.TRUE:
		p.advance()
		return &ast.Value{Kind: types.Bool, Bool: true, Loc: loc, Meta: meta}, nil
	case token.FALSE:
		p.advance()
		return &ast.Value{Kind: types.Bool, Bool: false, Loc: loc, Meta: meta}, nil
	case token.NULL:
		p.advance()
		return ast.Null(loc, meta), nil
	case token.INT:
		lit := p.lit()
		p.advance()
		n, derr := literal.DecodeInt(lit)
		if derr != nil {
			return nil, errors.Wrap(errors.ParseError, loc, derr, "malformed integer literal %q", lit)
		}
		return &ast.Value{Kind: n.Kind, Num: n.Value, Loc: loc, Meta: meta}, nil
	case token.FLOAT:
		lit := p.lit()
		p.advance()
		n, derr := literal.DecodeFloat(lit)
		if derr != nil {
			return nil, errors.Wrap(errors.ParseError, loc, derr, "malformed float literal %q", lit)
		}
		return &ast.Value{Kind: n.Kind, Num: n.Value, Loc: loc, Meta: meta}, nil
	case token.STRING:
		tok := p.cur().tok
		p.advance()
		s, derr := p.decodeStringToken(tok)
		if derr != nil {
			return nil, errors.Wrap(errors.ParseError, loc, derr, "malformed string literal %q", tok.Lit)
		}
		return &ast.Value{Kind: types.String, Str: s, Loc: loc, Meta: meta}, nil
	case token.BYTES:
		lit := p.lit()
		p.advance()
		b, derr := literal.DecodeBytes(lit)
		if derr != nil {
			return nil, errors.Wrap(errors.ParseError, loc, derr, "malformed byte literal %q", lit)
		}
		return &ast.Value{Kind: types.Bytes, Bytes: b, Loc: loc, Meta: meta}, nil
	case token.VERSION:
		lit := p.lit()
		p.advance()
		v, derr := literal.DecodeVersion(lit)
		if derr != nil {
			return nil, errors.Wrap(errors.ParseError, loc, derr, "malformed version literal %q", lit)
		}
		return &ast.Value{Kind: types.Version, Str: v, Loc: loc, Meta: meta}, nil
	case token.REQUIRE:
		lit := p.lit()
		p.advance()
		if _, derr := literal.DecodeRequire(lit); derr != nil {
			return nil, errors.Wrap(errors.ParseError, loc, derr, "malformed version requirement %q", lit)
		}
		return &ast.Value{Kind: types.Require, Str: lit, Loc: loc, Meta: meta}, nil
	case token.SYMBOL:
		lit := p.lit()
		p.advance()
		return &ast.Value{Kind: types.Symbol, Str: strings.TrimPrefix(lit, ":"), Loc: loc, Meta: meta}, nil
	case token.MACRO:
		lit := p.lit()
		p.advance()
		path, derr := ast.ParseMacroPath(strings.TrimPrefix(lit, "m!"))
		if derr != nil {
			return nil, errors.Wrap(errors.ParseError, loc, derr, "malformed macro reference %q", lit)
		}
		return &ast.Value{Kind: types.Macro, Macro: path, Loc: loc, Meta: meta}, nil
	case token.LBRACK:
		return p.parseArray(loc, meta)
	case token.LBRACE:
		return p.parseTable(loc, meta)
	default:
		return nil, p.errorf(loc, "expected a value, found %s", p.kind())
	}
}

func (p *parser) decodeStringToken(tok scanner.Token) (string, error) {
	switch {
	case strings.HasPrefix(tok.Lit, `"""`):
		return literal.DecodeMultiline(tok.Lit)
	case strings.HasPrefix(tok.Lit, `"`):
		return literal.DecodeDouble(tok.Lit)
	case strings.HasPrefix(tok.Lit, `'`):
		return literal.DecodeSingle(tok.Lit)
	default:
		return "", p.errorf(tok.Loc, "malformed string literal %q", tok.Lit)
	}
}

// parseArray parses `"[" { value (","?) } "]"`.
func (p *parser) parseArray(loc token.Location, meta ast.Metadata) (*ast.Value, error) {
	p.advance() // consume '['
	var elems []*ast.Value
	for p.kind() != token.RBRACK {
		if p.kind() == token.EOF {
			return nil, p.errorf(p.loc(), "unexpected EOF, expected ']'")
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		for p.kind() == token.COMMA {
			p.advance()
		}
	}
	p.advance() // consume ']'
	elemTy := combineTypes(elems)
	return &ast.Value{Kind: types.Array, Elements: elems, ElemTy: elemTy, Loc: loc, Meta: meta}, nil
}

// parseTable parses `"{" { ( ident | string ) "=" value (","?) } "}"`.
func (p *parser) parseTable(loc token.Location, meta ast.Metadata) (*ast.Value, error) {
	p.advance() // consume '{'
	entries := ast.NewOrderedMap[*ast.Value]()
	for p.kind() != token.RBRACE {
		if p.kind() == token.EOF {
			return nil, p.errorf(p.loc(), "unexpected EOF, expected '}'")
		}
		key, err := p.readNameLike()
		if err != nil {
			return nil, err
		}
		if p.kind() != token.ASSIGN {
			return nil, p.errorf(p.loc(), "expected '=' in table entry, found %s", p.kind())
		}
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		entries.Set(key, v)
		for p.kind() == token.COMMA {
			p.advance()
		}
	}
	p.advance() // consume '}'
	elemTy := combineTypes(entries.Values())
	return &ast.Value{Kind: types.Table, Entries: entries, ElemTy: elemTy, Loc: loc, Meta: meta}, nil
}

// combineTypes derives an Array/Table's element ValueType from its
// actual elements: types.AnyType for an empty or heterogeneous
// composite, the common type when every element shares it, or the
// widest member of a shared numeric family when elements differ only in
// declared width. This is an inference choice the source grammar leaves
// implicit; see DESIGN.md.
func combineTypes(vals []*ast.Value) types.Type {
	if len(vals) == 0 {
		return types.AnyType
	}
	result := vals[0].Type()
	for _, v := range vals[1:] {
		t := v.Type()
		if t.Kind == result.Kind {
			if result.Kind == types.Array || result.Kind == types.Table {
				if result.Elem.Kind != t.Elem.Kind {
					result = types.AnyType
					break
				}
			}
			continue
		}
		if types.Compatible(t, result) {
			result = t
			continue
		}
		if types.Compatible(result, t) {
			continue
		}
		result = types.AnyType
		break
	}
	return result
}
