package parser

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/cmmoran/tsync/internal/model"
)

// ErrSyntax marks every lex or parse failure so callers can tell a broken
// source file apart from an IO problem.
var ErrSyntax = errors.New("syntax error")

// Parser holds the token stream of one source file.
type Parser struct {
	path string
	src  string
	toks []token
	pos  int
}

// ParseFile reads path from fs and parses it.
func ParseFile(fs afero.Fs, path string) (*model.File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Parse(path, string(data))
}

// Parse parses src into the declarations the generator understands. Items it
// does not model are skipped; a lex or syntax error fails the whole file.
func Parse(path, src string) (*model.File, error) {
	toks, err := tokenize(path, src)
	if err != nil {
		return nil, err
	}
	p := &Parser{path: path, src: src, toks: toks}

	file := &model.File{Path: path}
	for !p.atEOF() {
		decl, err := p.collectItem()
		if err != nil {
			return nil, err
		}
		if decl != nil {
			file.Declarations = append(file.Declarations, decl)
		}
	}
	return file, nil
}

func (p *Parser) collectItem() (model.Declaration, error) {
	attrs, err := p.collectAttributes()
	if err != nil {
		return nil, err
	}
	if p.atEOF() || p.accept(";") {
		return nil, nil
	}
	p.skipVisibility()

	line := p.peek().line
	var decl model.Declaration
	switch {
	case p.is("struct"):
		decl, err = p.collectStruct()
	case p.is("enum"):
		decl, err = p.collectEnum()
	case p.is("type") && p.peekN(1).kind == tokIdent:
		decl, err = p.collectTypeAlias()
	case p.is("const") && p.peekN(1).kind == tokIdent && p.peekN(2).is(":"):
		decl, err = p.collectConst()
	default:
		return nil, p.skipItem()
	}
	if err != nil || decl == nil {
		return nil, err
	}

	h := header(decl)
	h.Attrs = attrs
	h.Line = line
	return decl, nil
}

func header(decl model.Declaration) *model.Header {
	switch d := decl.(type) {
	case *model.Struct:
		return &d.Header
	case *model.Enum:
		return &d.Header
	case *model.TypeAlias:
		return &d.Header
	case *model.Const:
		return &d.Header
	}
	panic("unknown declaration type")
}

// collectAttributes reads outer attributes and doc comments in source order.
// Inner attributes are consumed and dropped.
func (p *Parser) collectAttributes() ([]model.Attribute, error) {
	var attrs []model.Attribute
	for {
		t := p.peek()
		switch {
		case t.kind == tokDoc:
			p.next()
			attrs = append(attrs, docAttributes(t.text)...)
		case t.is("#") && p.peekN(1).is("!"):
			p.next()
			p.next()
			if err := p.skipGroup(); err != nil {
				return nil, err
			}
		case t.is("#") && p.peekN(1).is("["):
			p.next()
			attr, err := p.collectAttribute()
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, attr)
		default:
			return attrs, nil
		}
	}
}

// collectAttribute parses [path], [path(args)] or [path = value].
func (p *Parser) collectAttribute() (model.Attribute, error) {
	var attr model.Attribute
	if err := p.expect("["); err != nil {
		return attr, err
	}
	p.accept("::")
	for {
		id := p.peek()
		if id.kind != tokIdent {
			return attr, p.errorf("expected attribute path, found %q", id.text)
		}
		p.next()
		attr.Path = append(attr.Path, id.text)
		if !p.accept("::") {
			break
		}
	}

	switch {
	case p.is("(") || p.is("[") || p.is("{"):
		start := p.pos
		if err := p.skipGroup(); err != nil {
			return attr, err
		}
		attr.Args = p.inner(start, p.pos)
	case p.accept("="):
		start := p.pos
		end, err := p.scanUntil("]")
		if err != nil {
			return attr, err
		}
		attr.Value = p.source(start, end)
		p.pos = end
	}
	return attr, p.expect("]")
}

// docAttributes turns a doc comment body into doc attributes carrying a
// quoted value, the same shape #[doc = "..."] produces. Block comments give
// one attribute per non-empty line.
func docAttributes(body string) []model.Attribute {
	lines := strings.Split(body, "\n")
	if len(lines) == 1 {
		return []model.Attribute{{Path: []string{"doc"}, Value: `"` + body + `"`}}
	}

	var attrs []model.Attribute
	for _, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		if strings.TrimSpace(l) == "" {
			continue
		}
		attrs = append(attrs, model.Attribute{Path: []string{"doc"}, Value: `"` + l + `"`})
	}
	return attrs
}

func (p *Parser) skipVisibility() {
	if !p.accept("pub") {
		p.accept("crate")
		return
	}
	if p.is("(") {
		switch p.peekN(1).text {
		case "crate", "self", "super", "in":
			_ = p.skipGroup()
		}
	}
}

func (p *Parser) collectStruct() (model.Declaration, error) {
	p.next()
	s := &model.Struct{}
	var err error
	if s.Name, err = p.expectIdent(); err != nil {
		return nil, err
	}
	if s.Generics, err = p.collectGenerics(); err != nil {
		return nil, err
	}
	if err = p.skipWhere(); err != nil {
		return nil, err
	}

	switch {
	case p.is("{"):
		s.Fields, err = p.collectNamedFields()
	case p.is("("):
		if s.Fields, err = p.collectTupleFields(); err != nil {
			return nil, err
		}
		if err = p.skipWhere(); err != nil {
			return nil, err
		}
		err = p.expect(";")
	default:
		err = p.expect(";")
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) collectEnum() (model.Declaration, error) {
	p.next()
	e := &model.Enum{}
	var err error
	if e.Name, err = p.expectIdent(); err != nil {
		return nil, err
	}
	if e.Generics, err = p.collectGenerics(); err != nil {
		return nil, err
	}
	if err = p.skipWhere(); err != nil {
		return nil, err
	}
	if err = p.expect("{"); err != nil {
		return nil, err
	}

	for !p.accept("}") {
		v, err := p.collectVariant()
		if err != nil {
			return nil, err
		}
		e.Variants = append(e.Variants, v)
		if !p.accept(",") && !p.is("}") {
			return nil, p.errorf("expected , or } after variant %s, found %q", v.Name, p.peek().text)
		}
	}
	return e, nil
}

func (p *Parser) collectVariant() (model.Variant, error) {
	var (
		v   model.Variant
		err error
	)
	if v.Attrs, err = p.collectAttributes(); err != nil {
		return v, err
	}
	p.skipVisibility()
	if v.Name, err = p.expectIdent(); err != nil {
		return v, err
	}

	switch {
	case p.is("{"):
		v.Fields, err = p.collectNamedFields()
	case p.is("("):
		v.Fields, err = p.collectTupleFields()
	}
	if err != nil {
		return v, err
	}

	if p.accept("=") {
		start := p.pos
		end, err := p.scanUntil(",", "}")
		if err != nil {
			return v, err
		}
		v.Discriminant = p.source(start, end)
		p.pos = end
	}
	return v, nil
}

func (p *Parser) collectNamedFields() ([]model.Field, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var fields []model.Field
	for !p.accept("}") {
		var (
			f   model.Field
			err error
		)
		if f.Attrs, err = p.collectAttributes(); err != nil {
			return nil, err
		}
		p.skipVisibility()
		if f.Name, err = p.expectIdent(); err != nil {
			return nil, err
		}
		if err = p.expect(":"); err != nil {
			return nil, err
		}
		if f.Type, err = p.collectType(); err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if !p.accept(",") && !p.is("}") {
			return nil, p.errorf("expected , or } after field %s, found %q", f.Name, p.peek().text)
		}
	}
	return fields, nil
}

func (p *Parser) collectTupleFields() ([]model.Field, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var fields []model.Field
	for !p.accept(")") {
		var (
			f   model.Field
			err error
		)
		if f.Attrs, err = p.collectAttributes(); err != nil {
			return nil, err
		}
		p.skipVisibility()
		if f.Type, err = p.collectType(); err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if !p.accept(",") && !p.is(")") {
			return nil, p.errorf("expected , or ) after tuple field, found %q", p.peek().text)
		}
	}
	return fields, nil
}

func (p *Parser) collectTypeAlias() (model.Declaration, error) {
	p.next()
	a := &model.TypeAlias{}
	var err error
	if a.Name, err = p.expectIdent(); err != nil {
		return nil, err
	}
	if a.Generics, err = p.collectGenerics(); err != nil {
		return nil, err
	}
	if err = p.skipWhere(); err != nil {
		return nil, err
	}
	if !p.is("=") {
		// `type Foo;` or a bound-only alias: nothing to translate
		return nil, p.skipItem()
	}
	p.next()
	if a.Type, err = p.collectType(); err != nil {
		return nil, err
	}
	if err = p.skipWhere(); err != nil {
		return nil, err
	}
	if err = p.expect(";"); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *Parser) collectConst() (model.Declaration, error) {
	p.next()
	c := &model.Const{}
	var err error
	if c.Name, err = p.expectIdent(); err != nil {
		return nil, err
	}
	if err = p.expect(":"); err != nil {
		return nil, err
	}
	if c.Type, err = p.collectType(); err != nil {
		return nil, err
	}
	if err = p.expect("="); err != nil {
		return nil, err
	}
	start := p.pos
	end, err := p.scanUntil(";")
	if err != nil {
		return nil, err
	}
	c.Value = p.classifyExpr(start, end)
	p.pos = end
	if err = p.expect(";"); err != nil {
		return nil, err
	}
	return c, nil
}

// classifyExpr looks at the tokens in [start, end) without evaluating them.
func (p *Parser) classifyExpr(start, end int) model.ConstExpr {
	expr := model.ConstExpr{Kind: model.ExprOther, Text: p.source(start, end)}
	toks := p.toks[start:end]
	if len(toks) == 1 {
		if t := toks[0]; t.kind == tokLiteral || t.is("true") || t.is("false") {
			expr.Kind = model.ExprLiteral
		}
		return expr
	}

	// path ! group
	i := 0
	if i < len(toks) && toks[i].is("::") {
		i++
	}
	var path []string
	for i < len(toks) && toks[i].kind == tokIdent {
		path = append(path, toks[i].text)
		i++
		if i < len(toks) && toks[i].is("::") {
			i++
			continue
		}
		break
	}
	if len(path) == 0 || i+1 >= len(toks) || !toks[i].is("!") || !isOpen(toks[i+1].text) {
		return expr
	}
	groupEnd, err := p.matchGroup(start + i + 1)
	if err != nil || groupEnd != end {
		return expr
	}
	expr.Kind = model.ExprMacro
	expr.MacroPath = path
	expr.MacroBody = p.inner(start+i+1, end)
	return expr
}

// collectGenerics returns the type parameter names of a declaration. Lifetimes,
// const parameters, bounds and defaults are skipped.
func (p *Parser) collectGenerics() ([]string, error) {
	if !p.accept("<") {
		return nil, nil
	}
	var names []string
	for !p.accept(">") {
		if _, err := p.collectAttributes(); err != nil {
			return nil, err
		}
		t := p.peek()
		switch {
		case t.kind == tokLifetime:
			p.next()
		case t.is("const"):
			p.next()
			p.next()
		case t.kind == tokIdent:
			p.next()
			names = append(names, t.text)
		default:
			return nil, p.errorf("unexpected %q in generic parameters", t.text)
		}
		end, err := p.scanGenericArg()
		if err != nil {
			return nil, err
		}
		p.pos = end
		p.accept(",")
	}
	return names, nil
}

// skipWhere consumes a where clause up to, not including, the body or the
// terminating semicolon.
func (p *Parser) skipWhere() error {
	if !p.accept("where") {
		return nil
	}
	for !p.atEOF() && !p.is("{") && !p.is(";") && !p.is("=") {
		if isOpen(p.peek().text) {
			if err := p.skipGroup(); err != nil {
				return err
			}
			continue
		}
		p.next()
	}
	return nil
}

// skipItem consumes an item the generator does not model: everything up to a
// semicolon or a brace group at depth zero.
func (p *Parser) skipItem() error {
	for !p.atEOF() {
		t := p.peek()
		switch {
		case t.is(";"):
			p.next()
			return nil
		case t.is("{"):
			return p.skipGroup()
		case isOpen(t.text) && t.kind == tokPunct:
			if err := p.skipGroup(); err != nil {
				return err
			}
		case isClose(t.text) && t.kind == tokPunct:
			return p.errorf("unexpected %q", t.text)
		default:
			p.next()
		}
	}
	return nil
}
