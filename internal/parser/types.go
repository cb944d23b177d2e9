package parser

import (
	"github.com/cmmoran/tsync/internal/model"
)

// collectType parses one type expression and records its source text.
func (p *Parser) collectType() (model.TypeExpr, error) {
	start := p.pos
	t, err := p.collectTypeInner()
	if err != nil {
		return t, err
	}
	t.Text = p.source(start, p.pos)
	return t, nil
}

func (p *Parser) collectTypeInner() (model.TypeExpr, error) {
	other := model.TypeExpr{Kind: model.TypeOther}
	t := p.peek()
	switch {
	case t.is("&"):
		p.next()
		if p.peek().kind == tokLifetime {
			p.next()
		}
		p.accept("mut")
		elem, err := p.collectType()
		if err != nil {
			return other, err
		}
		return model.TypeExpr{Kind: model.TypeReference, Elem: &elem}, nil

	case t.is("*"):
		p.next()
		if !p.accept("const") {
			p.accept("mut")
		}
		_, err := p.collectType()
		return other, err

	case t.is("("):
		return p.collectTuple()

	case t.is("["):
		return other, p.skipGroup()

	case t.is("!"), t.is("_"):
		p.next()
		return other, nil

	case t.is("<"):
		// qualified path: <T as Trait>::Assoc
		end, err := p.scanAngle()
		if err != nil {
			return other, err
		}
		p.pos = end
		for p.accept("::") {
			if _, err := p.collectPath(); err != nil {
				return other, err
			}
		}
		return other, nil

	case t.is("for"):
		p.next()
		end, err := p.scanAngle()
		if err != nil {
			return other, err
		}
		p.pos = end
		_, err = p.collectTypeInner()
		return other, err

	case t.is("fn"), t.is("unsafe"), t.is("extern"):
		return other, p.skipFnPointer()

	case t.is("impl"), t.is("dyn"):
		p.next()
		return other, p.skipBounds()

	case t.is("::"), t.kind == tokIdent:
		path, err := p.collectPath()
		if err != nil {
			return other, err
		}
		if p.accept("+") {
			// bare trait object with extra bounds
			return other, p.skipBounds()
		}
		return path, nil
	}
	return other, p.errorf("expected type, found %q", t.text)
}

func (p *Parser) collectTuple() (model.TypeExpr, error) {
	p.next()
	tuple := model.TypeExpr{Kind: model.TypeTuple}
	if p.accept(")") {
		return tuple, nil
	}
	first, err := p.collectType()
	if err != nil {
		return tuple, err
	}
	if p.accept(")") {
		// (T) is a parenthesized type, not a tuple
		return model.TypeExpr{Kind: model.TypeOther}, nil
	}
	tuple.Elems = append(tuple.Elems, first)
	for {
		if err := p.expect(","); err != nil {
			return tuple, err
		}
		if p.accept(")") {
			return tuple, nil
		}
		elem, err := p.collectType()
		if err != nil {
			return tuple, err
		}
		tuple.Elems = append(tuple.Elems, elem)
		if p.accept(")") {
			return tuple, nil
		}
	}
}

// collectPath parses a::b::Name<Args>. Generic arguments are kept for the
// last segment only.
func (p *Parser) collectPath() (model.TypeExpr, error) {
	path := model.TypeExpr{Kind: model.TypePath}
	p.accept("::")
	for {
		id, err := p.expectIdent()
		if err != nil {
			return path, err
		}
		path.Segments = append(path.Segments, id)
		path.Args, path.Parenthesized = nil, false

		if p.is("::") && p.peekN(1).is("<") {
			p.next()
		}
		switch {
		case p.is("<"):
			if path.Args, err = p.collectGenericArgs(); err != nil {
				return path, err
			}
		case p.is("("):
			// Fn(A, B) -> C
			if err := p.skipGroup(); err != nil {
				return path, err
			}
			if p.accept("->") {
				if _, err := p.collectType(); err != nil {
					return path, err
				}
			}
			path.Parenthesized = true
		}

		if p.is("::") && p.peekN(1).kind == tokIdent {
			p.next()
			continue
		}
		return path, nil
	}
}

func (p *Parser) collectGenericArgs() ([]model.GenericArg, error) {
	p.next()
	var args []model.GenericArg
	for !p.accept(">") {
		start := p.pos
		t := p.peek()
		switch {
		case t.kind == tokLifetime:
			p.next()
			args = append(args, model.GenericArg{Kind: model.ArgLifetime, Text: t.text})

		case t.kind == tokLiteral, t.is("{"), t.is("-"),
			t.kind == tokIdent && (p.peekN(1).is("=") || p.peekN(1).is(":")):
			// const argument or associated type binding
			end, err := p.scanGenericArg()
			if err != nil {
				return nil, err
			}
			p.pos = end
			args = append(args, model.GenericArg{Kind: model.ArgOther, Text: p.source(start, end)})

		default:
			ty, err := p.collectType()
			if err != nil {
				return nil, err
			}
			args = append(args, model.GenericArg{Kind: model.ArgType, Type: &ty, Text: ty.Text})
		}
		if !p.accept(",") && !p.is(">") {
			return nil, p.errorf("expected , or > in generic arguments, found %q", p.peek().text)
		}
	}
	return args, nil
}

// scanAngle returns the index just past the ">" closing the "<" at the
// current position.
func (p *Parser) scanAngle() (int, error) {
	depth := 0
	for i := p.pos; i < len(p.toks); {
		t := p.toks[i]
		if t.kind == tokEOF {
			break
		}
		if t.kind == tokPunct {
			switch {
			case t.text == "<":
				depth++
			case t.text == ">":
				depth--
				if depth == 0 {
					return i + 1, nil
				}
			case isOpen(t.text):
				end, err := p.matchGroup(i)
				if err != nil {
					return 0, err
				}
				i = end
				continue
			}
		}
		i++
	}
	return 0, p.errorf("unterminated angle brackets")
}

func (p *Parser) skipFnPointer() error {
	p.accept("unsafe")
	if p.accept("extern") && p.peek().kind == tokLiteral {
		p.next()
	}
	if err := p.expect("fn"); err != nil {
		return err
	}
	if err := p.skipGroup(); err != nil {
		return err
	}
	if p.accept("->") {
		_, err := p.collectType()
		return err
	}
	return nil
}

// skipBounds consumes Trait + 'a + ?Sized style bound lists.
func (p *Parser) skipBounds() error {
	for {
		switch {
		case p.peek().kind == tokLifetime:
			p.next()
		case p.accept("?"):
			if _, err := p.collectPath(); err != nil {
				return err
			}
		case p.is("("):
			if err := p.skipGroup(); err != nil {
				return err
			}
		default:
			if p.is("for") {
				p.next()
				end, err := p.scanAngle()
				if err != nil {
					return err
				}
				p.pos = end
			}
			if _, err := p.collectPath(); err != nil {
				return err
			}
		}
		if !p.accept("+") {
			return nil
		}
	}
}
