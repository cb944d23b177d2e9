package parser

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

func (p *Parser) peek() token { return p.peekN(0) }

func (p *Parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.peek().kind == tokEOF }

func (p *Parser) is(text string) bool { return p.peek().is(text) }

func (p *Parser) accept(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(text string) error {
	if !p.accept(text) {
		return p.errorf("expected %q, found %q", text, p.peek().text)
	}
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", p.errorf("expected identifier, found %q", t.text)
	}
	p.next()
	return t.text, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.atEOF() {
		msg += " at end of file"
	}
	return errors.Mark(errors.Newf("%s:%d: %s", p.path, p.peek().line, msg), ErrSyntax)
}

// source returns the source text covered by tokens [start, end).
func (p *Parser) source(start, end int) string {
	if start >= end {
		return ""
	}
	return p.src[p.toks[start].offset:p.toks[end-1].end()]
}

// inner returns the text between the delimiters of the group [start, end).
func (p *Parser) inner(start, end int) string {
	if end-start < 2 {
		return ""
	}
	from, to := p.toks[start].end(), p.toks[end-1].offset
	if from >= to {
		return ""
	}
	return p.src[from:to]
}

func isOpen(s string) bool  { return s == "(" || s == "[" || s == "{" }
func isClose(s string) bool { return s == ")" || s == "]" || s == "}" }

var closer = map[string]string{"(": ")", "[": "]", "{": "}"}

// matchGroup returns the index just past the delimiter that closes the group
// opened at i.
func (p *Parser) matchGroup(i int) (int, error) {
	var stack []string
	for ; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case t.kind == tokEOF:
			return 0, errors.Mark(errors.Newf("%s:%d: unclosed delimiter", p.path, t.line), ErrSyntax)
		case t.kind != tokPunct:
		case isOpen(t.text):
			stack = append(stack, closer[t.text])
		case isClose(t.text):
			if len(stack) == 0 || stack[len(stack)-1] != t.text {
				return 0, errors.Mark(errors.Newf("%s:%d: mismatched %q", p.path, t.line, t.text), ErrSyntax)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, errors.Mark(errors.Newf("%s: unclosed delimiter", p.path), ErrSyntax)
}

func (p *Parser) skipGroup() error {
	if !isOpen(p.peek().text) {
		return p.errorf("expected delimiter, found %q", p.peek().text)
	}
	end, err := p.matchGroup(p.pos)
	if err != nil {
		return err
	}
	p.pos = end
	return nil
}

// scanUntil returns the index of the first punctuation token in stops that
// sits outside any delimiter group, starting at the current position.
func (p *Parser) scanUntil(stops ...string) (int, error) {
	for i := p.pos; i < len(p.toks); {
		t := p.toks[i]
		if t.kind == tokEOF {
			break
		}
		if t.kind == tokPunct {
			for _, s := range stops {
				if t.text == s {
					return i, nil
				}
			}
			if isOpen(t.text) {
				end, err := p.matchGroup(i)
				if err != nil {
					return 0, err
				}
				i = end
				continue
			}
			if isClose(t.text) {
				return 0, errors.Mark(errors.Newf("%s:%d: unexpected %q", p.path, t.line, t.text), ErrSyntax)
			}
		}
		i++
	}
	return 0, p.errorf("expected one of %q", stops)
}

// scanGenericArg returns the index of the "," or ">" that ends the generic
// parameter or argument starting at the current position.
func (p *Parser) scanGenericArg() (int, error) {
	angle := 0
	for i := p.pos; i < len(p.toks); {
		t := p.toks[i]
		if t.kind == tokEOF {
			break
		}
		if t.kind == tokPunct {
			switch {
			case (t.text == "," || t.text == ">") && angle == 0:
				return i, nil
			case t.text == "<":
				angle++
			case t.text == ">":
				angle--
			case isOpen(t.text):
				end, err := p.matchGroup(i)
				if err != nil {
					return 0, err
				}
				i = end
				continue
			case isClose(t.text):
				return 0, errors.Mark(errors.Newf("%s:%d: unexpected %q", p.path, t.line, t.text), ErrSyntax)
			}
		}
		i++
	}
	return 0, p.errorf("unterminated generic list")
}
