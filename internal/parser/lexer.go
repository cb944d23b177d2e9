package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cockroachdb/errors"
)

// rustLexer tokenizes enough of Rust to find item boundaries. Rules are tried
// in order, so raw strings, byte strings and chars must precede identifiers
// and lifetimes. Block comments nest, so they get their own state.
var rustLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "CommentStart", Pattern: `/\*`, Action: lexer.Push("Comment")},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "RawString", Pattern: `b?r"[^"]*"|b?r#"[\s\S]*?"#|b?r##"[\s\S]*?"##|b?r###"[\s\S]*?"###`},
		{Name: "String", Pattern: `b?"(?:\\[\s\S]|[^"\\])*"`},
		{Name: "Char", Pattern: `b?'(?:\\u\{[0-9a-fA-F_]+\}|\\x[0-9a-fA-F]{2}|\\.|[^'\\\n])'`},
		{Name: "Lifetime", Pattern: `'[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Number", Pattern: `0x[0-9a-fA-F_]+[A-Za-z0-9_]*|0o[0-7_]+[A-Za-z0-9_]*|0b[01_]+[A-Za-z0-9_]*|[0-9][0-9_]*(?:\.[0-9][0-9_]*)?(?:[eE][+-]?[0-9_]+)?[A-Za-z0-9_]*`},
		{Name: "Ident", Pattern: `r#[A-Za-z_][A-Za-z0-9_]*|[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `::|->|=>|[!#$%&()*+,\-./:;<=>?@\[\]^{|}~]`},
	},
	"Comment": {
		{Name: "CommentStart", Pattern: `/\*`, Action: lexer.Push("Comment")},
		{Name: "CommentEnd", Pattern: `\*/`, Action: lexer.Pop()},
		{Name: "CommentText", Pattern: `[^*/]+|[*/]`},
	},
})

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokLifetime
	tokLiteral
	tokPunct
	tokDoc
)

type token struct {
	kind   tokKind
	text   string
	offset int
	line   int
}

func (t token) is(text string) bool {
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (t token) end() int { return t.offset + len(t.text) }

var symbols = rustLexer.Symbols()

// tokenize lexes src, drops whitespace and plain comments, and turns outer
// doc comments into tokDoc tokens carrying the comment body.
func tokenize(filename, src string) ([]token, error) {
	lex, err := rustLexer.LexString(filename, src)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "lex"), ErrSyntax)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "lex"), ErrSyntax)
	}

	var (
		out   = make([]token, 0, len(raw))
		depth int
		open  lexer.Token
	)
	for _, t := range raw {
		switch t.Type {
		case symbols["CommentStart"]:
			if depth == 0 {
				open = t
			}
			depth++
			continue
		case symbols["CommentEnd"]:
			if depth--; depth > 0 {
				continue
			}
			body, ok := docBody(src[open.Pos.Offset : t.Pos.Offset+len(t.Value)])
			if ok {
				out = append(out, token{kind: tokDoc, text: body, offset: open.Pos.Offset, line: open.Pos.Line})
			}
			continue
		}
		if depth > 0 {
			continue
		}

		tk := token{text: t.Value, offset: t.Pos.Offset, line: t.Pos.Line}
		switch t.Type {
		case lexer.EOF, symbols["Whitespace"]:
			continue
		case symbols["LineComment"]:
			body, ok := docBody(t.Value)
			if !ok {
				continue
			}
			tk.kind, tk.text = tokDoc, body
		case symbols["Ident"]:
			tk.kind = tokIdent
		case symbols["Lifetime"]:
			tk.kind = tokLifetime
		case symbols["String"], symbols["RawString"], symbols["Char"], symbols["Number"]:
			tk.kind = tokLiteral
		default:
			tk.kind = tokPunct
		}
		out = append(out, tk)
	}
	if depth > 0 {
		return nil, errors.Mark(errors.Newf("%s:%d: unterminated block comment", filename, open.Pos.Line), ErrSyntax)
	}
	out = append(out, token{kind: tokEOF, offset: len(src), line: lastLine(raw)})
	return out, nil
}

// docBody reports whether comment is an outer doc comment and returns its
// body. "////" and "/***" are plain comments; "//!" and "/*!" document the
// enclosing module and are ignored.
func docBody(comment string) (string, bool) {
	switch {
	case strings.HasPrefix(comment, "///") && !strings.HasPrefix(comment, "////"):
		return comment[3:], true
	case strings.HasPrefix(comment, "/**") && !strings.HasPrefix(comment, "/***") && comment != "/**/":
		return strings.TrimSuffix(comment[3:], "*/"), true
	}
	return "", false
}

func lastLine(raw []lexer.Token) int {
	if len(raw) == 0 {
		return 1
	}
	return raw[len(raw)-1].Pos.Line
}
